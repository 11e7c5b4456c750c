package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/festiplan/taskflow/internal/domain"
)

func TestDefaultPermissions(t *testing.T) {
	supervisor := domain.DefaultPermissions(domain.RoleSupervisor)
	assert.True(t, supervisor.CanValidateTasks)
	assert.True(t, supervisor.CanAssignTasks)
	assert.True(t, supervisor.CanManageResources)
	assert.True(t, supervisor.CanViewReports)
	assert.True(t, supervisor.CanModerateComments)

	validator := domain.DefaultPermissions(domain.RoleValidator)
	assert.True(t, validator.CanValidateTasks)
	assert.True(t, validator.CanViewReports)
	assert.False(t, validator.CanAssignTasks)
	assert.False(t, validator.CanManageResources)
	assert.False(t, validator.CanModerateComments)

	moderator := domain.DefaultPermissions(domain.RoleModerator)
	assert.False(t, moderator.CanValidateTasks)
	assert.True(t, moderator.CanViewReports)
	assert.True(t, moderator.CanModerateComments)
}

func TestPermissions_Apply(t *testing.T) {
	yes := true
	no := false

	// Overrides win in both directions
	perms := domain.DefaultPermissions(domain.RoleModerator).Apply(domain.PermissionOverrides{
		CanValidateTasks:    &yes,
		CanModerateComments: &no,
	})
	assert.True(t, perms.CanValidateTasks)
	assert.False(t, perms.CanModerateComments)
	// Untouched flags keep the role default
	assert.True(t, perms.CanViewReports)
	assert.False(t, perms.CanAssignTasks)

	// Empty overrides change nothing
	unchanged := domain.DefaultPermissions(domain.RoleValidator).Apply(domain.PermissionOverrides{})
	assert.Equal(t, domain.DefaultPermissions(domain.RoleValidator), unchanged)
}

func TestPermissions_Has(t *testing.T) {
	perms := domain.Permissions{CanValidateTasks: true, CanViewReports: true}

	assert.True(t, perms.Has(domain.PermValidateTasks))
	assert.True(t, perms.Has(domain.PermViewReports))
	assert.False(t, perms.Has(domain.PermAssignTasks))
	assert.False(t, perms.Has(domain.PermissionFlag("canDoAnything")))
}

func TestModeratorRole_IsValid(t *testing.T) {
	assert.True(t, domain.RoleModerator.IsValid())
	assert.True(t, domain.RoleSupervisor.IsValid())
	assert.True(t, domain.RoleValidator.IsValid())
	assert.False(t, domain.ModeratorRole("admin").IsValid())
}
