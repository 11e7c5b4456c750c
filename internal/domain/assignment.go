package domain

import "time"

// ModeratorRole represents the role of a moderator within one event.
type ModeratorRole string

const (
	RoleModerator  ModeratorRole = "moderateur"
	RoleSupervisor ModeratorRole = "superviseur"
	RoleValidator  ModeratorRole = "validateur"
)

// IsValid checks if the role is one of the allowed values.
func (r ModeratorRole) IsValid() bool {
	switch r {
	case RoleModerator, RoleSupervisor, RoleValidator:
		return true
	default:
		return false
	}
}

// PermissionFlag names a single capability on a moderator assignment.
type PermissionFlag string

const (
	PermValidateTasks    PermissionFlag = "canValidateTasks"
	PermAssignTasks      PermissionFlag = "canAssignTasks"
	PermManageResources  PermissionFlag = "canManageResources"
	PermViewReports      PermissionFlag = "canViewReports"
	PermModerateComments PermissionFlag = "canModerateComments"
)

// Permissions is the fixed set of capabilities stored per assignment.
type Permissions struct {
	CanValidateTasks    bool
	CanAssignTasks      bool
	CanManageResources  bool
	CanViewReports      bool
	CanModerateComments bool
}

// Has returns the value of a single permission flag.
func (p Permissions) Has(flag PermissionFlag) bool {
	switch flag {
	case PermValidateTasks:
		return p.CanValidateTasks
	case PermAssignTasks:
		return p.CanAssignTasks
	case PermManageResources:
		return p.CanManageResources
	case PermViewReports:
		return p.CanViewReports
	case PermModerateComments:
		return p.CanModerateComments
	default:
		return false
	}
}

// PermissionOverrides carries explicit per-flag overrides applied on top of
// the role defaults at invitation time. Nil fields keep the default.
type PermissionOverrides struct {
	CanValidateTasks    *bool
	CanAssignTasks      *bool
	CanManageResources  *bool
	CanViewReports      *bool
	CanModerateComments *bool
}

// DefaultPermissions returns the permission set defaulted from a role.
// Only the supervisor role grants assignment and resource management.
func DefaultPermissions(role ModeratorRole) Permissions {
	switch role {
	case RoleSupervisor:
		return Permissions{
			CanValidateTasks:    true,
			CanAssignTasks:      true,
			CanManageResources:  true,
			CanViewReports:      true,
			CanModerateComments: true,
		}
	case RoleValidator:
		return Permissions{
			CanValidateTasks: true,
			CanViewReports:   true,
		}
	case RoleModerator:
		return Permissions{
			CanViewReports:      true,
			CanModerateComments: true,
		}
	default:
		return Permissions{}
	}
}

// Apply merges explicit overrides into a permission set.
func (p Permissions) Apply(o PermissionOverrides) Permissions {
	if o.CanValidateTasks != nil {
		p.CanValidateTasks = *o.CanValidateTasks
	}
	if o.CanAssignTasks != nil {
		p.CanAssignTasks = *o.CanAssignTasks
	}
	if o.CanManageResources != nil {
		p.CanManageResources = *o.CanManageResources
	}
	if o.CanViewReports != nil {
		p.CanViewReports = *o.CanViewReports
	}
	if o.CanModerateComments != nil {
		p.CanModerateComments = *o.CanModerateComments
	}
	return p
}

// ModeratorAssignment binds one moderator to one event with a role and an
// explicit permission set. At most one active assignment exists per
// (event, moderator) pair; revocation deactivates, it never deletes.
type ModeratorAssignment struct {
	ID          string
	EventID     string
	ModeratorID string
	Role        ModeratorRole
	Permissions Permissions
	AssignedBy  string
	AssignedAt  time.Time
	IsActive    bool
}
