package domain

import "time"

// UserRole is the platform-level role supplied by the identity collaborator.
type UserRole string

const (
	UserRoleOrganizer   UserRole = "organisateur"
	UserRoleModerator   UserRole = "moderateur"
	UserRoleParticipant UserRole = "participant"
)

// User is a read model of the identity collaborator. The engine trusts the
// authenticated id and role; it never creates or mutates users.
type User struct {
	ID        string
	Name      string
	Email     string
	Token     string
	Role      UserRole
	IsActive  bool
	CreatedAt time.Time
}

// IsOrganizer reports whether the user holds the platform organizer role.
func (u *User) IsOrganizer() bool {
	return u.Role == UserRoleOrganizer
}
