package domain

import "fmt"

// Role classifies an identity. The set is closed: every role has an explicit
// home path, and ParseRole rejects anything else.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePractitioner Role = "practitioner"
	RolePatient      Role = "patient"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RolePractitioner, RolePatient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePractitioner, RolePatient:
		return true
	}
	return false
}

// HomePath returns the dashboard path for the role. The mapping is total over
// the closed set; adding a role without extending this switch is a bug caught
// by TestRoleHomePathTotal.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RolePractitioner:
		return "/practitioner"
	case RolePatient:
		return "/patient"
	}
	return "/"
}

func (r Role) String() string { return string(r) }

// IdentitySchemaVersion is stamped into every persisted identity record.
// Restore treats any other value as unparsable.
const IdentitySchemaVersion = 1

// Identity is the authenticated user's profile and role.
type Identity struct {
	Schema      int    `json:"schema"`
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
}

// Session is an active identity plus the opaque token bound to it.
type Session struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}
