package policy

import "github.com/google/uuid"

// Role is a coarse access tier. Every user carries exactly one.
type Role string

const (
	RoleBiller     Role = "Biller"
	RoleCollector  Role = "Collector"
	RoleOperations Role = "Operations"
	RoleDirector   Role = "Director"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleBiller, RoleCollector, RoleOperations, RoleDirector}
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleBiller, RoleCollector, RoleOperations, RoleDirector:
		return true
	}
	return false
}

// ParseRole normalizes role text from storage or requests.
func ParseRole(raw string) (Role, bool) {
	for _, r := range Roles() {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

// Principal is the authenticated identity a request acts as.
type Principal struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  Role
}
