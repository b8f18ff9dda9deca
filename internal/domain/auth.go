package domain

// Role enumerates caller roles carried inside access tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the authenticated subject together with its granted roles.
// An identity may hold more than one role.
type Identity struct {
	SubjectID string
	Roles     []Role
}

// HasRole reports whether the identity holds the given role.
func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFromStrings converts raw claim values into typed roles.
func RolesFromStrings(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, Role(r))
	}
	return roles
}

// RolesToStrings converts typed roles into raw claim values.
func RolesToStrings(roles []Role) []string {
	raw := make([]string, 0, len(roles))
	for _, r := range roles {
		raw = append(raw, string(r))
	}
	return raw
}
