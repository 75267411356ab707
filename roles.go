package authclient

// UserRole is the role carried on a profile. The session core treats it as
// opaque data; the methods exist for callers that want to branch on it.
type UserRole string

const (
	// RoleUser is the default role for new accounts
	RoleUser UserRole = "user"
	// RoleMod can moderate user generated content
	RoleMod UserRole = "mod"
	// RoleAdmin manages accounts and settings
	RoleAdmin UserRole = "admin"
	// RoleSuperadmin has full control
	RoleSuperadmin UserRole = "superadmin"
)

var roleHierarchy = map[UserRole]int{
	RoleUser:       0,
	RoleMod:        1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	current, ok := roleHierarchy[r]
	if !ok {
		return false
	}
	min, ok := roleHierarchy[minRole]
	if !ok {
		return false
	}
	return current >= min
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []UserRole {
	return []UserRole{RoleUser, RoleMod, RoleAdmin, RoleSuperadmin}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
