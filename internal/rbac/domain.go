package rbac

import "fmt"

// Role is the closed set of account roles. Authorization is always an explicit
// allow-list per operation; no privilege ordering is assumed between roles.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleViewer     Role = "VIEWER"
)

// AllRoles lists every valid role.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleStaff, RoleViewer}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("rbac: unknown role %q", s)
	}
	return role, nil
}

// Principal describes the authenticated actor attached to a request.
type Principal struct {
	UserID int64
	Role   Role
}
