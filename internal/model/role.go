package model

// Role is one of the fixed role tags assigned to users.
type Role string

const (
	RoleAdmin     Role = "System Manager"
	RoleHRManager Role = "HR Manager"
	RoleHRUser    Role = "HR User"
	RoleManager   Role = "Manager"
	RoleEmployee  Role = "Employee"
)

// AllRoles is the fixed enumeration; roles reported by the identity store
// that are not in this list are ignored.
var AllRoles = []Role{RoleAdmin, RoleHRManager, RoleHRUser, RoleManager, RoleEmployee}

// PrivilegedRoles may see data beyond their own records. Plain Employee is
// deliberately excluded from this set.
var PrivilegedRoles = []Role{RoleAdmin, RoleHRManager, RoleHRUser, RoleManager}

// IsPrivileged reports whether the role grants broad data visibility.
func (r Role) IsPrivileged() bool {
	for _, p := range PrivilegedRoles {
		if r == p {
			return true
		}
	}
	return false
}
