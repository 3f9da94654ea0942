package domain

// Role enumerates the fixed account roles seeded at startup.
type Role string

const (
	RoleStudent    Role = "student"
	RoleSupport    Role = "support"
	RoleDepartment Role = "department"
	RoleAdmin      Role = "admin"
)

// AllRoles lists every seeded role in insertion order.
var AllRoles = []Role{RoleStudent, RoleSupport, RoleDepartment, RoleAdmin}

// ParseRole maps a role name onto the enumeration.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleStudent, RoleSupport, RoleDepartment, RoleAdmin:
		return Role(name), true
	}
	return "", false
}

// RoleSet is a named group of roles allowed to perform an operation.
type RoleSet []Role

// Named role sets, narrowest to widest.
var (
	RoleSetAdmin    = RoleSet{RoleAdmin}
	RoleSetManagers = RoleSet{RoleDepartment, RoleAdmin}
	RoleSetStaff    = RoleSet{RoleSupport, RoleDepartment, RoleAdmin}
	RoleSetAnyone   = RoleSet{RoleStudent, RoleSupport, RoleDepartment, RoleAdmin}
)

// In reports membership of the role in the set.
func (r Role) In(set RoleSet) bool {
	for _, allowed := range set {
		if r == allowed {
			return true
		}
	}
	return false
}
