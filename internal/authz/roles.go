package authz

const (
	RoleStaff       = 10
	RoleCoordinator = 20
	RoleAuditor     = 30
	RoleDeptHead    = 40
	RoleAdmin       = 50
)

func IsValidRole(roleID int) bool {
	switch roleID {
	case RoleStaff, RoleCoordinator, RoleAuditor, RoleDeptHead, RoleAdmin:
		return true
	}
	return false
}

func IsElevated(roleID int) bool {
	return roleID == RoleCoordinator || roleID == RoleDeptHead || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAuditor
}
