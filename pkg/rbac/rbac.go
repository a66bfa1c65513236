package rbac

// Permission constants. Privileged operations are restricted to admins.
const (
	PermissionManageUsers   = "user:manage"
	PermissionDeleteIssue   = "issue:delete"
	PermissionDeleteProject = "project:delete"

	PermissionReadProject  = "project:read"
	PermissionWriteProject = "project:write"
	PermissionReadIssue    = "issue:read"
	PermissionWriteIssue   = "issue:write"
	PermissionWriteSheet   = "sheet:write"
	PermissionReadSheet    = "sheet:read"
)

// Role constants.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var rolePermissions = map[string][]string{
	RoleStaff: {
		PermissionReadProject,
		PermissionWriteProject,
		PermissionReadIssue,
		PermissionWriteIssue,
		PermissionReadSheet,
		PermissionWriteSheet,
	},
	RoleAdmin: {
		PermissionManageUsers,
		PermissionDeleteIssue,
		PermissionDeleteProject,
		PermissionReadProject,
		PermissionWriteProject,
		PermissionReadIssue,
		PermissionWriteIssue,
		PermissionReadSheet,
		PermissionWriteSheet,
	},
}

// HasPermission checks whether a role grants the given permission.
func HasPermission(role string, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns an error instead of a boolean, for handler use.
func CheckPermission(role string, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError indicates the role lacks the permission.
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
