package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleAdmin, PermissionManageUsers, true},
		{RoleAdmin, PermissionDeleteIssue, true},
		{RoleAdmin, PermissionWriteIssue, true},
		{RoleStaff, PermissionWriteIssue, true},
		{RoleStaff, PermissionManageUsers, false},
		{RoleStaff, PermissionDeleteIssue, false},
		{RoleStaff, PermissionDeleteProject, false},
		{"", PermissionReadIssue, false},
		{"viewer", PermissionReadIssue, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.permission); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestCheckPermission(t *testing.T) {
	if err := CheckPermission(RoleAdmin, PermissionManageUsers); err != nil {
		t.Fatalf("admin should manage users, got %v", err)
	}

	err := CheckPermission(RoleStaff, PermissionManageUsers)
	if err == nil {
		t.Fatal("staff must not manage users")
	}
	denied, ok := err.(*PermissionDeniedError)
	if !ok {
		t.Fatalf("expected *PermissionDeniedError, got %T", err)
	}
	if denied.Role != RoleStaff || denied.Permission != PermissionManageUsers {
		t.Errorf("unexpected error detail: %+v", denied)
	}
}
