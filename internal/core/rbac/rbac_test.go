package rbac

import (
	"testing"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

func activeUser(role string, perms ...string) *domain.User {
	return &domain.User{
		ID:          "u1",
		Email:       "u1@example.com",
		Role:        role,
		Permissions: perms,
		IsActive:    true,
	}
}

func TestRolePermissions_KnownRoles(t *testing.T) {
	for _, role := range []string{domain.RoleAdmin, domain.RoleClient, domain.RoleDeveloper} {
		if len(RolePermissions(role)) == 0 {
			t.Fatalf("expected default permissions for role %s", role)
		}
	}
}

func TestRolePermissions_UnknownRole(t *testing.T) {
	perms := RolePermissions("superuser")
	if perms == nil {
		t.Fatalf("expected empty set, got nil")
	}
	if len(perms) != 0 {
		t.Fatalf("expected empty set for unknown role, got %v", perms)
	}
}

func TestRolePermissions_ReturnsCopy(t *testing.T) {
	perms := RolePermissions(domain.RoleAdmin)
	perms[0] = "mutated"
	if RolePermissions(domain.RoleAdmin)[0] == "mutated" {
		t.Fatalf("table must not be mutable through the returned slice")
	}
}

func TestHasPermission_RoleDefaults(t *testing.T) {
	u := activeUser(domain.RoleAdmin)
	if !HasPermission(u, PermManageUsers) {
		t.Fatalf("admin should hold %s via role", PermManageUsers)
	}
	if HasPermission(u, PermSubmitWork) {
		t.Fatalf("admin should not hold developer permission %s", PermSubmitWork)
	}
}

func TestHasPermission_ExplicitGrant(t *testing.T) {
	u := activeUser(domain.RoleClient, PermViewReports)
	if !HasPermission(u, PermViewReports) {
		t.Fatalf("explicit grant should be honored")
	}
}

func TestHasPermission_InactiveUser(t *testing.T) {
	u := activeUser(domain.RoleAdmin, PermManageUsers)
	u.IsActive = false

	for _, perm := range []string{PermManageUsers, PermManageProjects, PermViewReports} {
		if HasPermission(u, perm) {
			t.Fatalf("inactive user must hold no permission, held %s", perm)
		}
	}
}

func TestHasPermission_NilUser(t *testing.T) {
	if HasPermission(nil, PermManageUsers) {
		t.Fatalf("nil user must hold no permission")
	}
}

func TestHasRole(t *testing.T) {
	u := activeUser(domain.RoleDeveloper)
	if !HasRole(u, domain.RoleDeveloper) {
		t.Fatalf("exact role match expected")
	}
	if HasRole(u, domain.RoleAdmin) {
		t.Fatalf("developer is not admin")
	}
	if HasRole(nil, domain.RoleAdmin) {
		t.Fatalf("nil user has no role")
	}
}

func TestHasAnyRole(t *testing.T) {
	u := activeUser(domain.RoleClient)
	if !HasAnyRole(u, domain.RoleClient, domain.RoleAdmin) {
		t.Fatalf("client should match [client admin]")
	}
	if HasAnyRole(u, domain.RoleAdmin, domain.RoleDeveloper) {
		t.Fatalf("client should not match [admin developer]")
	}
	if HasAnyRole(nil, domain.RoleAdmin) {
		t.Fatalf("nil user matches nothing")
	}
}

func TestCanAccessRoute_NilUser(t *testing.T) {
	for _, path := range []string{"/admin-dashboard", "/client-dashboard/projects", "/api/developer/summary"} {
		if CanAccessRoute(nil, path) {
			t.Fatalf("nil user must not access %s", path)
		}
	}
}

func TestCanAccessRoute_RoleMatrix(t *testing.T) {
	cases := []struct {
		role string
		path string
		want bool
	}{
		{domain.RoleAdmin, "/admin-dashboard", true},
		{domain.RoleAdmin, "/client-dashboard/projects", true},
		{domain.RoleAdmin, "/developer-dashboard", true},
		{domain.RoleClient, "/client-dashboard", true},
		{domain.RoleClient, "/admin-dashboard/settings", false},
		{domain.RoleClient, "/developer-dashboard", false},
		{domain.RoleDeveloper, "/developer-dashboard/tasks", true},
		{domain.RoleDeveloper, "/admin-dashboard", false},
		{domain.RoleDeveloper, "/api/developer/summary", true},
		{domain.RoleClient, "/api/admin/users", false},
	}
	for _, tc := range cases {
		if got := CanAccessRoute(activeUser(tc.role), tc.path); got != tc.want {
			t.Fatalf("CanAccessRoute(%s, %s) = %v, want %v", tc.role, tc.path, got, tc.want)
		}
	}
}

func TestCanAccessRoute_InactiveUser(t *testing.T) {
	u := activeUser(domain.RoleAdmin)
	u.IsActive = false
	if CanAccessRoute(u, "/admin-dashboard") {
		t.Fatalf("inactive admin must be denied")
	}
}

func TestCanAccessRoute_UnlistedPathOpen(t *testing.T) {
	if !CanAccessRoute(activeUser(domain.RoleClient), "/pricing") {
		t.Fatalf("unlisted path is open for an active user")
	}
}

func TestClassify_ProtectedPrefixes(t *testing.T) {
	p := Classify("/admin-dashboard/settings")
	if p.Public {
		t.Fatalf("admin dashboard sub-path must be protected")
	}
	if len(p.Roles) != 1 || p.Roles[0] != domain.RoleAdmin {
		t.Fatalf("unexpected requirement: %v", p.Roles)
	}
}

func TestClassify_ExactMatch(t *testing.T) {
	if Classify("/client-dashboard").Public {
		t.Fatalf("exact protected path must be protected")
	}
}

func TestClassify_PrefixNeedsSeparator(t *testing.T) {
	// A lookalike path is not under the protected prefix.
	if !Classify("/admin-dashboard-help").Public {
		t.Fatalf("/admin-dashboard-help is not under /admin-dashboard")
	}
}

func TestClassify_UnlistedPublic(t *testing.T) {
	for _, path := range []string{"/", "/about", "/login", "/contact"} {
		if !Classify(path).Public {
			t.Fatalf("expected %s to be public", path)
		}
	}
}

func TestClassify_StaticAssets(t *testing.T) {
	cases := []string{
		"/favicon.ico",
		"/admin-dashboard/app.js",
		"/client-dashboard/styles.css",
		"/assets/logo.PNG",
	}
	for _, path := range cases {
		if !Classify(path).Public {
			t.Fatalf("static asset %s must be public even under a protected prefix", path)
		}
	}
}
