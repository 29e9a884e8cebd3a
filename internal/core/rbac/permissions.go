// Package rbac holds the static role/permission vocabulary, the route
// policy, and the pure evaluation functions that decide who may reach
// what. Nothing here touches I/O; the tables are fixed at compile time.
package rbac

import "github.com/talentbridge/platform-api/internal/core/domain"

// Permission tags used across the platform.
const (
	PermManageUsers     = "manage_users"
	PermManageProjects  = "manage_projects"
	PermViewReports     = "view_reports"
	PermCreateProject   = "create_project"
	PermViewOwnProjects = "view_own_projects"
	PermSubmitWork      = "submit_work"
	PermViewAssignments = "view_assignments"
)

// rolePermissions maps each role to its default permission set. A user's
// effective permissions are this set plus any explicit grants on the
// user record.
var rolePermissions = map[string][]string{
	domain.RoleAdmin: {
		PermManageUsers,
		PermManageProjects,
		PermViewReports,
	},
	domain.RoleClient: {
		PermCreateProject,
		PermViewOwnProjects,
	},
	domain.RoleDeveloper: {
		PermSubmitWork,
		PermViewAssignments,
	},
}

// RolePermissions returns the default permissions for a role. An unknown
// role yields an empty set, never an error: deny-by-default.
func RolePermissions(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
