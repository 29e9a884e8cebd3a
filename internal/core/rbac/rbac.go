package rbac

import "github.com/talentbridge/platform-api/internal/core/domain"

// HasPermission reports whether the user holds the permission, either
// through their role's defaults or an explicit grant. A nil or inactive
// user holds nothing. Effective permissions are computed per call, never
// cached beyond it.
func HasPermission(user *domain.User, permission string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	for _, p := range user.Permissions {
		if p == permission {
			return true
		}
	}
	for _, p := range rolePermissions[user.Role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasRole reports an exact role match. Nil-safe.
func HasRole(user *domain.User, role string) bool {
	return user != nil && user.Role == role
}

// HasAnyRole reports whether the user's role is one of roles. Nil-safe.
func HasAnyRole(user *domain.User, roles ...string) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// CanAccessRoute decides whether the user may enter the path. A nil or
// inactive user is denied outright; a path with no configured requirement
// is open. The gate bypasses public paths before ever calling this, so
// the open default only applies to paths the gate never intercepts.
func CanAccessRoute(user *domain.User, path string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	policy := Classify(path)
	if policy.Public {
		return true
	}
	return HasAnyRole(user, policy.Roles...)
}
