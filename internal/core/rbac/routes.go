package rbac

import (
	"path"
	"strings"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

// Policy is the access requirement for a path: either public, or a
// non-empty set of roles of which the caller must hold at least one.
type Policy struct {
	Public bool
	Roles  []string
}

// routeEntry protects an exact path and everything beneath it.
type routeEntry struct {
	prefix string
	roles  []string
}

// routeTable is checked top to bottom; the first matching entry wins.
// Entries must not overlap ambiguously.
var routeTable = []routeEntry{
	{prefix: "/admin-dashboard", roles: []string{domain.RoleAdmin}},
	{prefix: "/client-dashboard", roles: []string{domain.RoleClient, domain.RoleAdmin}},
	{prefix: "/developer-dashboard", roles: []string{domain.RoleDeveloper, domain.RoleAdmin}},
	{prefix: "/api/admin", roles: []string{domain.RoleAdmin}},
	{prefix: "/api/client", roles: []string{domain.RoleClient, domain.RoleAdmin}},
	{prefix: "/api/developer", roles: []string{domain.RoleDeveloper, domain.RoleAdmin}},
}

// staticAssetExts are always served without authentication. Checked before
// the route table so an asset under a protected-looking path never
// triggers token extraction.
var staticAssetExts = map[string]struct{}{
	".ico":   {},
	".css":   {},
	".js":    {},
	".map":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".svg":   {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
	".ttf":   {},
	".txt":   {},
}

// Classify resolves the access policy for a request path. Paths matching
// no protected prefix are public: the open-by-default rule holds because
// only matcher-selected prefixes are gated at all.
func Classify(p string) Policy {
	if isStaticAsset(p) {
		return Policy{Public: true}
	}
	for _, e := range routeTable {
		if p == e.prefix || strings.HasPrefix(p, e.prefix+"/") {
			return Policy{Roles: e.roles}
		}
	}
	return Policy{Public: true}
}

func isStaticAsset(p string) bool {
	_, ok := staticAssetExts[strings.ToLower(path.Ext(p))]
	return ok
}
