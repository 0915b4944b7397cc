// Package rbac provides the role→capability catalog driving both the operator
// console navigation and server-side route authorization.
package rbac

import "strings"

// Capability is an opaque permission token gating one navigation entry or feature.
type Capability string

// Capabilities granted across the application.
const (
	CapDashboardAdmin    Capability = "dashboardadmin"
	CapDashboardManager  Capability = "dashboardmanager"
	CapDashboardEmployee Capability = "dashboardemployee"
	CapUsers             Capability = "users"
	CapBranch            Capability = "branch"
	CapRole              Capability = "role"
	CapAction            Capability = "action"
	CapDocument          Capability = "document"
	CapActionHistory     Capability = "action-history"
	CapProjects          Capability = "projects"
	CapTasks             Capability = "tasks"
	CapKPI               Capability = "kpi"
)

// CapabilitySet is a deduplicated set of capability tokens.
type CapabilitySet map[Capability]struct{}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Catalog maps a lower-cased role name to the capabilities that role grants.
// Unknown roles grant nothing.
type Catalog map[string][]Capability

// DefaultCatalog is the static role→capability table. It is defined once at
// process start and never mutated.
var DefaultCatalog = Catalog{
	"admin": {
		CapDashboardAdmin,
		CapDashboardManager,
		CapDashboardEmployee,
		CapUsers,
		CapBranch,
		CapRole,
		CapAction,
		CapDocument,
		CapActionHistory,
		CapProjects,
		CapTasks,
		CapKPI,
	},
	"manager": {
		CapDashboardManager,
		CapUsers,
		CapDocument,
		CapProjects,
		CapTasks,
	},
	"employee": {
		CapDashboardEmployee,
		CapProjects,
		CapTasks,
	},
}

// EffectiveCapabilities returns the union of the capability sets granted by
// each role. Role names are matched case-insensitively; unmapped roles
// contribute nothing.
func (c Catalog) EffectiveCapabilities(roles []string) CapabilitySet {
	caps := make(CapabilitySet)
	for _, role := range roles {
		for _, granted := range c[strings.ToLower(strings.TrimSpace(role))] {
			caps[granted] = struct{}{}
		}
	}
	return caps
}

// NormalizeRoles converts a scalar or slice role claim into a string slice.
// JWT role claims arrive as []any; older tokens carried a single string.
func NormalizeRoles(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
		return roles
	default:
		return nil
	}
}
