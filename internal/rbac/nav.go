package rbac

// NavEntry describes one navigation target, gated by exactly one capability.
type NavEntry struct {
	Title      string     `json:"title"`
	Route      string     `json:"route"`
	Icon       string     `json:"icon"`
	Capability Capability `json:"capability"`
}

// DefaultNavEntries is the full navigation set in declaration order.
var DefaultNavEntries = []NavEntry{
	{Title: "Admin Dashboard", Route: "/protected/dashboardAdmin", Icon: "layout-dashboard", Capability: CapDashboardAdmin},
	{Title: "Manager Dashboard", Route: "/protected/dashboardManager", Icon: "layout-dashboard", Capability: CapDashboardManager},
	{Title: "Employee Dashboard", Route: "/protected/dashboardEmployee", Icon: "layout-dashboard", Capability: CapDashboardEmployee},
	{Title: "Users", Route: "/protected/user", Icon: "users", Capability: CapUsers},
	{Title: "Projects", Route: "/protected/project", Icon: "list-check", Capability: CapProjects},
	{Title: "Tasks", Route: "/protected/task", Icon: "list-check", Capability: CapTasks},
	{Title: "Branches", Route: "/protected/branch", Icon: "house", Capability: CapBranch},
	{Title: "Roles", Route: "/protected/role", Icon: "scan-face", Capability: CapRole},
	{Title: "Action Types", Route: "/protected/action", Icon: "list-check", Capability: CapAction},
	{Title: "Documents", Route: "/protected/document", Icon: "book-text", Capability: CapDocument},
	{Title: "Action History", Route: "/protected/action-history", Icon: "notebook-pen", Capability: CapActionHistory},
	{Title: "KPI", Route: "/protected/kpi", Icon: "notebook-pen", Capability: CapKPI},
}

// VisibleEntries filters entries to those whose capability is present in caps,
// preserving declaration order. Absence of a capability is the deny case; no
// entry is included by default.
func VisibleEntries(entries []NavEntry, caps CapabilitySet) []NavEntry {
	visible := make([]NavEntry, 0, len(entries))
	for _, entry := range entries {
		if caps.Has(entry.Capability) {
			visible = append(visible, entry)
		}
	}
	return visible
}
