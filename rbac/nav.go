package rbac

// NavItem describes one entry of the application menu. Menu visibility and
// endpoint access both resolve through the same role to capability grants,
// so a role never sees a menu entry its capabilities would not admit.
type NavItem struct {
	Label string       `json:"label"`
	Icon  string       `json:"icon"`
	Path  string       `json:"path"`
	Any   []Capability `json:"-"`
}

// menu is the full ordered menu. An item is visible to a role holding any of
// the listed capabilities.
var menu = []NavItem{
	{Label: "Events", Icon: "event", Path: "/events", Any: []Capability{CapCreateEvents}},
	{Label: "Attendance", Icon: "people", Path: "/attendance", Any: []Capability{CapMarkAttendance}},
	{Label: "People", Icon: "people", Path: "/people", Any: []Capability{CapManagePeople}},
	{Label: "User Management", Icon: "person-add", Path: "/user-management", Any: []Capability{CapManageUsers}},
	{Label: "Finance", Icon: "money", Path: "/finance", Any: []Capability{CapManageFinance}},
	{Label: "Finance Report", Icon: "description", Path: "/finance-report", Any: []Capability{CapManageFinance, CapViewReports}},
	{Label: "Reports", Icon: "assessment", Path: "/reports", Any: []Capability{CapViewReports}},
}

// Menu returns a copy of the full menu descriptor in display order.
func Menu() []NavItem {
	out := make([]NavItem, len(menu))
	copy(out, menu)
	return out
}

// VisibleNav filters the menu to the items the role may see, preserving the
// original order. A pure function of (menu, role).
func VisibleNav(role Role) []NavItem {
	var out []NavItem
	for _, item := range menu {
		if role.CanAny(item.Any...) {
			out = append(out, item)
		}
	}
	return out
}
