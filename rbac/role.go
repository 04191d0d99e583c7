package rbac

import "fmt"

// Role is the closed set of application roles. Roles are flat and mutually
// exclusive; there is no hierarchy or inheritance.
type Role string

const (
	RoleEventOrganizer Role = "event-organizer"
	RoleIT             Role = "it"
	RoleFinanceManager Role = "finance-manager"
	RoleAdmin          Role = "admin"
	RoleRegistrar      Role = "registrar"
)

// Roles returns all defined roles in a stable order.
func Roles() []Role {
	return []Role{RoleEventOrganizer, RoleIT, RoleFinanceManager, RoleAdmin, RoleRegistrar}
}

// ParseRole validates a raw role string against the closed enum.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEventOrganizer, RoleIT, RoleFinanceManager, RoleAdmin, RoleRegistrar:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Capability is a boolean permission a role either has or lacks.
type Capability string

const (
	CapCreateEvents   Capability = "create_events"
	CapEditEvents     Capability = "edit_events"
	CapEndEvents      Capability = "end_events"
	CapManagePeople   Capability = "manage_people"
	CapManageFinance  Capability = "manage_finance"
	CapViewReports    Capability = "view_reports"
	CapManageUsers    Capability = "manage_users"
	CapMarkAttendance Capability = "mark_attendance"
)

// Capabilities returns all defined capabilities in a stable order.
func Capabilities() []Capability {
	return []Capability{
		CapCreateEvents,
		CapEditEvents,
		CapEndEvents,
		CapManagePeople,
		CapManageFinance,
		CapViewReports,
		CapManageUsers,
		CapMarkAttendance,
	}
}

// grants is the single role -> capability table. Attendance marking is
// granted to both organizers and registrars: organizers toggle attendees from
// the event form, registrars from the attendance screen.
var grants = map[Role]map[Capability]bool{
	RoleEventOrganizer: {
		CapCreateEvents:   true,
		CapEditEvents:     true,
		CapEndEvents:      true,
		CapMarkAttendance: true,
	},
	RoleIT: {
		CapManagePeople: true,
		CapManageUsers:  true,
	},
	RoleFinanceManager: {
		CapManageFinance: true,
	},
	RoleAdmin: {
		CapManagePeople: true,
		CapViewReports:  true,
	},
	RoleRegistrar: {
		CapMarkAttendance: true,
	},
}

// Can reports whether the role holds the capability. Unknown roles hold no
// capabilities, so an unrecognized role value fails closed instead of
// panicking.
func (r Role) Can(c Capability) bool {
	return grants[r][c]
}

// CanAny reports whether the role holds at least one of the capabilities.
func (r Role) CanAny(caps ...Capability) bool {
	for _, c := range caps {
		if r.Can(c) {
			return true
		}
	}
	return false
}

// Capabilities lists the capabilities the role holds, in table order.
func (r Role) Capabilities() []Capability {
	var out []Capability
	for _, c := range Capabilities() {
		if r.Can(c) {
			out = append(out, c)
		}
	}
	return out
}
