package domain

// Portal is the top-level view variant mounted for a session.
type Portal string

const (
	PortalAdmin     Portal = "admin"
	PortalFocal     Portal = "focal"
	PortalDashboard Portal = "dashboard"
)

// Known reports whether p is one of the defined portals.
func (p Portal) Known() bool {
	return p == PortalAdmin || p == PortalFocal || p == PortalDashboard
}

// DefaultPortal is used for every role without an explicit entry.
const DefaultPortal = PortalDashboard

var portalByRole = map[Role]Portal{
	RoleAdmin:                 PortalAdmin,
	RoleSubClusterFocalPerson: PortalFocal,
}

// SelectPortal maps any role, including unrecognised values, to exactly one portal.
func SelectPortal(role Role) Portal {
	if p, ok := portalByRole[role]; ok {
		return p
	}
	return DefaultPortal
}
