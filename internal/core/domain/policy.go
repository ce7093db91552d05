package domain

// Policy is the process-wide authorization and navigation configuration.
// It is assembled at startup and treated as read-only afterwards.
type Policy struct {
	Permissions PermissionTable
	Catalog     []MenuItem
	RoleMenus   map[Role][]string
	// PortalMenus holds the sidebar a portal renders for its own sections.
	// Portals without an entry have none.
	PortalMenus map[Portal][]MenuItem
}

// VisibleMenu applies the policy's catalog and role menus to role.
func (p Policy) VisibleMenu(role Role) []MenuItem {
	return VisibleMenu(role, p.Catalog, p.RoleMenus)
}

// PortalMenu returns a copy of the sidebar for portal, never nil.
func (p Policy) PortalMenu(portal Portal) []MenuItem {
	items := p.PortalMenus[portal]
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
