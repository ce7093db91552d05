package domain

// Capability names a permitted action. UI components gate controls on it;
// the backend also uses it to guard admin routes.
type Capability string

const (
	CapManageSystem      Capability = "manage_system"
	CapManageUsers       Capability = "manage_users"
	CapExportData        Capability = "export_data"
	CapViewReports       Capability = "view_reports"
	CapCreateActionPlans Capability = "create_action_plans"
	CapViewOwnReports    Capability = "view_own_reports"
)

// Known reports whether c is one of the defined capability tokens.
func (c Capability) Known() bool {
	switch c {
	case CapManageSystem, CapManageUsers, CapExportData,
		CapViewReports, CapCreateActionPlans, CapViewOwnReports:
		return true
	}
	return false
}

// PermissionTable maps each role to exactly one closed capability set.
// It is built once and never mutated afterwards.
type PermissionTable struct {
	grants map[Role]map[Capability]struct{}
	order  map[Role][]Capability
}

// NewPermissionTable copies grants into an immutable table. Duplicate
// capabilities for a role collapse to one entry.
func NewPermissionTable(grants map[Role][]Capability) PermissionTable {
	t := PermissionTable{
		grants: make(map[Role]map[Capability]struct{}, len(grants)),
		order:  make(map[Role][]Capability, len(grants)),
	}
	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		ordered := make([]Capability, 0, len(caps))
		for _, c := range caps {
			if _, dup := set[c]; dup {
				continue
			}
			set[c] = struct{}{}
			ordered = append(ordered, c)
		}
		t.grants[role] = set
		t.order[role] = ordered
	}
	return t
}

// Grants reports whether role holds capability. Unknown roles and unknown
// capabilities both resolve to false.
func (t PermissionTable) Grants(role Role, capability Capability) bool {
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[capability]
	return ok
}

// Capabilities returns the capabilities of role in declaration order.
func (t PermissionTable) Capabilities(role Role) []Capability {
	caps := t.order[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// HasRole reports whether the table defines a grant set for role.
func (t PermissionTable) HasRole(role Role) bool {
	_, ok := t.grants[role]
	return ok
}
