package domain

// MenuItem is a static navigation entry.
type MenuItem struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon"`
}

// VisibleMenu keeps the catalog items whose key is allowed for role.
// Output order always follows the catalog; a role missing from allowed
// yields an empty, non-nil slice.
func VisibleMenu(role Role, catalog []MenuItem, allowed map[Role][]string) []MenuItem {
	keys, ok := allowed[role]
	if !ok {
		return []MenuItem{}
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	visible := make([]MenuItem, 0, len(keys))
	for _, item := range catalog {
		if _, ok := set[item.Key]; ok {
			visible = append(visible, item)
		}
	}
	return visible
}
