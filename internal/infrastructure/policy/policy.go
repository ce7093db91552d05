// Package policy loads the role grant sets and navigation menus.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

//go:embed default.yaml
var defaultPolicy []byte

var ErrInvalidPolicy = errors.New("invalid policy")

type roleDoc struct {
	Capabilities []string `yaml:"capabilities"`
	Menu         []string `yaml:"menu"`
}

type document struct {
	Roles   map[string]roleDoc           `yaml:"roles"`
	Catalog []domain.MenuItem            `yaml:"catalog"`
	Portals map[string][]domain.MenuItem `yaml:"portals"`
}

// Default returns the built-in policy.
func Default() (domain.Policy, error) {
	return Parse(defaultPolicy)
}

// Load reads the policy at path, or the built-in policy when path is empty.
func Load(path string) (domain.Policy, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML policy document. Roles and capabilities must be
// known, catalog keys unique, and every menu key must exist in the catalog.
// Portal menus are optional; their keys are unique per portal.
func Parse(raw []byte) (domain.Policy, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if len(doc.Catalog) == 0 {
		return domain.Policy{}, fmt.Errorf("%w: empty menu catalog", ErrInvalidPolicy)
	}

	keys := make(map[string]struct{}, len(doc.Catalog))
	for _, item := range doc.Catalog {
		if item.Key == "" {
			return domain.Policy{}, fmt.Errorf("%w: catalog item without key", ErrInvalidPolicy)
		}
		if _, dup := keys[item.Key]; dup {
			return domain.Policy{}, fmt.Errorf("%w: duplicate catalog key %q", ErrInvalidPolicy, item.Key)
		}
		keys[item.Key] = struct{}{}
	}

	grants := make(map[domain.Role][]domain.Capability, len(doc.Roles))
	menus := make(map[domain.Role][]string, len(doc.Roles))
	for name, rd := range doc.Roles {
		role := domain.Role(name)
		if !role.Known() {
			return domain.Policy{}, fmt.Errorf("%w: unknown role %q", ErrInvalidPolicy, name)
		}

		caps := make([]domain.Capability, 0, len(rd.Capabilities))
		for _, c := range rd.Capabilities {
			capability := domain.Capability(c)
			if !capability.Known() {
				return domain.Policy{}, fmt.Errorf("%w: role %q: unknown capability %q", ErrInvalidPolicy, name, c)
			}
			caps = append(caps, capability)
		}
		for _, k := range rd.Menu {
			if _, ok := keys[k]; !ok {
				return domain.Policy{}, fmt.Errorf("%w: role %q: menu key %q not in catalog", ErrInvalidPolicy, name, k)
			}
		}

		grants[role] = caps
		menus[role] = append([]string(nil), rd.Menu...)
	}

	portals, err := parsePortals(doc.Portals)
	if err != nil {
		return domain.Policy{}, err
	}

	return domain.Policy{
		Permissions: domain.NewPermissionTable(grants),
		Catalog:     doc.Catalog,
		RoleMenus:   menus,
		PortalMenus: portals,
	}, nil
}

func parsePortals(raw map[string][]domain.MenuItem) (map[domain.Portal][]domain.MenuItem, error) {
	out := make(map[domain.Portal][]domain.MenuItem, len(raw))
	for name, items := range raw {
		portal := domain.Portal(name)
		if !portal.Known() {
			return nil, fmt.Errorf("%w: unknown portal %q", ErrInvalidPolicy, name)
		}
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			if item.Key == "" {
				return nil, fmt.Errorf("%w: portal %q: item without key", ErrInvalidPolicy, name)
			}
			if _, dup := seen[item.Key]; dup {
				return nil, fmt.Errorf("%w: portal %q: duplicate key %q", ErrInvalidPolicy, name, item.Key)
			}
			seen[item.Key] = struct{}{}
		}
		out[portal] = append([]domain.MenuItem(nil), items...)
	}
	return out, nil
}
