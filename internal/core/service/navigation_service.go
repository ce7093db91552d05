package service

import (
	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// NavigationService resolves portal, menu and grants from the policy.
type NavigationService struct {
	policy domain.Policy
}

func NewNavigationService(policy domain.Policy) *NavigationService {
	return &NavigationService{policy: policy}
}

// Resolve describes what user sees. A nil user gets the default portal and
// an empty menu.
func (n *NavigationService) Resolve(user *domain.User) ports.Navigation {
	if user == nil {
		return ports.Navigation{
			Portal:      domain.DefaultPortal,
			Menu:        []domain.MenuItem{},
			PortalMenu:  []domain.MenuItem{},
			Permissions: []domain.Capability{},
		}
	}
	portal := domain.SelectPortal(user.Role)
	return ports.Navigation{
		Portal:      portal,
		RoleLabel:   user.Role.Label(),
		Menu:        n.policy.VisibleMenu(user.Role),
		PortalMenu:  n.policy.PortalMenu(portal),
		Permissions: n.policy.Permissions.Capabilities(user.Role),
	}
}
