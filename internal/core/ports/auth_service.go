package ports

import (
	"context"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// AuthSession is the authentication surface of one client context.
type AuthSession interface {
	Login(ctx context.Context, identifier, secret string) (bool, error)
	Logout(ctx context.Context)
	HasPermission(capability domain.Capability) bool
	RestoreSession(ctx context.Context)
	CurrentUser() *domain.User
	IsLoading() bool
	State() domain.SessionState
}

// SessionManager opens client contexts by id.
type SessionManager interface {
	// NewClientID returns a fresh client context id.
	NewClientID() string
	// Open returns the context for clientID with its stored session restored.
	Open(ctx context.Context, clientID string) AuthSession
	// IssueToken signs a session handle for an authenticated context.
	IssueToken(clientID string, user *domain.User) (string, error)
}

// Navigation is the role-scoped view descriptor for a session.
type Navigation struct {
	Portal      domain.Portal
	RoleLabel   string
	Menu        []domain.MenuItem
	// PortalMenu is the sidebar of the selected portal.
	PortalMenu  []domain.MenuItem
	Permissions []domain.Capability
}

// NavigationService resolves what a user sees.
type NavigationService interface {
	Resolve(user *domain.User) Navigation
}
