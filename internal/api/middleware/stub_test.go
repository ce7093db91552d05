package middleware

import (
	"context"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

type stubSession struct {
	user   *domain.User
	grants map[domain.Capability]bool
}

func (s *stubSession) Login(context.Context, string, string) (bool, error) { return false, nil }
func (s *stubSession) Logout(context.Context)                                {}
func (s *stubSession) RestoreSession(context.Context)                        {}
func (s *stubSession) IsLoading() bool                                       { return false }

func (s *stubSession) HasPermission(c domain.Capability) bool {
	return s.user != nil && s.grants[c]
}

func (s *stubSession) CurrentUser() *domain.User { return s.user.Clone() }

func (s *stubSession) State() domain.SessionState {
	if s.user != nil {
		return domain.StateAuthenticated
	}
	return domain.StateUnauthenticated
}

type stubManager struct {
	sessions map[string]*stubSession
	opened   []string
}

func (m *stubManager) NewClientID() string { return "new" }

func (m *stubManager) Open(_ context.Context, clientID string) ports.AuthSession {
	m.opened = append(m.opened, clientID)
	if s, ok := m.sessions[clientID]; ok {
		return s
	}
	return &stubSession{}
}

func (m *stubManager) IssueToken(string, *domain.User) (string, error) { return "", nil }
