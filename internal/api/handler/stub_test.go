package handler

import (
	"context"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/api/middleware"
	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

type stubSession struct {
	user       *domain.User
	grants     map[domain.Capability]bool
	loginFn    func(ctx context.Context, identifier, secret string) (bool, error)
	loggedOut  bool
	loginCalls int
}

func (s *stubSession) Login(ctx context.Context, identifier, secret string) (bool, error) {
	s.loginCalls++
	return s.loginFn(ctx, identifier, secret)
}

func (s *stubSession) Logout(context.Context) {
	s.loggedOut = true
	s.user = nil
}

func (s *stubSession) HasPermission(c domain.Capability) bool {
	return s.user != nil && s.grants[c]
}

func (s *stubSession) RestoreSession(context.Context) {}
func (s *stubSession) CurrentUser() *domain.User      { return s.user.Clone() }
func (s *stubSession) IsLoading() bool                { return false }

func (s *stubSession) State() domain.SessionState {
	if s.user != nil {
		return domain.StateAuthenticated
	}
	return domain.StateUnauthenticated
}

type stubManager struct {
	session  *stubSession
	tokenErr error
	issued   []string
}

func (m *stubManager) NewClientID() string { return "sid-test" }

func (m *stubManager) Open(context.Context, string) ports.AuthSession { return m.session }

func (m *stubManager) IssueToken(clientID string, user *domain.User) (string, error) {
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	m.issued = append(m.issued, clientID)
	return "token-" + clientID + "-" + user.ID, nil
}

type stubNavigation struct{}

func (stubNavigation) Resolve(user *domain.User) ports.Navigation {
	if user == nil {
		return ports.Navigation{Portal: domain.DefaultPortal, Menu: []domain.MenuItem{}, PortalMenu: []domain.MenuItem{}, Permissions: []domain.Capability{}}
	}
	return ports.Navigation{
		Portal:      domain.SelectPortal(user.Role),
		RoleLabel:   user.Role.Label(),
		Menu:        []domain.MenuItem{{Key: "dashboard", Label: "Dashboard"}},
		PortalMenu:  []domain.MenuItem{{Key: "plans", Label: "Review Plans"}},
		Permissions: []domain.Capability{domain.CapExportData},
	}
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	createFn func(ctx context.Context, actor string, in ports.CreateUserInput) (*domain.User, error)
	toggleFn func(ctx context.Context, actor, id string) (*domain.User, error)
	importFn func(ctx context.Context, actor string, r io.Reader) (*ports.ImportResult, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) CreateUser(ctx context.Context, actor string, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) ToggleStatus(ctx context.Context, actor, id string) (*domain.User, error) {
	return s.toggleFn(ctx, actor, id)
}

func (s *stubUserService) ImportCSV(ctx context.Context, actor string, r io.Reader) (*ports.ImportResult, error) {
	return s.importFn(ctx, actor, r)
}

type stubAuditService struct {
	entries   []domain.AuditEntry
	err       error
	lastLimit int
}

func (s *stubAuditService) List(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	s.lastLimit = limit
	return s.entries, s.err
}

func (s *stubAuditService) ExportCSV(_ context.Context, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "ts,actor,action,details\n")
	return err
}

var errBackend = errors.New("backend down")

func focalUser() *domain.User {
	return &domain.User{ID: "3", Username: "focal1", Email: "focal@migeprof.gov.rw", Role: domain.RoleSubClusterFocalPerson, Status: domain.StatusActive}
}

// authenticate mimics what the Auth middleware leaves on the context.
func authenticate(c echo.Context, s *stubSession) {
	c.Set(middleware.KeySession, s)
	if s.user != nil {
		c.Set(middleware.KeyUsername, s.user.Username)
		c.Set(middleware.KeyRole, string(s.user.Role))
	}
}
