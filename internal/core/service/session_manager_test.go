package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

func newManager(t *testing.T, store *stubStore) *SessionManager {
	t.Helper()
	return NewSessionManager(newStubDirectory(), store, testVerifier(t), testPermissions(), "secret", time.Hour, zerolog.Nop())
}

func TestSessionManager_ContextsAreIsolated(t *testing.T) {
	store := newStubStore()
	m := newManager(t, store)

	a, b := m.NewClientID(), m.NewClientID()
	if a == b || a == "" {
		t.Fatalf("expected distinct client ids, got %q and %q", a, b)
	}

	sa := m.Open(context.Background(), a)
	if ok, _ := sa.Login(context.Background(), "admin@migeprof.gov.rw", "password"); !ok {
		t.Fatalf("login failed")
	}

	if got := m.Open(context.Background(), b).State(); got != domain.StateUnauthenticated {
		t.Fatalf("expected other context unauthenticated, got %s", got)
	}
	if got := m.Open(context.Background(), a).CurrentUser(); got == nil || got.ID != "1" {
		t.Fatalf("expected reopened context to restore admin, got %+v", got)
	}
	if !store.has("session:" + a + ":" + SessionKey) {
		t.Fatalf("expected record under the scoped key")
	}
}

func TestSessionManager_LogoutRevokesContext(t *testing.T) {
	m := newManager(t, newStubStore())
	id := m.NewClientID()

	s := m.Open(context.Background(), id)
	if ok, _ := s.Login(context.Background(), "focal@migeprof.gov.rw", "password"); !ok {
		t.Fatalf("login failed")
	}
	m.Open(context.Background(), id).Logout(context.Background())

	if got := m.Open(context.Background(), id).State(); got != domain.StateUnauthenticated {
		t.Fatalf("expected logged out context, got %s", got)
	}
}

func TestSessionManager_IssueToken(t *testing.T) {
	m := newManager(t, newStubStore())
	user := &domain.User{ID: "3", Username: "focal1", Role: domain.RoleSubClusterFocalPerson}

	token, err := m.IssueToken("client-1", user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sid"] != "client-1" || claims["sub"] != "3" || claims["role"] != "subClusterFocalPerson" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := m.IssueToken("", user); err == nil {
		t.Fatalf("expected error for empty client id")
	}
}
