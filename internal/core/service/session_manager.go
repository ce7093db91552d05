package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// SessionManager builds one AuthService per client context. Contexts share
// the directory, verifier and permission table; each sees the session store
// through its own key prefix.
type SessionManager struct {
	directory ports.UserDirectory
	store     ports.SessionStore
	verifier  ports.SecretVerifier
	perms     domain.PermissionTable
	jwtSecret string
	tokenTTL  time.Duration
	opts      []AuthOption
	log       zerolog.Logger
}

func NewSessionManager(
	directory ports.UserDirectory,
	store ports.SessionStore,
	verifier ports.SecretVerifier,
	perms domain.PermissionTable,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
	opts ...AuthOption,
) *SessionManager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionManager{
		directory: directory,
		store:     store,
		verifier:  verifier,
		perms:     perms,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		opts:      opts,
		log:       log,
	}
}

func (m *SessionManager) NewClientID() string {
	return uuid.NewString()
}

// Open returns the client context for clientID after running RestoreSession.
func (m *SessionManager) Open(ctx context.Context, clientID string) ports.AuthSession {
	svc := NewAuthService(
		m.directory,
		scopedStore{inner: m.store, prefix: "session:" + clientID + ":"},
		m.verifier,
		m.perms,
		m.log.With().Str("client_id", clientID).Logger(),
		m.opts...,
	)
	svc.RestoreSession(ctx)
	return svc
}

// IssueToken signs a handle binding the client context to the logged-in user.
// The token carries no authority of its own: every request re-reads the
// persisted session, so logout revokes it.
func (m *SessionManager) IssueToken(clientID string, user *domain.User) (string, error) {
	if clientID == "" || user == nil {
		return "", errors.New("issue token: missing client id or user")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sid":      clientID,
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(m.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.jwtSecret))
}

type scopedStore struct {
	inner  ports.SessionStore
	prefix string
}

func (s scopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s scopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s scopedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
