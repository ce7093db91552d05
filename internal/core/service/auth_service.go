package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
	"github.com/migeprof/stakeholder-mapping/internal/pkg/metrics"
)

// SessionKey is the fixed key of the persisted session record.
const SessionKey = "smt-user"

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithLoginLatency makes every login take at least d before the credential
// check resolves. The wait is not cancellable.
func WithLoginLatency(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.latency = d
		}
	}
}

// WithAuditRecorder sends login and logout activity to r.
func WithAuditRecorder(r ports.AuditRecorder) AuthOption {
	return func(s *AuthService) {
		s.audit = r
	}
}

// AuthService owns the session of a single client context.
type AuthService struct {
	directory ports.UserDirectory
	store     ports.SessionStore
	verifier  ports.SecretVerifier
	perms     domain.PermissionTable
	audit     ports.AuditRecorder
	latency   time.Duration
	validate  *validator.Validate
	log       zerolog.Logger

	loginMu sync.Mutex
	loading atomic.Bool

	mu   sync.RWMutex
	user *domain.User
}

func NewAuthService(
	directory ports.UserDirectory,
	store ports.SessionStore,
	verifier ports.SecretVerifier,
	perms domain.PermissionTable,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		directory: directory,
		store:     store,
		verifier:  verifier,
		perms:     perms,
		validate:  validator.New(),
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates identifier against the user directory. A credential
// mismatch is reported as (false, nil); the error return is reserved for
// directory or store failures. Either way a failed login leaves the current
// session untouched.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (bool, error) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	s.loading.Store(true)
	defer s.loading.Store(false)

	start := time.Now()
	defer func() { metrics.LoginDuration.Observe(time.Since(start).Seconds()) }()

	if s.latency > 0 {
		time.Sleep(s.latency)
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		s.rejected(identifier, "missing credentials")
		return false, nil
	}

	user, err := s.directory.FindByIdentifier(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.rejected(identifier, "unknown identifier")
		return false, nil
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("login: %w", err)
	}

	if !user.Active() {
		s.rejected(identifier, "inactive account")
		return false, nil
	}
	if !s.verifier.Verify(secret) {
		s.rejected(identifier, "secret mismatch")
		return false, nil
	}

	raw, err := encodeSessionRecord(user)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("login: %w", err)
	}
	if err := s.store.Set(ctx, SessionKey, raw); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("login: persist session: %w", err)
	}

	s.mu.Lock()
	s.user = user.Clone()
	s.mu.Unlock()

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.record(user.Username, domain.AuditLogin, user.Email)
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return true, nil
}

func (s *AuthService) rejected(identifier, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
	s.record(identifier, domain.AuditLoginFailed, reason)
	s.log.Info().Str("identifier", identifier).Str("reason", reason).Msg("login rejected")
}

// Logout clears the session and its persisted record. It always succeeds;
// a store failure is only logged.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Remove(ctx, SessionKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted session")
	}

	if prev != nil {
		metrics.LogoutsTotal.Inc()
		s.record(prev.Username, domain.AuditLogout, prev.Email)
		s.log.Info().Str("user_id", prev.ID).Msg("logout")
	}
}

// HasPermission reports whether the session role holds capability.
// With no session it is always false.
func (s *AuthService) HasPermission(capability domain.Capability) bool {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()

	granted := user != nil && s.perms.Grants(user.Role, capability)
	if granted {
		metrics.PermissionChecksTotal.WithLabelValues("granted").Inc()
	} else {
		metrics.PermissionChecksTotal.WithLabelValues("denied").Inc()
	}
	return granted
}

// RestoreSession rehydrates the session from the store. Missing, unreadable
// or malformed records leave the context unauthenticated; nothing is
// returned to the caller.
func (s *AuthService) RestoreSession(ctx context.Context) {
	user := s.loadSession(ctx)

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *AuthService) loadSession(ctx context.Context) *domain.User {
	raw, ok, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("session store unavailable, starting unauthenticated")
		return nil
	}
	if !ok {
		metrics.SessionRestoresTotal.WithLabelValues("absent").Inc()
		return nil
	}

	user, err := decodeSessionRecord(raw, s.validate)
	if err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("malformed").Inc()
		s.log.Debug().Err(err).Msg("discarding malformed session record")
		if rmErr := s.store.Remove(ctx, SessionKey); rmErr != nil {
			s.log.Warn().Err(rmErr).Msg("failed to remove malformed session record")
		}
		return nil
	}

	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	return user
}

// CurrentUser returns a copy of the session user, or nil.
func (s *AuthService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsLoading is true while a login is in flight.
func (s *AuthService) IsLoading() bool {
	return s.loading.Load()
}

func (s *AuthService) State() domain.SessionState {
	if s.loading.Load() {
		return domain.StateAuthenticating
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user != nil {
		return domain.StateAuthenticated
	}
	return domain.StateUnauthenticated
}

func (s *AuthService) record(actor string, action domain.AuditAction, details string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		Details:   details,
	})
}

// sessionRecord is the persisted form of a session user.
type sessionRecord struct {
	ID       string `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

func encodeSessionRecord(u *domain.User) ([]byte, error) {
	raw, err := json.Marshal(sessionRecord{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   string(u.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return raw, nil
}

func decodeSessionRecord(raw []byte, v *validator.Validate) (*domain.User, error) {
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if err := v.Struct(rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &domain.User{
		ID:       rec.ID,
		Username: rec.Username,
		Email:    rec.Email,
		Role:     domain.Role(rec.Role),
		Status:   domain.UserStatus(rec.Status),
	}, nil
}
