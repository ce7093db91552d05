package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
	"github.com/migeprof/stakeholder-mapping/internal/pkg/metrics"
)

type UserService struct {
	directory ports.UserDirectory
	audit     ports.AuditRecorder
	logger    zerolog.Logger
}

func NewUserService(directory ports.UserDirectory, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{directory: directory, audit: audit, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser adds an active account. An empty role defaults to stakeholder;
// unknown roles are rejected.
func (s *UserService) CreateUser(ctx context.Context, actor string, input ports.CreateUserInput) (*domain.User, error) {
	user, err := newUser(input.Username, input.Email, input.Role)
	if err != nil {
		return nil, err
	}

	created, err := s.directory.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(actor, domain.AuditCreateUser, created.Email)
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("actor", actor).Msg("user created")
	return created, nil
}

// ToggleStatus flips a user between active and inactive.
func (s *UserService) ToggleStatus(ctx context.Context, actor, id string) (*domain.User, error) {
	updated, err := s.directory.ToggleStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle status: %w", err)
	}

	s.record(actor, domain.AuditToggleStatus, fmt.Sprintf("%s -> %s", updated.Email, updated.Status))
	return updated, nil
}

// ImportCSV reads username,email,role rows after a header line. Rows without
// a username or email, and rows colliding with existing accounts, are
// skipped. Unknown roles import as stakeholder.
func (s *UserService) ImportCSV(ctx context.Context, actor string, r io.Reader) (*ports.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ports.ImportResult{Imported: []*domain.User{}}
	header := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("import users: %w: %v", domain.ErrInvalidUser, err)
		}
		if header {
			header = false
			continue
		}

		username, email, role := column(row, 0), column(row, 1), column(row, 2)
		if username == "" || email == "" {
			result.Skipped++
			metrics.UsersImportTotal.WithLabelValues("skipped").Inc()
			continue
		}

		user, err := newUser(username, email, domain.ParseImportRole(role))
		if err != nil {
			result.Skipped++
			metrics.UsersImportTotal.WithLabelValues("skipped").Inc()
			continue
		}
		created, err := s.directory.Create(ctx, user)
		if errors.Is(err, domain.ErrUserExists) {
			result.Skipped++
			metrics.UsersImportTotal.WithLabelValues("skipped").Inc()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import users: %w", err)
		}

		result.Imported = append(result.Imported, created)
		metrics.UsersImportTotal.WithLabelValues("imported").Inc()
	}

	if n := len(result.Imported); n > 0 {
		s.record(actor, domain.AuditImportUsers, fmt.Sprintf("%d users", n))
	}
	s.logger.Info().Int("imported", len(result.Imported)).Int("skipped", result.Skipped).Str("actor", actor).Msg("users imported")
	return result, nil
}

func (s *UserService) record(actor string, action domain.AuditAction, details string) {
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

func newUser(username, email string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrInvalidUser)
	}
	if role == "" {
		role = domain.RoleStakeholder
	}
	if !role.Known() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUser, role)
	}
	return &domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Role:     role,
		Status:   domain.StatusActive,
	}, nil
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
