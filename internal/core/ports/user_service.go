package ports

import (
	"context"
	"io"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// CreateUserInput carries the fields an admin supplies for a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Role     domain.Role
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported []*domain.User
	Skipped  int
}

// UserService holds the admin user-management use cases.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, actor string, input CreateUserInput) (*domain.User, error)
	ToggleStatus(ctx context.Context, actor, id string) (*domain.User, error)
	ImportCSV(ctx context.Context, actor string, r io.Reader) (*ImportResult, error)
}

// AuditService exposes the audit log.
type AuditService interface {
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}
