package ports

import (
	"context"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// UserDirectory is the collection of accounts that may log in.
type UserDirectory interface {
	// FindByIdentifier matches the identifier against email, then username.
	// Returns domain.ErrUserNotFound when nothing matches.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create stores a new user. Returns domain.ErrUserExists on an email or
	// username collision.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// ToggleStatus flips the user between active and inactive in a single
	// step and returns the updated record.
	ToggleStatus(ctx context.Context, id string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SecretVerifier checks a login secret against the directory's
// verification value.
type SecretVerifier interface {
	Verify(secret string) bool
}
