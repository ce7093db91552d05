package ports

import (
	"context"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	// List returns entries newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
