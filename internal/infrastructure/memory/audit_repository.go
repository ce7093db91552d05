package memory

import (
	"context"
	"sync"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// AuditRepository keeps the audit log in memory. Older entries are
// discarded once capacity is reached.
type AuditRepository struct {
	mu       sync.RWMutex
	entries  []domain.AuditEntry
	capacity int
}

// NewAuditRepository keeps at most capacity entries; capacity <= 0 is unbounded.
func NewAuditRepository(capacity int) *AuditRepository {
	return &AuditRepository{capacity: capacity}
}

func (r *AuditRepository) Append(_ context.Context, entry domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if r.capacity > 0 && len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
	return nil
}

func (r *AuditRepository) List(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.AuditEntry, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
