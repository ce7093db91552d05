package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns the most recent entries first.
func (s *AuditService) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// ExportCSV writes the whole log as ts,actor,action,details rows.
func (s *AuditService) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.repo.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("export audit log: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", "actor", "action", "details"}); err != nil {
		return fmt.Errorf("export audit log: %w", err)
	}
	for _, e := range entries {
		row := []string{e.Timestamp.UTC().Format(time.RFC3339), e.Actor, string(e.Action), e.Details}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export audit log: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
