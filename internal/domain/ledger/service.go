package ledger

import (
	"context"
	"fmt"

	"sweetflow/internal/core/id"
	"sweetflow/pkg/logger"
)

// Service provides ledger operations for document services.
// Callers are responsible for wrapping Record/Replace in the same
// transaction as their own writes.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and appends movements.
func (s *Service) Record(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i := range movements {
		if err := movements[i].Validate(ctx); err != nil {
			return fmt.Errorf("movement %d: %w", i, err)
		}
	}

	if err := s.repo.Append(ctx, movements); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}

	logger.Debug(ctx, "recorded movements",
		"count", len(movements),
		"source_type", movements[0].SourceType,
	)
	return nil
}

// Replace drops all movements of a source document and records new
// ones. This is the edit-and-replace flow for production batch edits.
func (s *Service) Replace(ctx context.Context, source SourceType, sourceID id.ID, movements []Movement) error {
	if err := s.repo.DeleteBySource(ctx, source, sourceID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return s.Record(ctx, movements)
}

// ListBySource retrieves movements for a source document.
func (s *Service) ListBySource(ctx context.Context, source SourceType, sourceID id.ID) ([]Movement, error) {
	return s.repo.ListBySource(ctx, source, sourceID)
}
