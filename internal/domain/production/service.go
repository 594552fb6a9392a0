package production

import (
	"context"
	"fmt"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/domain/ledger"
	"sweetflow/pkg/logger"
)

// Service provides production batch operations.
type Service struct {
	repo Repository
	movs *ledger.Service
	txm  tx.Manager
	clk  clock.Clock
}

// NewService creates a new production service.
func NewService(repo Repository, movs *ledger.Service, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{repo: repo, movs: movs, txm: txm, clk: clk}
}

// Create posts a batch and credits produced stock in the ledger.
func (s *Service) Create(ctx context.Context, b *Batch) error {
	if id.IsNil(b.TenantID) {
		b.TenantID = appctx.GetTenantID(ctx)
	}
	if id.IsNil(b.CreatedBy) {
		b.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := b.Validate(ctx); err != nil {
		return err
	}

	now := s.clk.Now()
	if b.ProductionDate.IsZero() {
		b.ProductionDate = now
	}
	b.ID = id.New()
	b.CreatedAt = now
	b.UpdatedAt = now
	for i := range b.Items {
		b.Items[i].ID = id.New()
		b.Items[i].TenantID = b.TenantID
		b.Items[i].BatchID = b.ID
	}

	err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, b); err != nil {
			return err
		}
		return s.movs.Record(txCtx, s.movements(b))
	})
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}

	logger.Info(ctx, "production batch posted", "id", b.ID, "items", len(b.Items))
	return nil
}

// Update edits a batch's lines and rewrites its ledger movements.
func (s *Service) Update(ctx context.Context, b *Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	b.TenantID = existing.TenantID
	b.CreatedBy = existing.CreatedBy
	b.CreatedAt = existing.CreatedAt
	if b.ProductionDate.IsZero() {
		b.ProductionDate = existing.ProductionDate
	}
	b.UpdatedAt = s.clk.Now()
	for i := range b.Items {
		b.Items[i].ID = id.New()
		b.Items[i].TenantID = b.TenantID
		b.Items[i].BatchID = b.ID
	}

	err = s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.ReplaceItems(txCtx, b); err != nil {
			return err
		}
		return s.movs.Replace(txCtx, ledger.SourceProduction, b.ID, s.movements(b))
	})
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	logger.Info(ctx, "production batch updated", "id", b.ID, "items", len(b.Items))
	return nil
}

// Delete removes a batch and its ledger movements.
func (s *Service) Delete(ctx context.Context, batchID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.movs.Replace(txCtx, ledger.SourceProduction, batchID, nil); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, batchID)
	})
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	logger.Info(ctx, "production batch deleted", "id", batchID)
	return nil
}

// GetByID retrieves a batch with lines.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// List returns batches matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Batch, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) movements(b *Batch) []ledger.Movement {
	batchID := b.ID
	movs := make([]ledger.Movement, 0, len(b.Items))
	for i := range b.Items {
		movs = append(movs, ledger.New(
			b.TenantID,
			b.Items[i].ProductID,
			b.BranchID,
			ledger.TypeIn,
			ledger.SourceProduction,
			&batchID,
			b.Items[i].Quantity,
		))
	}
	return movs
}
