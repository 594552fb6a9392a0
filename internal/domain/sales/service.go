package sales

import (
	"context"
	"fmt"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/core/types"
	"sweetflow/pkg/logger"
)

// Service provides sales document operations.
type Service struct {
	repo Repository
	txm  tx.Manager
	clk  clock.Clock
}

// NewService creates a new sales service.
func NewService(repo Repository, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{repo: repo, txm: txm, clk: clk}
}

// Create records a sale. Line amounts and the document total are
// recomputed server-side from quantity and unit price.
func (s *Service) Create(ctx context.Context, sale *Sale) error {
	if id.IsNil(sale.TenantID) {
		sale.TenantID = appctx.GetTenantID(ctx)
	}
	if id.IsNil(sale.CreatedBy) {
		sale.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := sale.Validate(ctx); err != nil {
		return err
	}

	now := s.clk.Now()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.ID = id.New()
	sale.CreatedAt = now

	var total types.MinorUnits
	for i := range sale.Items {
		sale.Items[i].ID = id.New()
		sale.Items[i].TenantID = sale.TenantID
		sale.Items[i].SaleID = sale.ID
		sale.Items[i].Amount = lineAmount(sale.Items[i].Quantity, sale.Items[i].UnitPrice)
		total += sale.Items[i].Amount
	}
	sale.TotalAmount = total

	err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, sale)
	})
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	logger.Info(ctx, "sale recorded",
		"id", sale.ID,
		"branch_id", sale.BranchID,
		"total", sale.TotalAmount,
	)
	return nil
}

// GetByID retrieves a sale with lines.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// List returns sales matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

// Delete removes a sale document.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, saleID)
	})
}

// lineAmount multiplies a fixed-point quantity by a unit price with
// round-half-up on the dropped scale.
func lineAmount(qty types.Quantity, price types.MinorUnits) types.MinorUnits {
	raw := qty.Int64Scaled() * int64(price)
	half := types.QuantityScale / 2
	if raw >= 0 {
		return types.MinorUnits((raw + half) / types.QuantityScale)
	}
	return types.MinorUnits((raw - half) / types.QuantityScale)
}
