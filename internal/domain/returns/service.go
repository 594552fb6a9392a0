package returns

import (
	"context"
	"fmt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/domain/catalogs/product"
	"sweetflow/internal/domain/ledger"
	"sweetflow/pkg/logger"
)

// Service implements the return workflow.
type Service struct {
	repo     Repository
	products product.Repository
	movs     *ledger.Service
	txm      tx.Manager
	clk      clock.Clock
}

// NewService creates a new returns service.
func NewService(repo Repository, products product.Repository, movs *ledger.Service, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{repo: repo, products: products, movs: movs, txm: txm, clk: clk}
}

// Create registers a return with PENDING items. No ledger movement is
// written until an item is accepted.
func (s *Service) Create(ctx context.Context, r *Return) error {
	if id.IsNil(r.TenantID) {
		r.TenantID = appctx.GetTenantID(ctx)
	}
	if id.IsNil(r.CreatedBy) {
		r.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := r.Validate(ctx); err != nil {
		return err
	}

	now := s.clk.Now()
	if r.ReturnDate.IsZero() {
		r.ReturnDate = now
	}
	r.ID = id.New()
	r.Status = StatusPending
	r.CreatedAt = now
	r.UpdatedAt = now

	for i := range r.Items {
		p, err := s.products.GetByID(ctx, r.Items[i].ProductID)
		if err != nil {
			return fmt.Errorf("resolve item product: %w", err)
		}
		r.Items[i].ID = id.New()
		r.Items[i].TenantID = r.TenantID
		r.Items[i].ReturnID = r.ID
		r.Items[i].Status = ItemPending
		r.Items[i].UnitValue = p.TransferValue()
	}

	err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, r)
	})
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}

	logger.Info(ctx, "return created", "id", r.ID, "items", len(r.Items))
	return nil
}

// GetByID retrieves a return with lines.
func (s *Service) GetByID(ctx context.Context, returnID id.ID) (*Return, error) {
	return s.repo.GetByID(ctx, returnID)
}

// List returns return documents matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Return, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

// AcceptItem moves a PENDING line to ACCEPTED and writes the IN
// movement that puts the quantity back on hand.
func (s *Service) AcceptItem(ctx context.Context, returnID, itemID id.ID) (*Return, error) {
	return s.decideItem(ctx, returnID, itemID, ItemAccepted)
}

// RejectItem moves a PENDING line to REJECTED. No movement is written.
func (s *Service) RejectItem(ctx context.Context, returnID, itemID id.ID) (*Return, error) {
	return s.decideItem(ctx, returnID, itemID, ItemRejected)
}

func (s *Service) decideItem(ctx context.Context, returnID, itemID id.ID, to ItemStatus) (*Return, error) {
	r, err := s.repo.GetByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, returnID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status.Terminal() {
		return nil, apperror.NewStateConflict("item already decided").
			WithDetail("itemId", itemID).
			WithDetail("status", string(item.Status))
	}

	userID := appctx.GetUserID(ctx)
	now := s.clk.Now()

	err = s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.repo.DecideItemIfPending(txCtx, itemID, to, userID, now)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if !ok {
			return apperror.NewStateConflict("item already decided").
				WithDetail("itemId", itemID)
		}

		if to == ItemAccepted {
			retID := r.ID
			mov := ledger.New(r.TenantID, item.ProductID, r.BranchID, ledger.TypeIn, ledger.SourceReturn, &retID, item.Quantity)
			if err := s.movs.Record(txCtx, []ledger.Movement{mov}); err != nil {
				return err
			}
		}

		items, err := s.repo.ListItems(txCtx, returnID)
		if err != nil {
			return fmt.Errorf("reload items: %w", err)
		}
		return s.repo.UpdateStatus(txCtx, returnID, DeriveStatus(items))
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return item decided",
		"return_id", returnID,
		"item_id", itemID,
		"status", string(to),
	)
	return s.repo.GetByID(ctx, returnID)
}
