package warehouse

import (
	"context"
	"fmt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/ledger"
	"sweetflow/pkg/logger"
)

// Service resolves stock queries and records manual adjustments.
type Service struct {
	repo     Repository
	branches branch.Repository
	movs     *ledger.Service
	txm      tx.Manager
}

// NewService creates a new warehouse service.
func NewService(repo Repository, branches branch.Repository, movs *ledger.Service, txm tx.Manager) *Service {
	return &Service{repo: repo, branches: branches, movs: movs, txm: txm}
}

// CurrentStock returns the derived stock for the selected location(s).
//
// A branch selector is resolved against the catalog first: branches
// pooled to central (outlets, or use_central_stock) read the central
// pool, and a branch id that matches nothing yields an empty result
// rather than an error.
func (s *Service) CurrentStock(ctx context.Context, sel Selector) ([]StockRow, error) {
	filter, err := s.resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	if filter.Kind == FilterNone {
		return []StockRow{}, nil
	}

	rows, err := s.repo.CurrentStock(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("current stock: %w", err)
	}
	return rows, nil
}

func (s *Service) resolve(ctx context.Context, sel Selector) (LogicalFilter, error) {
	switch sel.Kind {
	case SelectAll:
		return LogicalFilter{Kind: FilterAll}, nil
	case SelectCentral:
		return LogicalFilter{Kind: FilterCentralOnly}, nil
	case SelectBranch:
		b, err := s.branches.GetByID(ctx, sel.BranchID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return LogicalFilter{Kind: FilterNone}, nil
			}
			return LogicalFilter{}, fmt.Errorf("resolve branch: %w", err)
		}
		if b.PoolsToCentral() {
			return LogicalFilter{Kind: FilterCentralOnly}, nil
		}
		return LogicalFilter{Kind: FilterBranchOnly, BranchID: b.ID}, nil
	default:
		return LogicalFilter{}, apperror.NewValidation("invalid stock selector")
	}
}

// AdjustInput is a manual stock correction. Quantity is signed: positive
// adds stock, negative removes it.
type AdjustInput struct {
	ProductID id.ID          `json:"productId"`
	BranchID  *id.ID         `json:"branchId,omitempty"` // nil = central
	Quantity  types.Quantity `json:"quantity"`
	Reason    string         `json:"reason"`
}

// Adjust records a manual correction as a ledger movement.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) error {
	if in.Quantity.IsZero() {
		return apperror.NewValidation("adjustment quantity must be non-zero").
			WithDetail("field", "quantity")
	}
	if in.BranchID != nil {
		if _, err := s.branches.GetByID(ctx, *in.BranchID); err != nil {
			return fmt.Errorf("adjust: %w", err)
		}
	}

	mType := ledger.TypeIn
	qty := in.Quantity
	if qty.IsNegative() {
		mType = ledger.TypeOut
		qty = qty.Neg()
	}

	tenantID := appctx.GetTenantID(ctx)
	adjustmentID := id.New()
	mov := ledger.New(tenantID, in.ProductID, in.BranchID, mType, ledger.SourceAdjustment, &adjustmentID, qty)

	err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.movs.Record(txCtx, []ledger.Movement{mov})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock adjusted",
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"reason", in.Reason,
	)
	return nil
}
