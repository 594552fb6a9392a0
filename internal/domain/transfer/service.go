package transfer

import (
	"context"
	"fmt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/catalogs/product"
	"sweetflow/internal/domain/ledger"
	"sweetflow/pkg/logger"
)

// Service implements the transfer workflow.
type Service struct {
	repo     Repository
	branches branch.Repository
	products product.Repository
	movs     *ledger.Service
	txm      tx.Manager
	clk      clock.Clock
}

// NewService creates a new transfer service.
func NewService(repo Repository, branches branch.Repository, products product.Repository, movs *ledger.Service, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{
		repo:     repo,
		branches: branches,
		products: products,
		movs:     movs,
		txm:      txm,
		clk:      clk,
	}
}

// Create registers a new transfer with PENDING items.
//
// No ledger movement is written here: the in-flight quantity stays
// attributed to the source until each item is accepted or rejected.
func (s *Service) Create(ctx context.Context, t *Transfer) error {
	if id.IsNil(t.TenantID) {
		t.TenantID = appctx.GetTenantID(ctx)
	}
	if id.IsNil(t.CreatedBy) {
		t.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := t.Validate(ctx); err != nil {
		return err
	}

	dest, err := s.branches.GetByID(ctx, t.ToBranchID)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if !dest.IsActive {
		return apperror.NewValidation("destination branch is not active").
			WithDetail("branchId", dest.ID)
	}

	now := s.clk.Now()
	if t.TransferDate.IsZero() {
		t.TransferDate = now
	}
	t.ID = id.New()
	t.Status = StatusPending
	t.CreatedAt = now
	t.UpdatedAt = now

	for i := range t.Items {
		p, err := s.products.GetByID(ctx, t.Items[i].ProductID)
		if err != nil {
			return fmt.Errorf("resolve item product: %w", err)
		}
		t.Items[i].ID = id.New()
		t.Items[i].TenantID = t.TenantID
		t.Items[i].TransferID = t.ID
		t.Items[i].Status = ItemPending
		t.Items[i].UnitValue = p.TransferValue()
	}

	err = s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, t)
	})
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}

	logger.Info(ctx, "transfer created",
		"id", t.ID,
		"to_branch_id", t.ToBranchID,
		"items", len(t.Items),
	)
	return nil
}

// GetByID loads a transfer with items.
func (s *Service) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	return s.repo.GetByID(ctx, transferID)
}

// ListIncoming returns transfers destined for a branch.
func (s *Service) ListIncoming(ctx context.Context, branchID id.ID) ([]*Transfer, error) {
	return s.repo.ListIncoming(ctx, branchID)
}

// AcceptItem moves a PENDING item to ACCEPTED and credits the
// destination branch in the ledger.
func (s *Service) AcceptItem(ctx context.Context, transferID, itemID, branchID id.ID) (*Transfer, error) {
	return s.decideItem(ctx, transferID, itemID, branchID, ItemAccepted)
}

// RejectItem moves a PENDING item to REJECTED and credits the quantity
// back to the source location. The destination is never touched.
func (s *Service) RejectItem(ctx context.Context, transferID, itemID, branchID id.ID) (*Transfer, error) {
	return s.decideItem(ctx, transferID, itemID, branchID, ItemRejected)
}

// AcceptByBarcode resolves a scanned code to a product and accepts the
// unique PENDING item for it in the transfer. Zero or multiple matches
// fail with a conflict instead of guessing.
func (s *Service) AcceptByBarcode(ctx context.Context, transferID id.ID, barcode string, branchID id.ID) (*Transfer, error) {
	p, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("resolve barcode: %w", err)
	}

	items, err := s.repo.ListItems(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var match *Item
	for i := range items {
		if items[i].ProductID != p.ID || items[i].Status != ItemPending {
			continue
		}
		if match != nil {
			return nil, apperror.NewStateConflict("multiple pending items match scanned product").
				WithDetail("productId", p.ID)
		}
		match = &items[i]
	}
	if match == nil {
		return nil, apperror.NewStateConflict("no pending item matches scanned product").
			WithDetail("productId", p.ID)
	}

	return s.decideItem(ctx, transferID, match.ID, branchID, ItemAccepted)
}

// Cancel voids a transfer the sender no longer wants to ship. Allowed
// only while every item is still PENDING; once the destination has
// decided anything, the per-item flow is the only way forward. Each
// item is rejected, so the quantities are credited back to the source.
func (s *Service) Cancel(ctx context.Context, transferID id.ID) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	for i := range t.Items {
		if t.Items[i].Status != ItemPending {
			return nil, apperror.NewStateConflict("transfer already has decided items").
				WithDetail("itemId", t.Items[i].ID)
		}
	}

	userID := appctx.GetUserID(ctx)
	now := s.clk.Now()

	err = s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		for i := range t.Items {
			ok, err := s.repo.DecideItemIfPending(txCtx, t.Items[i].ID, ItemRejected, userID, now)
			if err != nil {
				return fmt.Errorf("cancel item: %w", err)
			}
			if !ok {
				return apperror.NewStateConflict("item was decided during cancel").
					WithDetail("itemId", t.Items[i].ID)
			}
			mov := s.movementFor(t, &t.Items[i], ItemRejected)
			if err := s.movs.Record(txCtx, []ledger.Movement{mov}); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatus(txCtx, transferID, StatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer cancelled", "id", transferID, "items", len(t.Items))
	return s.repo.GetByID(ctx, transferID)
}

func (s *Service) decideItem(ctx context.Context, transferID, itemID, branchID id.ID, to ItemStatus) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t.ToBranchID != branchID {
		return nil, apperror.NewValidation("item does not belong to this branch").
			WithDetail("branchId", branchID)
	}

	item, err := s.repo.GetItem(ctx, transferID, itemID)
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
		// Compare-and-swap on PENDING: the loser of a concurrent race
		// observes zero affected rows and fails without a second credit.
		ok, err := s.repo.DecideItemIfPending(txCtx, itemID, to, userID, now)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if !ok {
			return apperror.NewStateConflict("item already decided").
				WithDetail("itemId", itemID)
		}

		mov := s.movementFor(t, item, to)
		if err := s.movs.Record(txCtx, []ledger.Movement{mov}); err != nil {
			return err
		}

		items, err := s.repo.ListItems(txCtx, transferID)
		if err != nil {
			return fmt.Errorf("reload items: %w", err)
		}
		return s.repo.UpdateStatus(txCtx, transferID, DeriveStatus(items))
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer item decided",
		"transfer_id", transferID,
		"item_id", itemID,
		"status", string(to),
	)
	return s.repo.GetByID(ctx, transferID)
}

// movementFor builds the ledger entry for a terminal decision: accept
// credits the destination, reject credits the source. Both are IN rows
// because creation never debited anything.
func (s *Service) movementFor(t *Transfer, item *Item, to ItemStatus) ledger.Movement {
	transferID := t.ID
	if to == ItemAccepted {
		dest := t.ToBranchID
		return ledger.New(t.TenantID, item.ProductID, &dest, ledger.TypeIn, ledger.SourceTransfer, &transferID, item.Quantity)
	}
	return ledger.New(t.TenantID, item.ProductID, t.FromBranchID, ledger.TypeIn, ledger.SourceTransfer, &transferID, item.Quantity)
}
