package trade

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	appstock "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindPurchaseReturn = "purchase_return"

// PurchaseReturnService sends received goods back to the vendor
type PurchaseReturnService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *appstock.StockLedger
	ledger   *appledger.TransactionLedger
}

// NewPurchaseReturnService creates a new PurchaseReturnService
func NewPurchaseReturnService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *appstock.StockLedger, transactions *appledger.TransactionLedger) *PurchaseReturnService {
	return &PurchaseReturnService{runner: runner, numberer: numberer, stock: stockLedger, ledger: transactions}
}

// Create numbers a return, takes each returned quantity out of the lot the
// receipt line went into and records the refund due from the vendor
func (s *PurchaseReturnService) Create(ctx context.Context, actor shared.Actor, in trade.ReturnInput) (*trade.PurchaseReturn, error) {
	var result *trade.PurchaseReturn
	op := appshared.Operation{
		Kind:  kindPurchaseReturn,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesPurchaseReturn),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if err := in.Validate("receipt_id"); err != nil {
			return err
		}
		r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, in.SourceID)
		if err != nil {
			return err
		}
		if r.Status == shared.DocumentStatusCancelled {
			return shared.ErrInvalidState.WithMessage("receipt %s is cancelled", r.DocumentNumber)
		}
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesPurchaseReturn)
		if err != nil {
			return err
		}
		pr, err := trade.NewPurchaseReturn(actor, number, r, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		if err := s.apply(ctx, repos, actor, r, pr, nil, in.Quantities()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, r, pr); err != nil {
			return err
		}
		result = pr
		return nil
	})
	return result, err
}

// Update applies the per-line difference between the stored and the
// requested return quantities
func (s *PurchaseReturnService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in trade.ReturnInput) (*trade.PurchaseReturn, error) {
	var result *trade.PurchaseReturn
	op := appshared.Operation{Kind: kindPurchaseReturn, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		pr, err := repos.PurchaseReturnRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, pr.DocumentNumber)
		if err := pr.Revise(in); err != nil {
			return err
		}
		r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, pr.ReceiptID)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, repos, actor, r, pr, pr.Quantities(), in.Quantities()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, r, pr); err != nil {
			return err
		}
		result = pr
		return nil
	})
	return result, err
}

// Delete puts the returned goods back and voids the refund
func (s *PurchaseReturnService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindPurchaseReturn, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		pr, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.PurchaseReturnRepo().Delete(ctx, actor.TenantID, pr.ID)
	})
}

// Cancel reverses the return like Delete but keeps it, lines included
func (s *PurchaseReturnService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.PurchaseReturn, error) {
	var result *trade.PurchaseReturn
	op := appshared.Operation{Kind: kindPurchaseReturn, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		pr, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := pr.Cancel(); err != nil {
			return err
		}
		if err := repos.PurchaseReturnRepo().Save(ctx, pr); err != nil {
			return err
		}
		result = pr
		return nil
	})
	return result, err
}

func (s *PurchaseReturnService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*trade.PurchaseReturn, error) {
	pr, err := repos.PurchaseReturnRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, pr.DocumentNumber)
	if err := pr.EnsureDeletable(); err != nil {
		return nil, err
	}
	r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, pr.ReceiptID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, repos, actor, r, nil, pr.Quantities(), nil); err != nil {
		return nil, err
	}
	if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, pr.DocumentNumber); err != nil {
		return nil, err
	}
	return pr, nil
}

// apply moves the stock and receipt bookkeeping from the before to the
// after quantities. pr is nil when the return keeps its lines.
func (s *PurchaseReturnService) apply(ctx context.Context, repos appshared.Repositories, actor shared.Actor, r *trade.Receipt, pr *trade.PurchaseReturn, before, after map[uuid.UUID]decimal.Decimal) error {
	for _, change := range shared.DiffQuantities(before, after) {
		line, ok := r.Line(change.Key)
		if !ok {
			return shared.ErrNotFound.WithMessage("receipt line %s not found on %s", change.Key, r.DocumentNumber)
		}
		delta := change.Delta()
		if err := r.RecordReturn(line.ID, delta); err != nil {
			return err
		}
		_, err := s.stock.MergeOrCreate(ctx, repos, appstock.MergeInput{
			Actor:    actor,
			Spec:     line.LotSpec(r.WarehouseID),
			Movement: stock.Movement{Quantity: delta.Neg(), LooseQuantity: decimal.Zero, Branch: stock.BranchLotUnit},
			UnitCost: decimal.Zero,
			Flow:     kindPurchaseReturn,
		})
		if err != nil {
			return err
		}
		if pr != nil {
			pr.SetLine(*line, change.After)
		}
	}
	return nil
}

func (s *PurchaseReturnService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, r *trade.Receipt, pr *trade.PurchaseReturn) error {
	if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
		return err
	}
	if err := repos.PurchaseReturnRepo().Save(ctx, pr); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, pr.DocumentNumber, ledger.PurchaseRefund, pr.ReturnAmount)
	return err
}

// Get returns one purchase return
func (s *PurchaseReturnService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.PurchaseReturn, error) {
	var pr *trade.PurchaseReturn
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		pr, err = repos.PurchaseReturnRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return pr, err
}

// List returns a page of purchase returns
func (s *PurchaseReturnService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]trade.PurchaseReturn, int64, error) {
	var (
		items []trade.PurchaseReturn
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.PurchaseReturnRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
