package trade

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	appstock "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindSaleReturn = "sale_return"

// SaleReturnService takes sold goods back into the lot they were sold from
type SaleReturnService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *appstock.StockLedger
	ledger   *appledger.TransactionLedger
}

// NewSaleReturnService creates a new SaleReturnService
func NewSaleReturnService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *appstock.StockLedger, transactions *appledger.TransactionLedger) *SaleReturnService {
	return &SaleReturnService{runner: runner, numberer: numberer, stock: stockLedger, ledger: transactions}
}

// Create numbers a sale return, restocks the returned quantities and records
// the refund under the return's own number
func (s *SaleReturnService) Create(ctx context.Context, actor shared.Actor, in trade.ReturnInput) (*trade.SaleReturn, error) {
	var result *trade.SaleReturn
	op := appshared.Operation{
		Kind:  kindSaleReturn,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesSaleReturn),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if err := in.Validate("invoice_id"); err != nil {
			return err
		}
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, in.SourceID)
		if err != nil {
			return err
		}
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesSaleReturn)
		if err != nil {
			return err
		}
		sr, err := trade.NewSaleReturn(actor, number, inv, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		if err := s.apply(ctx, repos, actor.TenantID, inv, sr, nil, in.Quantities()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, inv, sr); err != nil {
			return err
		}
		result = sr
		return nil
	})
	return result, err
}

// Update applies the per-line difference between the stored and the
// requested quantities
func (s *SaleReturnService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in trade.ReturnInput) (*trade.SaleReturn, error) {
	var result *trade.SaleReturn
	op := appshared.Operation{Kind: kindSaleReturn, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		sr, err := repos.SaleReturnRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, sr.DocumentNumber)
		if err := sr.Revise(in); err != nil {
			return err
		}
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, sr.InvoiceID)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, repos, actor.TenantID, inv, sr, sr.Quantities(), in.Quantities()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, inv, sr); err != nil {
			return err
		}
		result = sr
		return nil
	})
	return result, err
}

// Delete takes the returned goods back out of their lots and voids the refund
func (s *SaleReturnService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindSaleReturn, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		sr, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.SaleReturnRepo().Delete(ctx, actor.TenantID, sr.ID)
	})
}

// Cancel reverses the return like Delete but keeps it, lines included
func (s *SaleReturnService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.SaleReturn, error) {
	var result *trade.SaleReturn
	op := appshared.Operation{Kind: kindSaleReturn, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		sr, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := sr.Cancel(); err != nil {
			return err
		}
		if err := repos.SaleReturnRepo().Save(ctx, sr); err != nil {
			return err
		}
		result = sr
		return nil
	})
	return result, err
}

func (s *SaleReturnService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*trade.SaleReturn, error) {
	sr, err := repos.SaleReturnRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, sr.DocumentNumber)
	if err := sr.EnsureDeletable(); err != nil {
		return nil, err
	}
	inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, sr.InvoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, repos, actor.TenantID, inv, nil, sr.Quantities(), nil); err != nil {
		return nil, err
	}
	if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, sr.DocumentNumber); err != nil {
		return nil, err
	}
	return sr, nil
}

// apply restocks positive differences and consumes negative ones, in the
// sold line's own lot and native unit. sr is nil when the return keeps
// its lines.
func (s *SaleReturnService) apply(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, inv *trade.Invoice, sr *trade.SaleReturn, before, after map[uuid.UUID]decimal.Decimal) error {
	for _, change := range shared.DiffQuantities(before, after) {
		line, ok := inv.Line(change.Key)
		if !ok {
			return shared.ErrNotFound.WithMessage("invoice line %s not found on %s", change.Key, inv.DocumentNumber)
		}
		delta := change.Delta()
		if err := inv.RecordReturn(line.ID, delta); err != nil {
			return err
		}
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, line.LotID)
		if err != nil {
			return err
		}
		if delta.IsPositive() {
			err = s.stock.Restock(ctx, repos, lot, delta, kindSaleReturn)
		} else {
			err = s.stock.Consume(ctx, repos, lot, delta.Neg(), kindSaleReturn)
		}
		if err != nil {
			return err
		}
		if sr != nil {
			sr.SetLine(*line, change.After)
		}
	}
	return nil
}

func (s *SaleReturnService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, inv *trade.Invoice, sr *trade.SaleReturn) error {
	if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
		return err
	}
	if err := repos.SaleReturnRepo().Save(ctx, sr); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, sr.DocumentNumber, ledger.SaleReturnRefund, sr.RefundAmount)
	return err
}

// Get returns one sale return
func (s *SaleReturnService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.SaleReturn, error) {
	var sr *trade.SaleReturn
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		sr, err = repos.SaleReturnRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return sr, err
}

// List returns a page of sale returns
func (s *SaleReturnService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]trade.SaleReturn, int64, error) {
	var (
		items []trade.SaleReturn
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.SaleReturnRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
