package trade

import (
	"context"
	"sort"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	appstock "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindInvoice = "invoice"

// SaleService books invoices. Every line is served from a single lot,
// the earliest-expiring one that can supply it.
type SaleService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *appstock.StockLedger
	ledger   *appledger.TransactionLedger
}

// NewSaleService creates a new SaleService
func NewSaleService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *appstock.StockLedger, transactions *appledger.TransactionLedger) *SaleService {
	return &SaleService{runner: runner, numberer: numberer, stock: stockLedger, ledger: transactions}
}

// Create numbers an invoice, consumes a lot for each line and records the
// collected amount as sales income
func (s *SaleService) Create(ctx context.Context, actor shared.Actor, in trade.InvoiceInput) (*trade.Invoice, error) {
	var result *trade.Invoice
	op := appshared.Operation{
		Kind:  kindInvoice,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesInvoice),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesInvoice)
		if err != nil {
			return err
		}
		inv, err := trade.NewInvoice(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		if err := s.consume(ctx, repos, actor, inv, in.Lines); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	return result, err
}

// Update puts every sold quantity back and sells the new lines afresh.
// Invoices with returns cannot be revised.
func (s *SaleService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in trade.InvoiceInput) (*trade.Invoice, error) {
	var result *trade.Invoice
	op := appshared.Operation{Kind: kindInvoice, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, inv.DocumentNumber)

		sold := append([]trade.InvoiceLine(nil), inv.Lines...)
		if err := inv.Reset(in); err != nil {
			return err
		}
		if err := s.restock(ctx, repos, actor.TenantID, sold); err != nil {
			return err
		}
		if err := s.consume(ctx, repos, actor, inv, in.Lines); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	return result, err
}

// RecordPayment adds a collected amount to an invoice and re-records its income
func (s *SaleService) RecordPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, amount decimal.Decimal) (*trade.Invoice, error) {
	var result *trade.Invoice
	op := appshared.Operation{Kind: kindInvoice, Name: "payment", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, inv.DocumentNumber)
		if err := inv.ReceivePayment(amount); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		if _, err := s.ledger.Record(ctx, repos, actor, inv.DocumentNumber, ledger.SaleIncome, inv.PaidAmount); err != nil {
			return err
		}
		result = inv
		return nil
	})
	return result, err
}

// Delete restocks every line, voids the income and removes the invoice
func (s *SaleService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindInvoice, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		inv, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.InvoiceRepo().Delete(ctx, actor.TenantID, inv.ID)
	})
}

// Cancel restocks every line and voids the income, keeping the invoice
func (s *SaleService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Invoice, error) {
	var result *trade.Invoice
	op := appshared.Operation{Kind: kindInvoice, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		inv, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := inv.Cancel(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	return result, err
}

func (s *SaleService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*trade.Invoice, error) {
	inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, inv.DocumentNumber)
	if err := inv.EnsureDeletable(); err != nil {
		return nil, err
	}
	returns, err := repos.SaleReturnRepo().CountByInvoice(ctx, actor.TenantID, inv.ID)
	if err != nil {
		return nil, err
	}
	if returns > 0 {
		return nil, shared.ErrInvalidState.WithMessage(
			"invoice %s has %d sale returns", inv.DocumentNumber, returns)
	}
	if err := s.restock(ctx, repos, actor.TenantID, inv.Lines); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, inv.DocumentNumber); err != nil {
		return nil, err
	}
	return inv, nil
}

// consume selects and decrements a lot for every requested line, in item
// order so that concurrent invoices lock lots in the same order
func (s *SaleService) consume(ctx context.Context, repos appshared.Repositories, actor shared.Actor, inv *trade.Invoice, lines []trade.InvoiceLineInput) error {
	ordered := append([]trade.InvoiceLineInput(nil), lines...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ItemID.String() < ordered[j].ItemID.String()
	})
	for _, l := range ordered {
		lot, err := s.stock.SelectForSale(ctx, repos, actor.TenantID, inv.WarehouseID, l.ItemID, l.UnitID, l.Quantity, inv.DocumentDate)
		if err != nil {
			return err
		}
		if err := s.stock.Consume(ctx, repos, lot, l.Quantity, kindInvoice); err != nil {
			return err
		}
		inv.AddLine(l, lot.ID)
	}
	return inv.Finalize()
}

func (s *SaleService) restock(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, lines []trade.InvoiceLine) error {
	ordered := append([]trade.InvoiceLine(nil), lines...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LotID.String() < ordered[j].LotID.String()
	})
	for _, l := range ordered {
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, l.LotID)
		if err != nil {
			return err
		}
		if err := s.stock.Restock(ctx, repos, lot, l.Quantity, kindInvoice); err != nil {
			return err
		}
	}
	return nil
}

func (s *SaleService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, inv *trade.Invoice) error {
	if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, inv.DocumentNumber, ledger.SaleIncome, inv.PaidAmount)
	return err
}

// Get returns one invoice
func (s *SaleService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Invoice, error) {
	var inv *trade.Invoice
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return inv, err
}

// List returns a page of invoices
func (s *SaleService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]trade.Invoice, int64, error) {
	var (
		items []trade.Invoice
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.InvoiceRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
