// Package trade implements the purchasing and sales flows: receiving,
// bills, purchase returns, invoices and sale returns. Each flow moves stock
// through the stock ledger and records its financial effect in the
// transaction ledger within one unit of work.
package trade

import (
	"context"
	"sort"

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

const kindReceipt = "receipt"

// ReceivingService books goods received from vendors
type ReceivingService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *appstock.StockLedger
	ledger   *appledger.TransactionLedger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *appstock.StockLedger, transactions *appledger.TransactionLedger) *ReceivingService {
	return &ReceivingService{runner: runner, numberer: numberer, stock: stockLedger, ledger: transactions}
}

// Create numbers a receipt, merges every line into its lot, raises the
// linked bill and records the payable.
func (s *ReceivingService) Create(ctx context.Context, actor shared.Actor, in trade.ReceiptInput) (*trade.Receipt, error) {
	var result *trade.Receipt
	op := appshared.Operation{
		Kind:  kindReceipt,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesReceipt, ledger.SeriesReceiptBill),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesReceipt)
		if err != nil {
			return err
		}
		r, err := trade.NewReceipt(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		// Receive every line
		for _, i := range lotOrder(r.Lines) {
			line := &r.Lines[i]
			lot, err := s.merge(ctx, repos, actor, r, *line, line.Quantity)
			if err != nil {
				return err
			}
			line.LotID = lot.ID
		}
		if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
			return err
		}

		// Raise the bill
		billNumber, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesReceiptBill)
		if err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, trade.NewReceiptBill(actor, billNumber, r)); err != nil {
			return err
		}

		if _, err := s.ledger.Record(ctx, repos, actor, r.DocumentNumber, ledger.ReceiptPayable, r.GrandTotal); err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

// Update revises an open receipt. Lines staying on their lot merge only the
// quantity difference; lines moving lot are reversed and received again.
// The bill amount and the payable follow the new grand total.
func (s *ReceivingService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in trade.ReceiptInput) (*trade.Receipt, error) {
	var result *trade.Receipt
	op := appshared.Operation{Kind: kindReceipt, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, r.DocumentNumber)

		changes, err := r.Revise(in)
		if err != nil {
			return err
		}
		sort.SliceStable(changes, func(i, j int) bool {
			return changeKey(changes[i]) < changeKey(changes[j])
		})
		for _, c := range changes {
			if err := s.applyChange(ctx, repos, actor, r, c); err != nil {
				return err
			}
		}
		if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
			return err
		}

		bills, err := repos.BillRepo().FindByReceipt(ctx, actor.TenantID, r.ID)
		if err != nil {
			return err
		}
		for i := range bills {
			if err := bills[i].Reprice(r.GrandTotal); err != nil {
				return err
			}
			if err := repos.BillRepo().Save(ctx, &bills[i]); err != nil {
				return err
			}
		}

		if _, err := s.ledger.Record(ctx, repos, actor, r.DocumentNumber, ledger.ReceiptPayable, r.GrandTotal); err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

func (s *ReceivingService) applyChange(ctx context.Context, repos appshared.Repositories, actor shared.Actor, r *trade.Receipt, c trade.ReceiptLineChange) error {
	if c.SameLot() {
		delta := c.After.Quantity.Sub(c.Before.Quantity)
		if delta.IsZero() {
			return nil
		}
		lot, err := s.merge(ctx, repos, actor, r, *c.After, delta)
		if err != nil {
			return err
		}
		c.After.LotID = lot.ID
		return nil
	}
	if c.Before != nil {
		if _, err := s.merge(ctx, repos, actor, r, *c.Before, c.Before.Quantity.Neg()); err != nil {
			return err
		}
	}
	if c.After != nil {
		lot, err := s.merge(ctx, repos, actor, r, *c.After, c.After.Quantity)
		if err != nil {
			return err
		}
		c.After.LotID = lot.ID
	}
	return nil
}

// Delete reverses every line, removes the receipt with its bills and voids
// their ledger entries. Receipts with purchase returns must have the
// returns deleted first.
func (s *ReceivingService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindReceipt, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		r, bills, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		for _, b := range bills {
			if err := repos.BillRepo().Delete(ctx, actor.TenantID, b.ID); err != nil {
				return err
			}
		}
		return repos.ReceiptRepo().Delete(ctx, actor.TenantID, r.ID)
	})
}

// Cancel reverses the receipt like Delete but keeps the receipt and its
// bills as cancelled documents
func (s *ReceivingService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Receipt, error) {
	var result *trade.Receipt
	op := appshared.Operation{Kind: kindReceipt, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		r, bills, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := r.Cancel(); err != nil {
			return err
		}
		for i := range bills {
			if bills[i].Status != shared.DocumentStatusOpen {
				continue
			}
			if err := bills[i].Cancel(); err != nil {
				return err
			}
			if err := repos.BillRepo().Save(ctx, &bills[i]); err != nil {
				return err
			}
		}
		if err := repos.ReceiptRepo().Save(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

func (s *ReceivingService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*trade.Receipt, []trade.Bill, error) {
	r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, id)
	if err != nil {
		return nil, nil, err
	}
	appshared.SetDocumentNumber(ctx, r.DocumentNumber)
	if err := r.EnsureDeletable(); err != nil {
		return nil, nil, err
	}
	returns, err := repos.PurchaseReturnRepo().CountByReceipt(ctx, actor.TenantID, r.ID)
	if err != nil {
		return nil, nil, err
	}
	if returns > 0 {
		return nil, nil, shared.ErrInvalidState.WithMessage(
			"receipt %s has %d purchase returns", r.DocumentNumber, returns)
	}

	for _, i := range lotOrder(r.Lines) {
		line := r.Lines[i]
		if _, err := s.merge(ctx, repos, actor, r, line, line.Quantity.Neg()); err != nil {
			return nil, nil, err
		}
	}

	bills, err := repos.BillRepo().FindByReceipt(ctx, actor.TenantID, r.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, b := range bills {
		if err := s.ledger.Void(ctx, repos, actor, b.DocumentNumber); err != nil {
			return nil, nil, err
		}
	}
	if err := s.ledger.Void(ctx, repos, actor, r.DocumentNumber); err != nil {
		return nil, nil, err
	}
	return r, bills, nil
}

func (s *ReceivingService) merge(ctx context.Context, repos appshared.Repositories, actor shared.Actor, r *trade.Receipt, line trade.ReceiptLine, quantity decimal.Decimal) (*stock.StockLot, error) {
	cost := decimal.Zero
	if quantity.IsPositive() {
		cost = line.UnitPrice
	}
	return s.stock.MergeOrCreate(ctx, repos, appstock.MergeInput{
		Actor:      actor,
		Spec:       line.LotSpec(r.WarehouseID),
		Movement:   stock.Movement{Quantity: quantity, LooseQuantity: decimal.Zero, Branch: stock.BranchLotUnit},
		UnitCost:   cost,
		ReceivedAt: r.DocumentDate,
		Flow:       kindReceipt,
	})
}

// Get returns one receipt
func (s *ReceivingService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Receipt, error) {
	var r *trade.Receipt
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		r, err = repos.ReceiptRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return r, err
}

// List returns a page of receipts
func (s *ReceivingService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]trade.Receipt, int64, error) {
	var (
		items []trade.Receipt
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.ReceiptRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}

// lotOrder returns the indexes of lines sorted by item and identity, the
// order in which their lots are locked
func lotOrder(lines []trade.ReceiptLine) []int {
	idx := make([]int, len(lines))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lineKey(lines[idx[a]]) < lineKey(lines[idx[b]])
	})
	return idx
}

func lineKey(l trade.ReceiptLine) string {
	return l.ItemID.String() + "/" + l.Identity
}

func changeKey(c trade.ReceiptLineChange) string {
	if c.Before != nil {
		return lineKey(*c.Before)
	}
	return lineKey(*c.After)
}
