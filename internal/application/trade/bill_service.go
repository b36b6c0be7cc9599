package trade

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const kindBill = "bill"

// BillService pays vendor bills. The ledger holds the absolute paid amount
// of each bill under the bill number.
type BillService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	ledger   *appledger.TransactionLedger
}

// NewBillService creates a new BillService
func NewBillService(runner *appshared.Runner, numberer *appledger.Numberer, transactions *appledger.TransactionLedger) *BillService {
	return &BillService{runner: runner, numberer: numberer, ledger: transactions}
}

// CreateStandalone raises a bill that is not tied to a receipt
func (s *BillService) CreateStandalone(ctx context.Context, actor shared.Actor, in trade.StandaloneBillInput) (*trade.Bill, error) {
	var result *trade.Bill
	op := appshared.Operation{
		Kind:  kindBill,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesBill),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesBill)
		if err != nil {
			return err
		}
		b, err := trade.NewStandaloneBill(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)
		if err := repos.BillRepo().Save(ctx, b); err != nil {
			return err
		}
		if err := s.record(ctx, repos, actor, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	return result, err
}

// Update revises the amounts of a standalone bill
func (s *BillService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in trade.StandaloneBillInput) (*trade.Bill, error) {
	var result *trade.Bill
	op := appshared.Operation{Kind: kindBill, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		b, err := repos.BillRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, b.DocumentNumber)
		if err := b.Revise(in); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, b); err != nil {
			return err
		}
		if err := s.record(ctx, repos, actor, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	return result, err
}

// Pay adds a payment to a bill. A bill paid in full is closed, together
// with its receipt.
func (s *BillService) Pay(ctx context.Context, actor shared.Actor, id uuid.UUID, amount decimal.Decimal) (*trade.Bill, error) {
	var result *trade.Bill
	op := appshared.Operation{Kind: kindBill, Name: "pay", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		b, err := repos.BillRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, b.DocumentNumber)
		if err := b.EnsureEditable(); err != nil {
			return err
		}
		if err := b.Pay(amount); err != nil {
			return err
		}
		if b.PaymentStatus == trade.BillFull {
			if err := s.settle(ctx, repos, actor, b); err != nil {
				return err
			}
		}
		if err := repos.BillRepo().Save(ctx, b); err != nil {
			return err
		}
		if err := s.record(ctx, repos, actor, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	return result, err
}

// settle closes a fully paid bill and the receipt it belongs to
func (s *BillService) settle(ctx context.Context, repos appshared.Repositories, actor shared.Actor, b *trade.Bill) error {
	if err := b.Close(); err != nil {
		return err
	}
	if b.ReceiptID == nil {
		return nil
	}
	r, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, actor.TenantID, *b.ReceiptID)
	if err != nil {
		return err
	}
	if r.Status != shared.DocumentStatusOpen {
		return nil
	}
	if err := r.Close(); err != nil {
		return err
	}
	logger.L(ctx).Info("Receipt settled",
		zap.String("receipt_number", r.DocumentNumber),
		zap.String("bill_number", b.DocumentNumber))
	return repos.ReceiptRepo().Save(ctx, r)
}

// Delete removes a standalone bill and voids its payments
func (s *BillService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindBill, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		b, err := repos.BillRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, b.DocumentNumber)
		if b.ReceiptID != nil {
			return shared.ErrInvalidState.WithMessage("bill %s is removed with its receipt", b.DocumentNumber)
		}
		if err := b.EnsureDeletable(); err != nil {
			return err
		}
		if err := s.ledger.Void(ctx, repos, actor, b.DocumentNumber); err != nil {
			return err
		}
		return repos.BillRepo().Delete(ctx, actor.TenantID, b.ID)
	})
}

func (s *BillService) record(ctx context.Context, repos appshared.Repositories, actor shared.Actor, b *trade.Bill) error {
	if b.PaidAmount.IsZero() {
		return s.ledger.Void(ctx, repos, actor, b.DocumentNumber)
	}
	_, err := s.ledger.Record(ctx, repos, actor, b.DocumentNumber, ledger.BillPayment, b.PaidAmount)
	return err
}

// Get returns one bill
func (s *BillService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Bill, error) {
	var b *trade.Bill
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		b, err = repos.BillRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return b, err
}

// ForReceipt lists the bills of a receipt
func (s *BillService) ForReceipt(ctx context.Context, actor shared.Actor, receiptID uuid.UUID) ([]trade.Bill, error) {
	var bills []trade.Bill
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		bills, err = repos.BillRepo().FindByReceipt(ctx, actor.TenantID, receiptID)
		return err
	})
	return bills, err
}

// List returns a page of bills
func (s *BillService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]trade.Bill, int64, error) {
	var (
		items []trade.Bill
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.BillRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
