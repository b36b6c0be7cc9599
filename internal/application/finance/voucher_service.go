// Package finance orchestrates the money-only documents: income and expense
// vouchers, vendor payments and customer collections.
package finance

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

const kindVoucher = "voucher"

// VoucherService records income and expense vouchers. Each voucher owns one
// ledger entry holding its amount under the voucher's type.
type VoucherService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	ledger   *appledger.TransactionLedger
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(runner *appshared.Runner, numberer *appledger.Numberer, transactions *appledger.TransactionLedger) *VoucherService {
	return &VoucherService{runner: runner, numberer: numberer, ledger: transactions}
}

// Create numbers a voucher in the series of its kind and records its amount
func (s *VoucherService) Create(ctx context.Context, actor shared.Actor, in finance.VoucherInput) (*finance.Voucher, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var result *finance.Voucher
	op := appshared.Operation{
		Kind:  kindVoucher,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, in.Kind.Series()),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if err := s.checkType(ctx, repos, actor, in.Kind, in.Type); err != nil {
			return err
		}
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, in.Kind.Series())
		if err != nil {
			return err
		}
		v, err := finance.NewVoucher(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)
		if err := s.save(ctx, repos, actor, v); err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// Update revises an open voucher and records its new amount and type
func (s *VoucherService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in finance.VoucherInput) (*finance.Voucher, error) {
	var result *finance.Voucher
	op := appshared.Operation{Kind: kindVoucher, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		v, err := repos.VoucherRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, v.DocumentNumber)
		if err := v.Revise(in); err != nil {
			return err
		}
		if err := s.checkType(ctx, repos, actor, v.Kind, v.Type); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, v); err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// Delete voids the voucher's entry and removes the voucher
func (s *VoucherService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindVoucher, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		v, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.VoucherRepo().Delete(ctx, actor.TenantID, v.ID)
	})
}

// Cancel voids the voucher's entry and keeps the voucher as cancelled
func (s *VoucherService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.Voucher, error) {
	var result *finance.Voucher
	op := appshared.Operation{Kind: kindVoucher, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		v, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := v.Cancel(); err != nil {
			return err
		}
		if err := repos.VoucherRepo().Save(ctx, v); err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

func (s *VoucherService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*finance.Voucher, error) {
	v, err := repos.VoucherRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, v.DocumentNumber)
	if err := v.EnsureDeletable(); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, v.DocumentNumber); err != nil {
		return nil, err
	}
	return v, nil
}

// checkType loads the tenant's custom types only when t is one of them
func (s *VoucherService) checkType(ctx context.Context, repos appshared.Repositories, actor shared.Actor, kind finance.VoucherKind, t ledger.Type) error {
	var custom []ledger.CustomType
	if t >= ledger.FirstCustomType {
		var err error
		if custom, err = repos.LedgerTypeRepo().FindAll(ctx, actor.TenantID); err != nil {
			return err
		}
	}
	return kind.CheckType(t, custom)
}

func (s *VoucherService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, v *finance.Voucher) error {
	if err := repos.VoucherRepo().Save(ctx, v); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, v.DocumentNumber, v.Classification(), v.Amount)
	return err
}

// Get returns one voucher
func (s *VoucherService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.Voucher, error) {
	var v *finance.Voucher
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		v, err = repos.VoucherRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return v, err
}

// List returns a page of vouchers
func (s *VoucherService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]finance.Voucher, int64, error) {
	var (
		items []finance.Voucher
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.VoucherRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
