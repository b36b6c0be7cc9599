package payroll

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindAdvance = "advance"

// AdvanceService pays salary advances. Every advance of a day adds to the
// same ledger entry, numbered by the date.
type AdvanceService struct {
	runner *appshared.Runner
	ledger *appledger.TransactionLedger
}

// NewAdvanceService creates a new AdvanceService
func NewAdvanceService(runner *appshared.Runner, transactions *appledger.TransactionLedger) *AdvanceService {
	return &AdvanceService{runner: runner, ledger: transactions}
}

// Create pays an advance, raises the employee's advance due and adds the
// amount to the day's ledger entry
func (s *AdvanceService) Create(ctx context.Context, actor shared.Actor, in payroll.AdvanceInput) (*payroll.Advance, error) {
	if in.Date.IsZero() {
		in.Date = s.runner.Now()
	}
	number := ledger.AdvanceNumber(stock.TruncateDay(in.Date))

	var result *payroll.Advance
	op := appshared.Operation{
		Kind:  kindAdvance,
		Name:  "create",
		Actor: actor,
		Locks: []string{appshared.NumberLockKey(actor.TenantID, number)},
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := payroll.NewAdvance(actor, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, a.DocumentNumber)
		if err := s.apply(ctx, repos, actor, a, a.Amount); err != nil {
			return err
		}
		if err := repos.AdvanceRepo().Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

// Update changes the amount of an advance and applies the difference to
// the employee and the day's entry
func (s *AdvanceService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in payroll.AdvanceInput) (*payroll.Advance, error) {
	var result *payroll.Advance
	op := appshared.Operation{Kind: kindAdvance, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := repos.AdvanceRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, a.DocumentNumber)
		if in.EmployeeID != uuid.Nil && in.EmployeeID != a.EmployeeID {
			return shared.NewFieldError("employee_id", "the employee of an advance cannot change")
		}
		delta, err := a.Revise(in.Amount, in.Note)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, repos, actor, a, delta); err != nil {
			return err
		}
		if err := repos.AdvanceRepo().Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

// Delete takes the advance off the employee and the day's entry
func (s *AdvanceService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindAdvance, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := repos.AdvanceRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, a.DocumentNumber)
		if err := s.apply(ctx, repos, actor, a, a.Amount.Neg()); err != nil {
			return err
		}
		return repos.AdvanceRepo().Delete(ctx, actor.TenantID, a.ID)
	})
}

// apply moves the employee's advance due and the day's entry by delta.
// Lowering an advance that salary has already recovered is an integrity fault.
func (s *AdvanceService) apply(ctx context.Context, repos appshared.Repositories, actor shared.Actor, a *payroll.Advance, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	e, err := repos.EmployeeRepo().FindByIDForUpdate(ctx, actor.TenantID, a.EmployeeID)
	if err != nil {
		return err
	}
	if err := e.ChangeAdvanceDue(delta); err != nil {
		return err
	}
	if err := repos.EmployeeRepo().Save(ctx, e); err != nil {
		return err
	}
	_, err = s.ledger.Accumulate(ctx, repos, actor, a.DocumentNumber, ledger.AdvancePayment, delta)
	return err
}

// Get returns one advance
func (s *AdvanceService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*payroll.Advance, error) {
	var a *payroll.Advance
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		a, err = repos.AdvanceRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return a, err
}

// List returns a page of advances
func (s *AdvanceService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]payroll.Advance, int64, error) {
	var (
		items []payroll.Advance
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.AdvanceRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
