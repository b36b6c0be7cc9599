package payroll

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindSalary = "salary"

// SalaryService pays salaries, recovering outstanding advances first
type SalaryService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	ledger   *appledger.TransactionLedger
}

// NewSalaryService creates a new SalaryService
func NewSalaryService(runner *appshared.Runner, numberer *appledger.Numberer, transactions *appledger.TransactionLedger) *SalaryService {
	return &SalaryService{runner: runner, numberer: numberer, ledger: transactions}
}

// Create numbers a salary payment, deducts the recovered advance from the
// employee and records the net amount paid
func (s *SalaryService) Create(ctx context.Context, actor shared.Actor, in payroll.SalaryInput) (*payroll.SalaryPayment, error) {
	var result *payroll.SalaryPayment
	op := appshared.Operation{
		Kind:  kindSalary,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesSalary),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if in.EmployeeID == uuid.Nil {
			return shared.NewFieldError("employee_id", "is required")
		}
		e, err := repos.EmployeeRepo().FindByIDForUpdate(ctx, actor.TenantID, in.EmployeeID)
		if err != nil {
			return err
		}
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesSalary)
		if err != nil {
			return err
		}
		p, err := payroll.NewSalaryPayment(actor, number, e, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		if err := s.moveAdvanceDue(ctx, repos, e, p.AdvanceDeduction.Neg()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Update gives the previous deduction back and settles the payment again
func (s *SalaryService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in payroll.SalaryInput) (*payroll.SalaryPayment, error) {
	var result *payroll.SalaryPayment
	op := appshared.Operation{Kind: kindSalary, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := repos.SalaryRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, p.DocumentNumber)
		if err := p.EnsureEditable(); err != nil {
			return err
		}
		e, err := repos.EmployeeRepo().FindByIDForUpdate(ctx, actor.TenantID, p.EmployeeID)
		if err != nil {
			return err
		}
		if err := e.ChangeAdvanceDue(p.AdvanceDeduction); err != nil {
			return err
		}
		if in.EmployeeID == uuid.Nil {
			in.EmployeeID = p.EmployeeID
		}
		if in.EmployeeID != p.EmployeeID {
			return shared.NewFieldError("employee_id", "the employee of a salary payment cannot change")
		}
		if err := p.Revise(e, in); err != nil {
			return err
		}
		if err := s.moveAdvanceDue(ctx, repos, e, p.AdvanceDeduction.Neg()); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Delete restores the recovered advance, voids the payment entry and
// removes the payment
func (s *SalaryService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindSalary, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.SalaryRepo().Delete(ctx, actor.TenantID, p.ID)
	})
}

// Cancel reverses the payment like Delete but keeps it
func (s *SalaryService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*payroll.SalaryPayment, error) {
	var result *payroll.SalaryPayment
	op := appshared.Operation{Kind: kindSalary, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		if err := repos.SalaryRepo().Save(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

func (s *SalaryService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*payroll.SalaryPayment, error) {
	p, err := repos.SalaryRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, p.DocumentNumber)
	if err := p.EnsureDeletable(); err != nil {
		return nil, err
	}
	e, err := repos.EmployeeRepo().FindByIDForUpdate(ctx, actor.TenantID, p.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.moveAdvanceDue(ctx, repos, e, p.AdvanceDeduction); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, p.DocumentNumber); err != nil {
		return nil, err
	}
	return p, nil
}

// moveAdvanceDue moves the employee's advance due by delta and saves the employee
func (s *SalaryService) moveAdvanceDue(ctx context.Context, repos appshared.Repositories, e *payroll.Employee, delta decimal.Decimal) error {
	if err := e.ChangeAdvanceDue(delta); err != nil {
		return err
	}
	return repos.EmployeeRepo().Save(ctx, e)
}

func (s *SalaryService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, p *payroll.SalaryPayment) error {
	if err := repos.SalaryRepo().Save(ctx, p); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, p.DocumentNumber, ledger.SalaryPayment, p.NetPaid)
	return err
}

// Get returns one salary payment
func (s *SalaryService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*payroll.SalaryPayment, error) {
	var p *payroll.SalaryPayment
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		p, err = repos.SalaryRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return p, err
}

// List returns a page of salary payments
func (s *SalaryService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]payroll.SalaryPayment, int64, error) {
	var (
		items []payroll.SalaryPayment
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.SalaryRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
