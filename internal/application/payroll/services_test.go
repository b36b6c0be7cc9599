package payroll

import (
	"context"
	"testing"
	"time"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payrollEnv struct {
	*testutil.Fixture
	employees *EmployeeService
	advances  *AdvanceService
	salaries  *SalaryService
}

func newPayrollEnv(t *testing.T) *payrollEnv {
	t.Helper()
	f := testutil.NewFixture(t)
	transactions := appledger.NewTransactionLedger(nil)
	return &payrollEnv{
		Fixture:   f,
		employees: NewEmployeeService(f.Runner),
		advances:  NewAdvanceService(f.Runner, transactions),
		salaries:  NewSalaryService(f.Runner, appledger.NewNumberer(f.Now), transactions),
	}
}

func (e *payrollEnv) due(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	emp, err := e.employees.Get(context.Background(), e.Actor, id)
	require.NoError(t, err)
	return emp.AdvanceDue
}

func (e *payrollEnv) entry(t *testing.T, number string) *ledger.Entry {
	t.Helper()
	entry, err := e.Repos().EntryRepo().FindByNumber(context.Background(), e.Actor.TenantID, number)
	require.NoError(t, err)
	return entry
}

func TestEmployeeService(t *testing.T) {
	e := newPayrollEnv(t)
	ctx := context.Background()

	emp, err := e.employees.Create(ctx, e.Actor, " E-1 ", "Ada", testutil.Dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, "E-1", emp.Code)
	testutil.AssertDecimal(t, "0", emp.AdvanceDue)

	_, err = e.employees.Create(ctx, e.Actor, "", "Nobody", decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, total, err := e.employees.List(ctx, e.Actor, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = e.employees.Get(ctx, e.OtherTenant(), emp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAdvanceService(t *testing.T) {
	e := newPayrollEnv(t)
	ctx := context.Background()

	emp, err := e.employees.Create(ctx, e.Actor, "E-1", "Ada", testutil.Dec("1000"))
	require.NoError(t, err)

	first, err := e.advances.Create(ctx, e.Actor, payroll.AdvanceInput{EmployeeID: emp.ID, Amount: testutil.Dec("100")})
	require.NoError(t, err)
	assert.Equal(t, "20240315", first.DocumentNumber)

	second, err := e.advances.Create(ctx, e.Actor, payroll.AdvanceInput{EmployeeID: emp.ID, Amount: testutil.Dec("50")})
	require.NoError(t, err)
	assert.Equal(t, first.DocumentNumber, second.DocumentNumber, "advances of one day share a number")

	entry := e.entry(t, first.DocumentNumber)
	assert.Equal(t, ledger.AdvancePayment, entry.Classification)
	testutil.AssertDecimal(t, "150", entry.Amount)
	testutil.AssertDecimal(t, "150", e.due(t, emp.ID))

	t.Run("update applies the difference", func(t *testing.T) {
		updated, err := e.advances.Update(ctx, e.Actor, first.ID, payroll.AdvanceInput{Amount: testutil.Dec("70")})
		require.NoError(t, err)
		testutil.AssertDecimal(t, "70", updated.Amount)
		testutil.AssertDecimal(t, "120", e.entry(t, first.DocumentNumber).Amount)
		testutil.AssertDecimal(t, "120", e.due(t, emp.ID))

		_, err = e.advances.Update(ctx, e.Actor, first.ID, payroll.AdvanceInput{EmployeeID: uuid.New(), Amount: testutil.Dec("70")})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("delete subtracts", func(t *testing.T) {
		require.NoError(t, e.advances.Delete(ctx, e.Actor, second.ID))
		testutil.AssertDecimal(t, "70", e.entry(t, first.DocumentNumber).Amount)
		testutil.AssertDecimal(t, "70", e.due(t, emp.ID))
		_, err := e.advances.Get(ctx, e.Actor, second.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("another day gets its own entry", func(t *testing.T) {
		e.SetNow(testutil.Day(2024, 3, 16).Add(9 * time.Hour))
		next, err := e.advances.Create(ctx, e.Actor, payroll.AdvanceInput{EmployeeID: emp.ID, Amount: testutil.Dec("30")})
		require.NoError(t, err)
		assert.Equal(t, "20240316", next.DocumentNumber)
		testutil.AssertDecimal(t, "30", e.entry(t, next.DocumentNumber).Amount)
		testutil.AssertDecimal(t, "70", e.entry(t, first.DocumentNumber).Amount)
		testutil.AssertDecimal(t, "100", e.due(t, emp.ID))
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := e.advances.Create(ctx, e.Actor, payroll.AdvanceInput{EmployeeID: uuid.New(), Amount: testutil.Dec("1")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSalaryService(t *testing.T) {
	e := newPayrollEnv(t)
	ctx := context.Background()

	emp, err := e.employees.Create(ctx, e.Actor, "E-1", "Ada", testutil.Dec("1000"))
	require.NoError(t, err)
	advance, err := e.advances.Create(ctx, e.Actor, payroll.AdvanceInput{EmployeeID: emp.ID, Amount: testutil.Dec("300")})
	require.NoError(t, err)

	p, err := e.salaries.Create(ctx, e.Actor, payroll.SalaryInput{EmployeeID: emp.ID, Period: "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, "SAL-2024-1", p.DocumentNumber)
	testutil.AssertDecimal(t, "1000", p.Gross)
	testutil.AssertDecimal(t, "300", p.AdvanceDeduction)
	testutil.AssertDecimal(t, "700", p.NetPaid)
	testutil.AssertDecimal(t, "0", e.due(t, emp.ID))

	entry := e.entry(t, p.DocumentNumber)
	assert.Equal(t, ledger.SalaryPayment, entry.Classification)
	testutil.AssertDecimal(t, "700", entry.Amount)

	t.Run("recovered advance cannot be lowered", func(t *testing.T) {
		err := e.advances.Delete(ctx, e.Actor, advance.ID)
		assert.ErrorIs(t, err, shared.ErrIntegrityFault)
		testutil.AssertDecimal(t, "300", e.entry(t, advance.DocumentNumber).Amount)
	})

	t.Run("update settles again", func(t *testing.T) {
		part := testutil.Dec("100")
		updated, err := e.salaries.Update(ctx, e.Actor, p.ID, payroll.SalaryInput{Period: "2024-03", Deduction: &part})
		require.NoError(t, err)
		testutil.AssertDecimal(t, "900", updated.NetPaid)
		testutil.AssertDecimal(t, "200", e.due(t, emp.ID))
		testutil.AssertDecimal(t, "900", e.entry(t, p.DocumentNumber).Amount)

		over := testutil.Dec("301")
		_, err = e.salaries.Update(ctx, e.Actor, p.ID, payroll.SalaryInput{Period: "2024-03", Deduction: &over})
		assert.ErrorIs(t, err, shared.ErrValidation)
		testutil.AssertDecimal(t, "200", e.due(t, emp.ID))
	})

	t.Run("second payment numbers on", func(t *testing.T) {
		next, err := e.salaries.Create(ctx, e.Actor, payroll.SalaryInput{EmployeeID: emp.ID, Period: "2024-04", Gross: testutil.Dec("150")})
		require.NoError(t, err)
		assert.Equal(t, "SAL-2024-2", next.DocumentNumber)
		testutil.AssertDecimal(t, "150", next.AdvanceDeduction)
		testutil.AssertDecimal(t, "0", next.NetPaid)
		testutil.AssertDecimal(t, "50", e.due(t, emp.ID))

		cancelled, err := e.salaries.Cancel(ctx, e.Actor, next.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
		testutil.AssertDecimal(t, "200", e.due(t, emp.ID))
		assert.ErrorIs(t, e.salaries.Delete(ctx, e.Actor, next.ID), shared.ErrInvalidState)
	})

	t.Run("delete restores the advance", func(t *testing.T) {
		require.NoError(t, e.salaries.Delete(ctx, e.Actor, p.ID))
		testutil.AssertDecimal(t, "300", e.due(t, emp.ID))
		assert.True(t, e.entry(t, p.DocumentNumber).IsVoid())
	})

	t.Run("employee is required", func(t *testing.T) {
		_, err := e.salaries.Create(ctx, e.Actor, payroll.SalaryInput{Period: "2024-05"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
