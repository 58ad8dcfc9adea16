package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
	"github.com/bibbank/installments/pkg/testutil"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fourMonthSchedule is four monthly installments of PRINCIPAL 3000.00 and
// INTEREST 60.00, the first due on 1 February 2026.
func fourMonthSchedule() []model.InstallmentCommand {
	cmds := make([]model.InstallmentCommand, 0, 4)
	for m := 0; m < 4; m++ {
		cmds = append(cmds, model.InstallmentCommand{
			DueDate:    testutil.Day(2026, time.February, 1).AddDate(0, m, 0),
			TotalValue: money.MustParse("3060.00"),
			Components: []model.ComponentCommand{
				{Type: "PRINCIPAL", Value: money.MustParse("3000.00")},
				{Type: "INTEREST", Value: money.MustParse("60.00")},
			},
		})
	}
	return cmds
}

func newPortfolio(t *testing.T, product string) *model.Portfolio {
	t.Helper()
	params, err := valueobject.NewChargeParameters(
		money.NewDailyRate(decimal.RequireFromString("0.0004988785496361")),
		valueobject.PenaltyFixed,
		money.MustParse("20.00"),
		money.ZeroRate,
	)
	require.NoError(t, err)

	factory := service.NewPortfolioFactory(service.NewRecipeBook())
	p, err := factory.Create(service.PortfolioTerms{
		ProductType:    product,
		MonthlyRate:    decimal.RequireFromString("0.02"),
		ChargeParams:   params,
		DiscountParams: valueobject.NewDiscountParameters(money.ZeroRate),
		Installments:   fourMonthSchedule(),
	}, testutil.Day(2026, time.January, 1))
	require.NoError(t, err)
	return p
}

func statuses(p *model.Portfolio) []string {
	out := make([]string, 0)
	for _, inst := range p.Installments() {
		out = append(out, inst.Status().String())
	}
	return out
}

func eventTypes(p *model.Portfolio) []string {
	out := make([]string, 0)
	for _, e := range p.Events() {
		out = append(out, e.EventType())
	}
	return out
}

// ---------------------------------------------------------------------------
// Schedule
// ---------------------------------------------------------------------------

func TestPortfolio_GenerateSchedule(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")

	insts := p.Installments()
	require.Len(t, insts, 4)
	for idx, inst := range insts {
		assert.Equal(t, idx+1, inst.Number().Int())
		assert.Equal(t, valueobject.InstallmentStatusOpen, inst.Status())
	}
	require.Len(t, p.Events(), 1)
	generated, ok := p.Events()[0].(event.ScheduleGenerated)
	require.True(t, ok)
	assert.Equal(t, 4, generated.InstallmentCount)
	testutil.AssertMoney(t, "12240.00", generated.TotalValue)

	err := p.GenerateSchedule(fourMonthSchedule(), testutil.Day(2026, time.January, 1))
	assert.ErrorIs(t, err, model.ErrScheduleAlreadyGenerated)
	assert.Len(t, p.Installments(), 4)
}

func TestPortfolio_GenerateScheduleIsAtomic(t *testing.T) {
	recipe, err := service.NewRecipeBook().Lookup(valueobject.ProductPreFixedPartial)
	require.NoError(t, err)
	p, err := model.NewPortfolio(valueobject.ProductPreFixedPartial, decimal.Zero, model.Conditions{}, recipe, time.Now())
	require.NoError(t, err)

	cmds := fourMonthSchedule()
	cmds[2].Components = nil

	err = p.GenerateSchedule(cmds, testutil.Day(2026, time.January, 1))
	assert.ErrorIs(t, err, model.ErrEmptyComponents)
	assert.Empty(t, p.Installments())
	assert.Empty(t, p.Events())

	assert.ErrorIs(t, p.GenerateSchedule(nil, time.Now()), model.ErrEmptySchedule)
}

func TestPortfolio_GenerateScheduleLimit(t *testing.T) {
	recipe, _ := service.NewRecipeBook().Lookup(valueobject.ProductPreFixedPartial)
	p, err := model.NewPortfolio(valueobject.ProductPreFixedPartial, decimal.Zero, model.Conditions{}, recipe, time.Now())
	require.NoError(t, err)

	cmds := make([]model.InstallmentCommand, model.MaxInstallments+1)
	assert.ErrorIs(t, p.GenerateSchedule(cmds, time.Now()), model.ErrTooManyInstallments)
}

// ---------------------------------------------------------------------------
// PaySingle
// ---------------------------------------------------------------------------

func TestPortfolio_PaySingleRecalculatesSchedule(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")
	p.ClearEvents()
	due := testutil.Day(2026, time.February, 1)

	rec, err := p.PaySingle(1, pay(t, "3060.00", due), due)
	require.NoError(t, err)
	testutil.AssertMoney(t, "3000.00", rec.AppliedTo(valueobject.ComponentPrincipal))

	want := []struct{ principal, interest string }{
		{"2940.79", "180.00"},
		{"2999.61", "121.18"},
		{"3059.60", "61.19"},
	}
	principal := money.Zero
	for idx, w := range want {
		inst, err := p.Installment(valueobject.InstallmentNumber(idx + 2))
		require.NoError(t, err)
		got := balances(inst)
		assert.Equal(t, w.principal, got["PRINCIPAL"], "installment %d principal", idx+2)
		assert.Equal(t, w.interest, got["INTEREST"], "installment %d interest", idx+2)
		testutil.AssertMoney(t, "3060.00", inst.TotalValue())
		principal = principal.Add(money.MustParse(got["PRINCIPAL"]))
	}
	testutil.AssertMoney(t, "9000.00", principal)

	assert.Equal(t, []string{
		"installment.payment.applied",
		"installment.paid",
		"installment.schedule.recalculated",
	}, eventTypes(p))
}

func TestPortfolio_PaySingleLeavesOverdueInstallmentsAlone(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")
	late := testutil.Day(2026, time.April, 10)

	first, err := p.Installment(1)
	require.NoError(t, err)
	_, err = p.PaySingle(1, pay(t, first.AmountDue(late, p.Conditions()).String(), late), late)
	require.NoError(t, err)

	// installments 2 and 3 fell due on Mar 1 and Apr 1
	for _, n := range []valueobject.InstallmentNumber{2, 3} {
		inst, err := p.Installment(n)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"PRINCIPAL": "3000.00", "INTEREST": "60.00"}, balances(inst), "installment %d", n)
		assert.Equal(t, valueobject.InstallmentStatusOverdue, inst.StatusAt(late))
	}

	last, err := p.Installment(4)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PRINCIPAL": "3000.00", "INTEREST": "60.00"}, balances(last))
	assert.Equal(t, valueobject.InstallmentStatusOpen, last.StatusAt(late))
	assert.Contains(t, eventTypes(p), "installment.schedule.recalculated")
}

func TestPortfolio_PaySingleWithoutRecalculation(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)

	_, err := p.PaySingle(1, pay(t, "3060.00", due), due)
	require.NoError(t, err)

	inst, err := p.Installment(2)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PRINCIPAL": "3000.00", "INTEREST": "60.00"}, balances(inst))
}

func TestPortfolio_PaySingleNotFound(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")
	_, err := p.PaySingle(9, pay(t, "1.00", time.Now()), time.Now())
	assert.ErrorIs(t, err, model.ErrInstallmentNotFound)
}

func TestPortfolio_PipelineRecipe(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_FULL")
	due := testutil.Day(2026, time.February, 1)

	rec, err := p.PaySingle(1, pay(t, "3060.00", due), due)
	require.NoError(t, err)
	assert.Equal(t, "HANDLER_PIPELINE", rec.StrategyName())
	assert.Equal(t, []string{"PAID", "OPEN", "OPEN", "OPEN"}, statuses(p))
}

// ---------------------------------------------------------------------------
// PayMultiple
// ---------------------------------------------------------------------------

func TestPortfolio_PayMultiple(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)

	batch, err := p.PayMultiple([]valueobject.InstallmentNumber{1, 3}, pay(t, "6200.00", due), due)
	require.NoError(t, err)

	require.Len(t, batch.Records, 2)
	testutil.AssertMoney(t, "80.00", batch.Unapplied)
	assert.Equal(t, []string{"PAID", "OPEN", "PAID", "OPEN"}, statuses(p))
}

func TestPortfolio_PayMultipleIncludesLateCharges(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	late := testutil.Day(2026, time.February, 11)

	_, err := p.PayMultiple([]valueobject.InstallmentNumber{1}, pay(t, "3060.00", late), late)
	assert.ErrorIs(t, err, model.ErrInsufficientPayment)

	inst, _ := p.Installment(1)
	due := inst.AmountDue(late, p.Conditions())
	batch, err := p.PayMultiple([]valueobject.InstallmentNumber{1}, pay(t, due.String(), late), late)
	require.NoError(t, err)
	testutil.AssertMoney(t, "0.00", batch.Unapplied)
	assert.Equal(t, valueobject.InstallmentStatusPaid, inst.Status())
}

func TestPortfolio_PayMultipleInsufficientLeavesEverything(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")
	p.ClearEvents()
	due := testutil.Day(2026, time.February, 1)

	_, err := p.PayMultiple([]valueobject.InstallmentNumber{1, 2}, pay(t, "5000.00", due), due)
	assert.ErrorIs(t, err, model.ErrInsufficientPayment)

	for _, inst := range p.Installments() {
		assert.Equal(t, map[string]string{"PRINCIPAL": "3000.00", "INTEREST": "60.00"}, balances(inst))
		assert.Equal(t, valueobject.InstallmentStatusOpen, inst.Status())
	}
	assert.Empty(t, p.Events())
}

func TestPortfolio_PayMultipleRejectsBadSelections(t *testing.T) {
	p := newPortfolio(t, "PRE_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)

	_, err := p.PayMultiple([]valueobject.InstallmentNumber{1, 1}, pay(t, "9000.00", due), due)
	assert.ErrorIs(t, err, model.ErrDuplicateInstallment)

	_, err = p.PayMultiple([]valueobject.InstallmentNumber{7}, pay(t, "9000.00", due), due)
	assert.ErrorIs(t, err, model.ErrInstallmentNotFound)

	require.NoError(t, p.Cancel(2, due))
	_, err = p.PayMultiple([]valueobject.InstallmentNumber{2}, pay(t, "9000.00", due), due)
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

// ---------------------------------------------------------------------------
// PayByLumpSum
// ---------------------------------------------------------------------------

func TestPortfolio_PayByLumpSum(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)

	batch, err := p.PayByLumpSum(pay(t, "4000.00", due), due)
	require.NoError(t, err)

	require.Len(t, batch.Records, 2)
	testutil.AssertMoney(t, "0.00", batch.Unapplied)
	assert.Equal(t, []string{"PAID", "OPEN", "OPEN", "OPEN"}, statuses(p))

	second, _ := p.Installment(2)
	assert.Equal(t, map[string]string{"PRINCIPAL": "2060.00", "INTEREST": "60.00"}, balances(second))
}

func TestPortfolio_PayByLumpSumSkipsSettledAndReportsLeftover(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)
	require.NoError(t, p.Cancel(1, due))

	batch, err := p.PayByLumpSum(pay(t, "9500.00", due), due)
	require.NoError(t, err)

	require.Len(t, batch.Records, 3)
	testutil.AssertMoney(t, "320.00", batch.Unapplied)
	assert.Equal(t, []string{"CANCELLED", "PAID", "PAID", "PAID"}, statuses(p))
}

// ---------------------------------------------------------------------------
// Cancel, reverse, valuation
// ---------------------------------------------------------------------------

func TestPortfolio_CancelAndReverse(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	p.ClearEvents()
	due := testutil.Day(2026, time.February, 1)

	rec, err := p.PaySingle(1, pay(t, "3060.00", due), due)
	require.NoError(t, err)
	require.NoError(t, p.Reverse(rec, due.AddDate(0, 0, 2)))
	require.NoError(t, p.Cancel(2, due))

	assert.Equal(t, []string{"OVERDUE", "CANCELLED", "OPEN", "OPEN"}, statuses(p))
	assert.Equal(t, []string{
		"installment.payment.applied",
		"installment.paid",
		"installment.payment.reversed",
		"installment.cancelled",
	}, eventTypes(p))

	assert.ErrorIs(t, p.Cancel(2, due), valueobject.ErrInvalidStatusTransition)
}

func TestPortfolio_Valuation(t *testing.T) {
	p := newPortfolio(t, "POST_FIXED_PARTIAL")
	due := testutil.Day(2026, time.February, 1)
	require.NoError(t, p.Cancel(4, due))

	late := due.AddDate(0, 0, 10)
	v := p.Valuation(late)

	require.Len(t, v.Installments, 4)
	assert.Equal(t, valueobject.InstallmentStatusOverdue, v.Installments[0].Status)
	assert.Equal(t, valueobject.InstallmentStatusOpen, p.Installments()[0].Status(), "valuation must not transition")
	testutil.AssertMoney(t, "9180.00", v.Outstanding)
	// 3000.00 for 10 days at the moratory rate plus the fixed penalty
	testutil.AssertMoney(t, "3095.00", v.Installments[0].CurrentValue)
	testutil.AssertMoney(t, "0.00", v.Installments[3].CurrentValue)
	testutil.AssertMoney(t, "9215.00", v.CurrentValue)
}
