package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
	"github.com/bibbank/installments/pkg/testutil"
)

func schedule(t *testing.T, n int) []*model.Installment {
	t.Helper()
	start := testutil.Day(2026, time.January, 1)
	out := make([]*model.Installment, 0, n)
	for i := 1; i <= n; i++ {
		p, _ := model.NewComponent(valueobject.ComponentPrincipal, money.MustParse("3000.00"))
		in, _ := model.NewComponent(valueobject.ComponentInterest, money.MustParse("60.00"))
		inst, err := model.NewInstallment(i, start.AddDate(0, i, 0), money.MustParse("3060.00"),
			[]*model.Component{p, in}, start)
		require.NoError(t, err)
		out = append(out, inst)
	}
	return out
}

func TestFixedPayment(t *testing.T) {
	pmt, err := service.FixedPayment(money.MustParse("9000.00"), decimal.RequireFromString("0.02"), 3)
	require.NoError(t, err)
	testutil.AssertMoney(t, "3120.79", pmt)

	even, err := service.FixedPayment(money.MustParse("100.00"), decimal.Zero, 3)
	require.NoError(t, err)
	testutil.AssertMoney(t, "33.33", even)

	_, err = service.FixedPayment(money.MustParse("100.00"), decimal.Zero, 0)
	assert.Error(t, err)
}

func TestPriceRecalculator(t *testing.T) {
	insts := schedule(t, 4)

	out, err := service.NewPriceRecalculator().Recalculate(insts, 1, money.MustParse("9000.00"), decimal.RequireFromString("0.02"), testutil.Day(2026, time.January, 15))
	require.NoError(t, err)
	require.Len(t, out, 3)

	want := []struct{ principal, interest string }{
		{"2940.79", "180.00"},
		{"2999.61", "121.18"},
		{"3059.60", "61.19"},
	}
	total := money.Zero
	for idx, inst := range out {
		assert.Equal(t, idx+2, inst.Number().Int())
		assert.Equal(t, insts[idx+1].DueDate(), inst.DueDate())
		p, _ := inst.Component(valueobject.ComponentPrincipal)
		i, _ := inst.Component(valueobject.ComponentInterest)
		testutil.AssertMoney(t, want[idx].principal, p.Balance)
		testutil.AssertMoney(t, want[idx].interest, i.Balance)
		total = total.Add(p.Balance)
	}
	testutil.AssertMoney(t, "9000.00", total)

	// originals are untouched
	p, _ := insts[1].Component(valueobject.ComponentPrincipal)
	testutil.AssertMoney(t, "3000.00", p.Balance)
}

func TestPriceRecalculator_OnlyOpenInstallments(t *testing.T) {
	insts := schedule(t, 4)
	require.NoError(t, insts[3].Cancel(testutil.Day(2026, time.January, 2)))

	out, err := service.NewPriceRecalculator().Recalculate(insts, 1, money.MustParse("6000.00"), decimal.RequireFromString("0.01"), testutil.Day(2026, time.January, 15))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Number().Int())
	assert.Equal(t, 3, out[1].Number().Int())
}

func TestPriceRecalculator_NothingLeft(t *testing.T) {
	insts := schedule(t, 2)

	out, err := service.NewPriceRecalculator().Recalculate(insts, 2, money.Zero, decimal.RequireFromString("0.02"), testutil.Day(2026, time.January, 15))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPriceRecalculator_SkipsOverdueInstallments(t *testing.T) {
	insts := schedule(t, 4)

	// installments 2 and 3 fall due on Mar 1 and Apr 1
	out, err := service.NewPriceRecalculator().Recalculate(insts, 1, money.MustParse("3000.00"),
		decimal.RequireFromString("0.02"), testutil.Day(2026, time.April, 10))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].Number().Int())
	p, _ := out[0].Component(valueobject.ComponentPrincipal)
	testutil.AssertMoney(t, "3000.00", p.Balance)
}
