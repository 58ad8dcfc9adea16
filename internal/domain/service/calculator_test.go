package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
	"github.com/bibbank/installments/pkg/testutil"
)

func chargeParams(t *testing.T, kind valueobject.PenaltyKind, fixed string, penaltyPct string) valueobject.ChargeParameters {
	t.Helper()
	penaltyRate, err := money.NewRateFromPercentage(decimal.RequireFromString(penaltyPct), money.Daily)
	require.NoError(t, err)
	p, err := valueobject.NewChargeParameters(
		money.NewDailyRate(decimal.RequireFromString("0.0004988785496361")),
		kind,
		money.MustParse(fixed),
		penaltyRate,
	)
	require.NoError(t, err)
	return p
}

func TestChargesCalculator_Interest(t *testing.T) {
	c := service.NewChargesCalculator()
	params := chargeParams(t, valueobject.PenaltyFixed, "20.00", "0")

	testutil.AssertMoney(t, "5.00", c.Interest(money.MustParse("1000.00"), params, 10))
	testutil.AssertMoney(t, "0.00", c.Interest(money.MustParse("1000.00"), params, 0))
	testutil.AssertMoney(t, "0.00", c.Interest(money.MustParse("1000.00"), params, -2))
}

func TestChargesCalculator_Penalty(t *testing.T) {
	c := service.NewChargesCalculator()
	v := view(map[valueobject.ComponentType]string{
		valueobject.ComponentPrincipal: "1000.00",
		valueobject.ComponentInterest:  "50.00",
		valueobject.ComponentFee:       "9.00",
	})

	fixed := chargeParams(t, valueobject.PenaltyFixed, "20.00", "0")
	testutil.AssertMoney(t, "20.00", c.Penalty(v, fixed, 1))
	testutil.AssertMoney(t, "0.00", c.Penalty(v, fixed, 0))

	pct := chargeParams(t, valueobject.PenaltyPercentage, "0", "2")
	testutil.AssertMoney(t, "21.00", c.Penalty(v, pct, 3))
}

func TestDiscountCalculator(t *testing.T) {
	d := service.NewDiscountCalculator()
	params := valueobject.NewDiscountParameters(money.NewDailyRate(decimal.RequireFromString("0.001")))

	testutil.AssertMoney(t, "10.00", d.Discount(money.MustParse("1000.00"), params, 10))
	testutil.AssertMoney(t, "0.00", d.Discount(money.MustParse("1000.00"), params, 0))
	testutil.AssertMoney(t, "100.00", d.Discount(money.MustParse("100.00"), params, 5000))
}
