package valueobject_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

func TestComponentType(t *testing.T) {
	t.Run("parses every known type", func(t *testing.T) {
		for _, raw := range []string{"PRINCIPAL", "INTEREST", "PENALTY", "FEE", "MONETARY_CORRECTION"} {
			ct, err := valueobject.NewComponentType(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, ct.String())
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := valueobject.NewComponentType("LATE_FEE")
		require.ErrorIs(t, err, valueobject.ErrUnknownComponentType)
	})

	t.Run("payment order starts with principal and interest", func(t *testing.T) {
		order := valueobject.PaymentOrder()
		require.GreaterOrEqual(t, len(order), 4)
		assert.Equal(t, valueobject.ComponentPrincipal, order[0])
		assert.Equal(t, valueobject.ComponentInterest, order[1])
		assert.Equal(t, valueobject.ComponentPenalty, order[2])
		assert.Equal(t, valueobject.ComponentFee, order[3])

		order[0] = valueobject.ComponentFee
		assert.Equal(t, valueobject.ComponentPrincipal, valueobject.PaymentOrder()[0], "returned slice must be a copy")
	})

	t.Run("essential components", func(t *testing.T) {
		assert.Equal(t,
			[]valueobject.ComponentType{valueobject.ComponentPrincipal, valueobject.ComponentInterest},
			valueobject.EssentialComponents())
	})
}

func TestInstallmentStatus(t *testing.T) {
	for _, s := range valueobject.InstallmentStatuses() {
		parsed, err := valueobject.NewInstallmentStatus(s.String())
		require.NoError(t, err)
		assert.True(t, parsed.Equal(s))
	}

	_, err := valueobject.NewInstallmentStatus("LATE")
	require.Error(t, err)

	assert.True(t, valueobject.InstallmentStatusOpen.IsPayable())
	assert.True(t, valueobject.InstallmentStatusOverdue.IsPayable())
	assert.False(t, valueobject.InstallmentStatusPaid.IsPayable())
	assert.False(t, valueobject.InstallmentStatusCancelled.IsPayable())
	assert.True(t, valueobject.InstallmentStatus{}.IsZero())
}

func TestProductTypeAndPenaltyKind(t *testing.T) {
	pt, err := valueobject.NewProductType("PRE_FIXED_FULL")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProductPreFixedFull, pt)

	_, err = valueobject.NewProductType("CONSORTIUM")
	require.ErrorIs(t, err, valueobject.ErrUnknownProduct)

	kind, err := valueobject.NewPenaltyKind("PERCENTAGE")
	require.NoError(t, err)
	assert.Equal(t, valueobject.PenaltyPercentage, kind)

	_, err = valueobject.NewPenaltyKind("DAILY")
	require.Error(t, err)
}

func TestInstallmentNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		wantErr bool
	}{
		{name: "first", in: 1},
		{name: "last allowed", in: 999},
		{name: "zero", in: 0, wantErr: true},
		{name: "negative", in: -4, wantErr: true},
		{name: "above limit", in: 1000, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := valueobject.NewInstallmentNumber(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, valueobject.ErrInvalidInstallmentNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, n.Int())
		})
	}
}

func TestNewPayment(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	p, err := valueobject.NewPayment(money.MustParse("10.00"), date, "PIX")
	require.NoError(t, err)
	assert.Equal(t, "10.00", p.Amount().String())
	assert.Equal(t, "PIX", p.Method())

	split := p.WithAmount(money.MustParse("4.00"))
	assert.Equal(t, "4.00", split.Amount().String())
	assert.Equal(t, "10.00", p.Amount().String())
	assert.Equal(t, date, split.Date())

	_, err = valueobject.NewPayment(money.Zero, date, "PIX")
	require.ErrorIs(t, err, valueobject.ErrNonPositivePayment)
}

func TestNewChargeParameters(t *testing.T) {
	rate := money.NewDailyRate(decimal.RequireFromString("0.0005"))

	params, err := valueobject.NewChargeParameters(rate, valueobject.PenaltyFixed, money.MustParse("20"), money.ZeroRate)
	require.NoError(t, err)
	assert.True(t, params.MoratoryRate().Equal(rate))
	assert.Equal(t, "20.00", params.FixedPenalty().String())

	_, err = valueobject.NewChargeParameters(
		money.NewDailyRate(decimal.RequireFromString("-0.1")),
		valueobject.PenaltyKind{},
		money.MustParse("-1"),
		money.ZeroRate,
	)
	require.ErrorIs(t, err, valueobject.ErrInvalidChargeParameters)
	assert.Contains(t, err.Error(), "moratory rate")
	assert.Contains(t, err.Error(), "penalty kind")
	assert.Contains(t, err.Error(), "fixed penalty")
}

func TestCalendarDays(t *testing.T) {
	due := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, valueobject.CalendarDays(due, due.Add(23*time.Hour)))
	assert.Equal(t, 10, valueobject.CalendarDays(due, due.AddDate(0, 0, 10)))
	assert.Equal(t, -5, valueobject.CalendarDays(due, due.AddDate(0, 0, -5)))
	assert.Equal(t, 29, valueobject.CalendarDays(due, time.Date(2025, 2, 28, 18, 0, 0, 0, time.UTC)))
}
