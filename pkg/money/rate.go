package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ratePrecision is the number of fractional digits kept for a daily rate.
const ratePrecision int32 = 16

var hundred = decimal.NewFromInt(100)

// ErrInvalidRate is returned when a percentage cannot be turned into a rate.
var ErrInvalidRate = errors.New("money: invalid rate")

// ---------------------------------------------------------------------------
// Periodicity: immutable value object
// ---------------------------------------------------------------------------

// Periodicity is the period a percentage rate is quoted for.
type Periodicity struct {
	value string
	days  decimal.Decimal
}

const (
	periodicityDaily   = "DAILY"
	periodicityWeekly  = "WEEKLY"
	periodicityMonthly = "MONTHLY"
	periodicityAnnual  = "ANNUAL"
)

var (
	Daily   = Periodicity{value: periodicityDaily, days: decimal.NewFromInt(1)}
	Weekly  = Periodicity{value: periodicityWeekly, days: decimal.NewFromInt(7)}
	Monthly = Periodicity{value: periodicityMonthly, days: decimal.RequireFromString("30.4375")}
	Annual  = Periodicity{value: periodicityAnnual, days: decimal.RequireFromString("365.25")}
)

var validPeriodicities = map[string]Periodicity{
	periodicityDaily:   Daily,
	periodicityWeekly:  Weekly,
	periodicityMonthly: Monthly,
	periodicityAnnual:  Annual,
}

// NewPeriodicity creates a Periodicity from a raw string.
func NewPeriodicity(s string) (Periodicity, error) {
	v, ok := validPeriodicities[s]
	if !ok {
		return Periodicity{}, fmt.Errorf("invalid periodicity: %q", s)
	}
	return v, nil
}

// Days returns the number of days in one period.
func (p Periodicity) Days() decimal.Decimal { return p.days }

// String returns the string representation of the periodicity.
func (p Periodicity) String() string { return p.value }

// IsZero returns true if the periodicity has not been initialised.
func (p Periodicity) IsZero() bool { return p.value == "" }

// Equal returns true when both periodicities carry the same value.
func (p Periodicity) Equal(other Periodicity) bool { return p.value == other.value }

// ---------------------------------------------------------------------------
// Rate: immutable value object
// ---------------------------------------------------------------------------

// Rate is an interest rate normalised to its equivalent daily compounding
// rate. The daily representation is the only one stored.
type Rate struct {
	daily decimal.Decimal
}

// ZeroRate is a rate of 0% per day.
var ZeroRate = Rate{daily: decimal.Zero}

// NewRateFromPercentage converts a percentage quoted for the given
// periodicity (for example 2 for 2% a month) into a Rate.
//
//	daily = (1 + pct/100)^(1/days) - 1
func NewRateFromPercentage(pct decimal.Decimal, p Periodicity) (Rate, error) {
	if p.IsZero() {
		return Rate{}, fmt.Errorf("%w: periodicity is required", ErrInvalidRate)
	}
	fraction := pct.Div(hundred)
	if fraction.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return Rate{}, fmt.Errorf("%w: %s%% is not above -100%%", ErrInvalidRate, pct.String())
	}
	return Rate{daily: convert(fraction, decimal.NewFromInt(1).Div(p.days))}, nil
}

// NewDailyRate wraps a daily rate already expressed as a fraction
// (0.0005 for 0.05% a day).
func NewDailyRate(fraction decimal.Decimal) Rate {
	return Rate{daily: fraction.Round(ratePrecision)}
}

// convert computes (1+r)^exp - 1. The fractional exponent is evaluated in
// float64; an exponent of one is returned unchanged.
func convert(r, exp decimal.Decimal) decimal.Decimal {
	if exp.Equal(decimal.NewFromInt(1)) || r.IsZero() {
		return r.Round(ratePrecision)
	}
	base := 1 + r.InexactFloat64()
	return decimal.NewFromFloat(math.Pow(base, exp.InexactFloat64()) - 1).Round(ratePrecision)
}

// Daily returns the equivalent daily rate as a fraction.
func (r Rate) Daily() decimal.Decimal { return r.daily }

// ForPeriod returns the equivalent rate, as a fraction, for the given periodicity.
func (r Rate) ForPeriod(p Periodicity) decimal.Decimal {
	return convert(r.daily, p.days)
}

// Monthly returns the equivalent monthly rate as a fraction.
func (r Rate) Monthly() decimal.Decimal { return r.ForPeriod(Monthly) }

// Percentage returns the daily rate expressed as a percentage.
func (r Rate) Percentage() decimal.Decimal { return r.daily.Mul(hundred) }

// IsZero returns true for a 0% rate.
func (r Rate) IsZero() bool { return r.daily.IsZero() }

// Equal returns true when both rates have the same daily value.
func (r Rate) Equal(other Rate) bool { return r.daily.Equal(other.daily) }

// Apply computes base * dailyRate, a flat one-shot multiplication.
func (r Rate) Apply(base Money) Money {
	return base.MultiplyBy(r.daily)
}

// CompoundInterest computes base * ((1+dailyRate)^days - 1).
// Non-positive day counts accrue nothing.
func (r Rate) CompoundInterest(base Money, days int) Money {
	if days <= 0 || r.IsZero() {
		return Zero
	}
	factor, err := decimal.NewFromInt(1).Add(r.daily).PowInt32(int32(days))
	if err != nil {
		// only reachable for negative exponents, excluded above
		return Zero
	}
	return base.MultiplyBy(factor.Sub(decimal.NewFromInt(1)))
}

// SimpleInterest computes base * dailyRate * days without compounding.
func (r Rate) SimpleInterest(base Money, days int) Money {
	if days <= 0 || r.IsZero() {
		return Zero
	}
	return base.MultiplyBy(r.daily.Mul(decimal.NewFromInt(int64(days))))
}

// String formats the rate as a daily percentage, for example "0.04988785% a day".
func (r Rate) String() string {
	return fmt.Sprintf("%s%% a day", r.Percentage().StringFixed(8))
}
