package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Money value carries.
// Rounding is always half-to-even (banker's rounding).
const Scale int32 = 2

// ErrDivisionByZero is returned by DivideBy when the factor is zero.
var ErrDivisionByZero = errors.New("money: division by zero")

// Money is an immutable monetary amount with a fixed scale.
// Fields are unexported to enforce immutability; every operation returns a
// new value that is already rounded to Scale.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{amount: decimal.Zero}

// New creates a Money value from a decimal amount, rounding it to Scale.
func New(amount decimal.Decimal) Money {
	return Money{amount: round(amount)}
}

// NewFromInt creates a Money value from a whole number of units.
func NewFromInt(units int64) Money {
	return New(decimal.NewFromInt(units))
}

// NewFromString parses an amount string into a Money value.
func NewFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return New(d), nil
}

// MustParse parses an amount and panics on error. Intended for tests and
// package-level variable initialization only.
func MustParse(amount string) Money {
	m, err := NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Scale)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: round(m.amount.Add(other.amount))}
}

// Subtract returns m - other. Negative results are allowed; callers that
// need non-negative amounts enforce it themselves.
func (m Money) Subtract(other Money) Money {
	return Money{amount: round(m.amount.Sub(other.amount))}
}

// MultiplyBy returns m multiplied by the given factor.
func (m Money) MultiplyBy(factor decimal.Decimal) Money {
	return Money{amount: round(m.amount.Mul(factor))}
}

// DivideBy returns m divided by the given factor.
func (m Money) DivideBy(factor decimal.Decimal) (Money, error) {
	if factor.IsZero() {
		return Money{}, ErrDivisionByZero
	}
	return Money{amount: round(m.amount.Div(factor))}, nil
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other.amount.LessThan(m.amount) {
		return other
	}
	return m
}

// Max returns the larger of m and other.
func (m Money) Max(other Money) Money {
	if other.amount.GreaterThan(m.amount) {
		return other
	}
	return m
}

// Negate returns m with the sign of the amount flipped.
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg()}
}

// Cmp compares m and other and returns -1, 0 or +1.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Equal returns true if both amounts are equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// GreaterThan returns true when m > other.
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

// GreaterThanOrEqual returns true when m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool { return m.amount.GreaterThanOrEqual(other.amount) }

// LessThan returns true when m < other.
func (m Money) LessThan(other Money) bool { return m.amount.LessThan(other.amount) }

// LessThanOrEqual returns true when m <= other.
func (m Money) LessThanOrEqual(other Money) bool { return m.amount.LessThanOrEqual(other.amount) }

// Sum adds all values. The sum of no values is Zero.
func Sum(values ...Money) Money {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// String formats the amount with exactly Scale fractional digits, for example "100.00".
func (m Money) String() string {
	return m.amount.StringFixed(Scale)
}

// MarshalJSON encodes the amount as a quoted fixed-scale string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	m.amount = round(d)
	return nil
}
