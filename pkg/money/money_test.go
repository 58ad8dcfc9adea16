package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Construction and rounding
// ---------------------------------------------------------------------------

func TestNewFromString_Valid(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"100", "100.00"},
		{"0", "0.00"},
		{"-50.5", "-50.50"},
		{"99.999", "100.00"},
		{"0.001", "0.00"},
	}
	for _, tt := range tests {
		m, err := NewFromString(tt.amount)
		if err != nil {
			t.Errorf("NewFromString(%q) unexpected error: %v", tt.amount, err)
			continue
		}
		if got := m.String(); got != tt.want {
			t.Errorf("NewFromString(%q).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestNewFromString_InvalidAmount(t *testing.T) {
	_, err := NewFromString("not-a-number")
	if err == nil {
		t.Error("NewFromString with invalid amount expected error, got nil")
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse(\"bad\") did not panic")
		}
	}()
	MustParse("bad")
}

func TestNew_BankersRounding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.34"},
		{"2.355", "2.36"},
		{"2.3451", "2.35"},
		{"-2.345", "-2.34"},
		{"10.005", "10.00"},
		{"10.015", "10.02"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := New(decimal.RequireFromString(tt.in))
			if got.String() != tt.want {
				t.Errorf("New(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Predicates: IsZero, IsPositive, IsNegative
// ---------------------------------------------------------------------------

func TestPredicates(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("expected Zero.IsZero true")
	}
	if !NewFromInt(10).IsPositive() {
		t.Error("expected IsPositive true for 10")
	}
	if Zero.IsPositive() {
		t.Error("expected IsPositive false for 0")
	}
	if !NewFromInt(-5).IsNegative() {
		t.Error("expected IsNegative true for -5")
	}
	if NewFromInt(3).IsNegative() {
		t.Error("expected IsNegative false for 3")
	}
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func TestAddSubtract(t *testing.T) {
	a := MustParse("10.25")
	b := MustParse("20.50")

	if got := a.Add(b); got.String() != "30.75" {
		t.Errorf("Add = %s, want 30.75", got)
	}
	if got := a.Subtract(b); got.String() != "-10.25" {
		t.Errorf("Subtract = %s, want -10.25", got)
	}
}

func TestSubtractThenAddRoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "1000.00", "-3.33", "123456789.99", "0.5"}
	for _, x := range values {
		for _, y := range values {
			a, b := MustParse(x), MustParse(y)
			if got := a.Subtract(b).Add(b); !got.Equal(a) {
				t.Errorf("(%s - %s) + %s = %s, want %s", a, b, b, got, a)
			}
		}
	}
}

func TestMultiplyBy(t *testing.T) {
	tests := []struct {
		amount string
		factor string
		want   string
	}{
		{"100", "1.5", "150.00"},
		{"1000", "0.0004988785496361", "0.50"},
		{"33.33", "3", "99.99"},
		{"10", "0.0025", "0.02"},
		{"10", "0.0015", "0.02"},
		{"10", "0", "0.00"},
	}
	for _, tt := range tests {
		got := MustParse(tt.amount).MultiplyBy(decimal.RequireFromString(tt.factor))
		if got.String() != tt.want {
			t.Errorf("%s * %s = %s, want %s", tt.amount, tt.factor, got, tt.want)
		}
	}
}

func TestDivideBy(t *testing.T) {
	got, err := MustParse("100").DivideBy(decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("DivideBy unexpected error: %v", err)
	}
	if got.String() != "33.33" {
		t.Errorf("100 / 3 = %s, want 33.33", got)
	}

	_, err = MustParse("100").DivideBy(decimal.Zero)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("DivideBy(0) error = %v, want ErrDivisionByZero", err)
	}
}

func TestMinMax(t *testing.T) {
	a := MustParse("5.00")
	b := MustParse("7.50")
	if !a.Min(b).Equal(a) || !b.Min(a).Equal(a) {
		t.Error("Min did not return the smaller value")
	}
	if !a.Max(b).Equal(b) || !b.Max(a).Equal(b) {
		t.Error("Max did not return the larger value")
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); !got.IsZero() {
		t.Errorf("Sum() = %s, want 0.00", got)
	}
	if got := Sum(MustParse("1.10"), MustParse("2.20"), MustParse("3.30")); got.String() != "6.60" {
		t.Errorf("Sum = %s, want 6.60", got)
	}
}

// ---------------------------------------------------------------------------
// Comparisons
// ---------------------------------------------------------------------------

func TestComparisons(t *testing.T) {
	small := MustParse("1.00")
	big := MustParse("2.00")

	if small.Cmp(big) != -1 || big.Cmp(small) != 1 || small.Cmp(small) != 0 {
		t.Error("Cmp returned unexpected ordering")
	}
	if !small.LessThan(big) || small.GreaterThan(big) {
		t.Error("LessThan/GreaterThan inconsistent")
	}
	if !small.LessThanOrEqual(small) || !big.GreaterThanOrEqual(big) {
		t.Error("OrEqual comparisons failed on equal values")
	}
	if !MustParse("1").Equal(MustParse("1.000")) {
		t.Error("Equal should ignore input scale")
	}
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func TestJSON(t *testing.T) {
	data, err := json.Marshal(MustParse("12.5"))
	if err != nil {
		t.Fatalf("Marshal unexpected error: %v", err)
	}
	if string(data) != `"12.50"` {
		t.Errorf("Marshal = %s, want \"12.50\"", data)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"3.14159"`), &m); err != nil {
		t.Fatalf("Unmarshal unexpected error: %v", err)
	}
	if m.String() != "3.14" {
		t.Errorf("Unmarshal = %s, want 3.14", m)
	}
}
