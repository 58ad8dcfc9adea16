package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Pluggable policies held by a portfolio
// ---------------------------------------------------------------------------

// ChargesCalculator computes late-payment charges.
type ChargesCalculator interface {
	Interest(principal money.Money, params valueobject.ChargeParameters, daysOverdue int) money.Money
	Penalty(view ComponentsView, params valueobject.ChargeParameters, daysOverdue int) money.Money
}

// DiscountCalculator computes the discount granted for paying early.
type DiscountCalculator interface {
	Discount(principal money.Money, params valueobject.DiscountParameters, daysEarly int) money.Money
}

// Conditions bundles the contractual charge and discount policies. A nil
// calculator contributes nothing.
type Conditions struct {
	Charges        ChargesCalculator
	ChargeParams   valueobject.ChargeParameters
	Discount       DiscountCalculator
	DiscountParams valueobject.DiscountParameters
}

func (c Conditions) interest(principal money.Money, days int) money.Money {
	if c.Charges == nil {
		return money.Zero
	}
	return c.Charges.Interest(principal, c.ChargeParams, days)
}

func (c Conditions) penalty(view ComponentsView, days int) money.Money {
	if c.Charges == nil {
		return money.Zero
	}
	return c.Charges.Penalty(view, c.ChargeParams, days)
}

func (c Conditions) discount(principal money.Money, days int) money.Money {
	if c.Discount == nil {
		return money.Zero
	}
	return c.Discount.Discount(principal, c.DiscountParams, days)
}

// ComponentCommand describes one component of an installment to create.
type ComponentCommand struct {
	Type  string
	Value money.Money
}

// InstallmentCommand describes an installment to create. The installment
// number is assigned by the portfolio.
type InstallmentCommand struct {
	DueDate    time.Time
	TotalValue money.Money
	Components []ComponentCommand
}

// CreationStrategy validates a command and builds an installment from it.
type CreationStrategy interface {
	Create(cmd InstallmentCommand, number int, ref time.Time) (*Installment, error)
}

// RecalculationStrategy rebuilds the installments after number that are
// still OPEN at ref once an extraordinary amortization left remaining
// principal outstanding. The returned installments replace the ones with the
// same numbers.
type RecalculationStrategy interface {
	Recalculate(
		installments []*Installment,
		amortized valueobject.InstallmentNumber,
		remaining money.Money,
		monthlyRate decimal.Decimal,
		ref time.Time,
	) ([]*Installment, error)
}

// Recipe is the set of policies a product type runs with. Recalculation is
// optional.
type Recipe struct {
	Creation      CreationStrategy
	Distribution  DistributionStrategy
	Recalculation RecalculationStrategy
}
