package service

import (
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// ChargesCalculator
// ---------------------------------------------------------------------------

// ChargesCalculator computes late interest and penalty.
type ChargesCalculator struct{}

// NewChargesCalculator returns a charges calculator.
func NewChargesCalculator() *ChargesCalculator {
	return &ChargesCalculator{}
}

// Interest compounds the moratory rate over daysOverdue on the principal balance.
func (*ChargesCalculator) Interest(principal money.Money, params valueobject.ChargeParameters, daysOverdue int) money.Money {
	if daysOverdue <= 0 {
		return money.Zero
	}
	return params.MoratoryRate().CompoundInterest(principal, daysOverdue)
}

// Penalty is the fixed penalty, or the penalty rate applied once to the
// PRINCIPAL plus INTEREST balances.
func (*ChargesCalculator) Penalty(view model.ComponentsView, params valueobject.ChargeParameters, daysOverdue int) money.Money {
	if daysOverdue <= 0 {
		return money.Zero
	}
	switch params.PenaltyKind() {
	case valueobject.PenaltyFixed:
		return params.FixedPenalty()
	case valueobject.PenaltyPercentage:
		base := view.Balance(valueobject.ComponentPrincipal).Add(view.Balance(valueobject.ComponentInterest))
		return params.PenaltyRate().Apply(base)
	default:
		return money.Zero
	}
}

// ---------------------------------------------------------------------------
// DiscountCalculator
// ---------------------------------------------------------------------------

// DiscountCalculator computes the discount for paying before the due date.
type DiscountCalculator struct{}

// NewDiscountCalculator returns a discount calculator.
func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Discount is simple, non-compounded interest at the discount rate over
// daysEarly, never more than the principal itself.
func (*DiscountCalculator) Discount(principal money.Money, params valueobject.DiscountParameters, daysEarly int) money.Money {
	if daysEarly <= 0 {
		return money.Zero
	}
	return params.DiscountRate().SimpleInterest(principal, daysEarly).Min(principal)
}
