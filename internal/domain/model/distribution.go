package model

import (
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ApplicationDetail is how much of a payment one component absorbed.
type ApplicationDetail struct {
	Type          valueobject.ComponentType
	BalanceBefore money.Money
	AmountApplied money.Money
	BalanceAfter  money.Money
}

// DistributionPlan is a computed, not yet applied, allocation of a payment.
// The sum of all applied amounts plus Unapplied equals the payment amount.
type DistributionPlan struct {
	Details   []ApplicationDetail
	Unapplied money.Money
}

// TotalApplied sums the amounts applied across all details.
func (p DistributionPlan) TotalApplied() money.Money {
	total := money.Zero
	for _, d := range p.Details {
		total = total.Add(d.AmountApplied)
	}
	return total
}

// AppliedTo returns the amount applied to the given component type.
func (p DistributionPlan) AppliedTo(t valueobject.ComponentType) money.Money {
	total := money.Zero
	for _, d := range p.Details {
		if d.Type.Equal(t) {
			total = total.Add(d.AmountApplied)
		}
	}
	return total
}

// DistributionStrategy computes how a payment is spread over components.
// Implementations must not mutate anything.
type DistributionStrategy interface {
	Name() string
	Distribute(view ComponentsView, amount money.Money) DistributionPlan
}
