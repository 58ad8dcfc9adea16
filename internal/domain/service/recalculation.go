package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// PriceRecalculator: French amortization
// ---------------------------------------------------------------------------

// PriceRecalculator re-splits the open installments after an extraordinary
// amortization into constant payments:
//
//	PMT         = P * i(1+i)^n / ((1+i)^n - 1)
//	interest_j  = balance_j * i
//	principal_j = PMT - interest_j
//
// The last installment takes whatever principal is left so the principals
// add up to P exactly.
type PriceRecalculator struct{}

// NewPriceRecalculator returns a Price table recalculator.
func NewPriceRecalculator() *PriceRecalculator {
	return &PriceRecalculator{}
}

// Recalculate returns replacements for every installment numbered after
// amortized that is still OPEN at ref, or nothing when there are none.
func (*PriceRecalculator) Recalculate(
	installments []*model.Installment,
	amortized valueobject.InstallmentNumber,
	remaining money.Money,
	monthlyRate decimal.Decimal,
	ref time.Time,
) ([]*model.Installment, error) {
	var future []*model.Installment
	for _, inst := range installments {
		if inst.Number() > amortized && inst.StatusAt(ref) == valueobject.InstallmentStatusOpen {
			future = append(future, inst)
		}
	}
	if len(future) == 0 {
		return nil, nil
	}
	slices.SortFunc(future, func(a, b *model.Installment) int { return a.Number().Int() - b.Number().Int() })

	payment, err := FixedPayment(remaining, monthlyRate, len(future))
	if err != nil {
		return nil, err
	}

	out := make([]*model.Installment, 0, len(future))
	balance := remaining
	for j, inst := range future {
		interest := balance.MultiplyBy(monthlyRate)
		principal := payment.Subtract(interest).Max(money.Zero).Min(balance)
		if j == len(future)-1 {
			principal = balance
		}
		next, err := inst.Resplit(principal, interest)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		balance = balance.Subtract(principal)
	}
	return out, nil
}

// FixedPayment is the constant Price payment for principal over n periods
// at rate i per period. A zero rate splits the principal evenly.
func FixedPayment(principal money.Money, i decimal.Decimal, n int) (money.Money, error) {
	if n <= 0 {
		return money.Money{}, fmt.Errorf("price payment: %d periods", n)
	}
	if i.IsNegative() {
		return money.Money{}, fmt.Errorf("price payment: negative rate %s", i)
	}
	if i.IsZero() {
		return principal.DivideBy(decimal.NewFromInt(int64(n)))
	}
	growth, err := decimal.NewFromInt(1).Add(i).PowInt32(int32(n))
	if err != nil {
		return money.Money{}, fmt.Errorf("price payment: %w", err)
	}
	factor := i.Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	return principal.MultiplyBy(factor), nil
}
