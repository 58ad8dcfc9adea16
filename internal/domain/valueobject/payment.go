package valueobject

import (
	"fmt"
	"time"

	"github.com/bibbank/installments/pkg/money"
)

// Payment is an immutable incoming payment: how much, when and how it was made.
type Payment struct {
	amount money.Money
	date   time.Time
	method string
}

// NewPayment creates a Payment. The amount must be positive.
func NewPayment(amount money.Money, date time.Time, method string) (Payment, error) {
	if !amount.IsPositive() {
		return Payment{}, fmt.Errorf("%w: %s", ErrNonPositivePayment, amount)
	}
	return Payment{amount: amount, date: date, method: method}, nil
}

// WithAmount returns a copy of p carrying a different amount, used when one
// payment is split across several installments.
func (p Payment) WithAmount(amount money.Money) Payment {
	p.amount = amount
	return p
}

func (p Payment) Amount() money.Money { return p.amount }
func (p Payment) Date() time.Time     { return p.date }
func (p Payment) Method() string      { return p.method }
