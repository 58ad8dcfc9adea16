package model

import (
	"fmt"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Component entity
// ---------------------------------------------------------------------------

// Component is one typed balance of an installment. Its type never changes;
// the balance only moves through ReduceBy, MergeWith and SetBalance and is
// never negative.
type Component struct {
	ctype    valueobject.ComponentType
	original money.Money
	balance  money.Money
}

var componentRules = []Rule[Component]{
	{Violated: func(c Component) bool { return c.ctype.IsZero() }, Err: ErrMissingComponentType},
	{Violated: func(c Component) bool { return c.original.IsNegative() }, Err: ErrNegativeValue},
}

// NewComponent creates a component whose balance starts at its original value.
func NewComponent(t valueobject.ComponentType, value money.Money) (*Component, error) {
	c := Component{ctype: t, original: value, balance: value}
	if err := Validate(c, componentRules); err != nil {
		return nil, fmt.Errorf("component %s: %w", t, err)
	}
	return &c, nil
}

// ReconstructComponent rebuilds a component from persistence.
func ReconstructComponent(t valueobject.ComponentType, original, balance money.Money) *Component {
	return &Component{ctype: t, original: original, balance: balance}
}

// ReduceBy applies min(amount, balance) to the balance and returns the part
// of amount that was not absorbed.
func (c *Component) ReduceBy(amount money.Money) money.Money {
	if !amount.IsPositive() {
		return amount
	}
	applied := amount.Min(c.balance)
	c.balance = c.balance.Subtract(applied)
	return amount.Subtract(applied)
}

// MergeWith folds other's balance into c. Both must have the same type.
func (c *Component) MergeWith(other *Component) error {
	if !c.ctype.Equal(other.ctype) {
		return fmt.Errorf("%w: %s and %s", ErrComponentTypeMismatch, c.ctype, other.ctype)
	}
	c.balance = c.balance.Add(other.balance)
	return nil
}

// SetBalance overwrites the balance.
func (c *Component) SetBalance(v money.Money) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s %s", ErrNegativeBalance, c.ctype, v)
	}
	c.balance = v
	return nil
}

func (c *Component) Type() valueobject.ComponentType { return c.ctype }
func (c *Component) OriginalValue() money.Money      { return c.original }
func (c *Component) Balance() money.Money            { return c.balance }

// View returns a read-only snapshot of the component.
func (c *Component) View() ComponentView {
	return ComponentView{Type: c.ctype, OriginalValue: c.original, Balance: c.balance}
}

func (c *Component) clone() *Component {
	cp := *c
	return &cp
}

// ---------------------------------------------------------------------------
// Read-only views
// ---------------------------------------------------------------------------

// ComponentView is an immutable snapshot of one component.
type ComponentView struct {
	Type          valueobject.ComponentType
	OriginalValue money.Money
	Balance       money.Money
}

// ComponentsView indexes component snapshots by type.
type ComponentsView map[valueobject.ComponentType]ComponentView

// Balance returns the balance of the given type, zero when absent.
func (v ComponentsView) Balance(t valueobject.ComponentType) money.Money {
	if c, ok := v[t]; ok {
		return c.Balance
	}
	return money.Zero
}

// Has reports whether a component of the given type exists.
func (v ComponentsView) Has(t valueobject.ComponentType) bool {
	_, ok := v[t]
	return ok
}

// WithBalance returns a copy of v with the balance of t replaced.
func (v ComponentsView) WithBalance(t valueobject.ComponentType, balance money.Money) ComponentsView {
	out := make(ComponentsView, len(v))
	for k, c := range v {
		out[k] = c
	}
	c := out[t]
	c.Type = t
	c.Balance = balance
	out[t] = c
	return out
}

// Total sums every balance in the view.
func (v ComponentsView) Total() money.Money {
	total := money.Zero
	for _, c := range v {
		total = total.Add(c.Balance)
	}
	return total
}
