package model

import (
	"fmt"
	"time"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Installment entity
// ---------------------------------------------------------------------------

// Installment is one scheduled obligation of a portfolio. It is mutated in
// place by payments, cancellation and reversal and is owned by exactly one
// Portfolio; callers serialize access per aggregate.
type Installment struct {
	number     valueobject.InstallmentNumber
	dueDate    time.Time
	totalValue money.Money
	components map[valueobject.ComponentType]*Component
	order      []valueobject.ComponentType
	status     valueobject.InstallmentStatus

	// accruedThrough is the last date whose late interest has been merged
	// into the INTEREST balance.
	accruedThrough  time.Time
	penaltyAssessed bool

	// lastRecordID identifies the record of the most recent payment. It is
	// empty before the first payment and after a reversal.
	lastRecordID string
}

type installmentDraft struct {
	number     int
	dueDate    time.Time
	ref        time.Time
	totalValue money.Money
	components []*Component
}

var installmentRules = []Rule[installmentDraft]{
	{
		Violated: func(d installmentDraft) bool {
			_, err := valueobject.NewInstallmentNumber(d.number)
			return err != nil
		},
		Err: valueobject.ErrInvalidInstallmentNumber,
	},
	{
		Violated: func(d installmentDraft) bool { return valueobject.CalendarDays(d.ref, d.dueDate) < 0 },
		Err:      ErrDueDateBeforeReference,
	},
	{
		Violated: func(d installmentDraft) bool { return d.totalValue.IsNegative() },
		Err:      ErrNegativeValue,
	},
	{
		Violated: func(d installmentDraft) bool { return len(d.components) == 0 },
		Err:      ErrEmptyComponents,
	},
	{
		Violated: func(d installmentDraft) bool {
			seen := make(map[valueobject.ComponentType]bool, len(d.components))
			for _, c := range d.components {
				if seen[c.ctype] {
					return true
				}
				seen[c.ctype] = true
			}
			return false
		},
		Err: ErrDuplicateComponent,
	},
	{
		Violated: func(d installmentDraft) bool {
			if len(d.components) == 0 {
				return false
			}
			present := make(map[valueobject.ComponentType]bool, len(d.components))
			for _, c := range d.components {
				present[c.ctype] = true
			}
			for _, t := range valueobject.EssentialComponents() {
				if !present[t] {
					return true
				}
			}
			return false
		},
		Err: ErrMissingEssentialComponent,
	},
}

// NewInstallment validates and creates an OPEN installment. Every violated
// rule is reported in the returned error.
func NewInstallment(
	number int,
	dueDate time.Time,
	totalValue money.Money,
	components []*Component,
	ref time.Time,
) (*Installment, error) {
	draft := installmentDraft{
		number:     number,
		dueDate:    dueDate,
		ref:        ref,
		totalValue: totalValue,
		components: components,
	}
	if err := Validate(draft, installmentRules); err != nil {
		return nil, fmt.Errorf("installment %d: %w", number, err)
	}
	i := newInstallment(valueobject.InstallmentNumber(number), dueDate, totalValue, components)
	i.status = valueobject.InstallmentStatusOpen
	return i, nil
}

// ReconstructInstallment rebuilds an installment from persistence.
func ReconstructInstallment(
	number valueobject.InstallmentNumber,
	dueDate time.Time,
	totalValue money.Money,
	components []*Component,
	status valueobject.InstallmentStatus,
	accruedThrough time.Time,
	penaltyAssessed bool,
	lastRecordID string,
) *Installment {
	i := newInstallment(number, dueDate, totalValue, components)
	i.status = status
	i.accruedThrough = accruedThrough
	i.penaltyAssessed = penaltyAssessed
	i.lastRecordID = lastRecordID
	return i
}

func newInstallment(
	number valueobject.InstallmentNumber,
	dueDate time.Time,
	totalValue money.Money,
	components []*Component,
) *Installment {
	i := &Installment{
		number:     number,
		dueDate:    dueDate,
		totalValue: totalValue,
		components: make(map[valueobject.ComponentType]*Component, len(components)),
	}
	for _, c := range components {
		i.addComponent(c)
	}
	return i
}

func (i *Installment) addComponent(c *Component) {
	if _, exists := i.components[c.ctype]; !exists {
		i.order = append(i.order, c.ctype)
	}
	i.components[c.ctype] = c
}

// Resplit returns a copy of the installment whose PRINCIPAL and INTEREST
// components are replaced by fresh ones with the given values. Every other
// component, the number, the due date and the declared total are kept.
func (i *Installment) Resplit(principal, interest money.Money) (*Installment, error) {
	if principal.IsNegative() || interest.IsNegative() {
		return nil, fmt.Errorf("installment %d: %w", i.number, ErrNegativeValue)
	}
	next := i.clone()
	next.addComponent(&Component{ctype: valueobject.ComponentPrincipal, original: principal, balance: principal})
	next.addComponent(&Component{ctype: valueobject.ComponentInterest, original: interest, balance: interest})
	return next, nil
}

func (i *Installment) clone() *Installment {
	next := *i
	next.components = make(map[valueobject.ComponentType]*Component, len(i.components))
	for t, c := range i.components {
		next.components[t] = c.clone()
	}
	next.order = make([]valueobject.ComponentType, len(i.order))
	copy(next.order, i.order)
	return &next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (i *Installment) Number() valueobject.InstallmentNumber { return i.number }
func (i *Installment) DueDate() time.Time                    { return i.dueDate }
func (i *Installment) TotalValue() money.Money               { return i.totalValue }
func (i *Installment) Status() valueobject.InstallmentStatus { return i.status }
func (i *Installment) AccruedThrough() time.Time             { return i.accruedThrough }
func (i *Installment) PenaltyAssessed() bool                 { return i.penaltyAssessed }
func (i *Installment) LastRecordID() string                  { return i.lastRecordID }

// StatusAt is the status at ref after the lazy overdue check. The
// installment is not changed.
func (i *Installment) StatusAt(ref time.Time) valueobject.InstallmentStatus {
	return i.effectiveStatus(ref)
}

// Components returns component snapshots in insertion order.
func (i *Installment) Components() []ComponentView {
	out := make([]ComponentView, 0, len(i.order))
	for _, t := range i.order {
		out = append(out, i.components[t].View())
	}
	return out
}

// Component returns the snapshot of one component.
func (i *Installment) Component(t valueobject.ComponentType) (ComponentView, bool) {
	c, ok := i.components[t]
	if !ok {
		return ComponentView{}, false
	}
	return c.View(), true
}

// View returns the read-only, type-indexed component view.
func (i *Installment) View() ComponentsView {
	v := make(ComponentsView, len(i.components))
	for t, c := range i.components {
		v[t] = c.View()
	}
	return v
}

// OutstandingBalance is the sum of all component balances.
func (i *Installment) OutstandingBalance() money.Money {
	total := money.Zero
	for _, c := range i.components {
		total = total.Add(c.balance)
	}
	return total
}

// DaysOverdue is the number of days ref is past the due date, or zero.
func (i *Installment) DaysOverdue(ref time.Time) int {
	return max(valueobject.CalendarDays(i.dueDate, ref), 0)
}

// DaysToAnticipation is the number of days ref precedes the due date, or zero.
func (i *Installment) DaysToAnticipation(ref time.Time) int {
	return max(valueobject.CalendarDays(ref, i.dueDate), 0)
}

// IsPayable reports whether payments can be applied in the current status.
func (i *Installment) IsPayable() bool { return i.status.IsPayable() }

// ---------------------------------------------------------------------------
// Charges
// ---------------------------------------------------------------------------

// pendingCharges returns the late interest and penalty that would be merged
// if the installment were paid at ref. Interest accrues only for the days
// after accruedThrough; the penalty is assessed once.
func (i *Installment) pendingCharges(ref time.Time, cond Conditions) (interest, penalty money.Money) {
	daysOverdue := i.DaysOverdue(ref)
	if daysOverdue == 0 {
		return money.Zero, money.Zero
	}
	from := i.dueDate
	if i.accruedThrough.After(from) {
		from = i.accruedThrough
	}
	interest = cond.interest(i.balanceOf(valueobject.ComponentPrincipal), valueobject.CalendarDays(from, ref))
	penalty = money.Zero
	if !i.penaltyAssessed {
		penalty = cond.penalty(i.View(), daysOverdue)
	}
	return interest.Max(money.Zero), penalty.Max(money.Zero)
}

// AmountDue is what settles the installment in full at ref: the outstanding
// balance plus pending charges. It is zero for PAID and CANCELLED.
func (i *Installment) AmountDue(ref time.Time, cond Conditions) money.Money {
	if !i.effectiveStatus(ref).IsPayable() {
		return money.Zero
	}
	interest, penalty := i.pendingCharges(ref, cond)
	return i.OutstandingBalance().Add(interest).Add(penalty)
}

func (i *Installment) balanceOf(t valueobject.ComponentType) money.Money {
	if c, ok := i.components[t]; ok {
		return c.balance
	}
	return money.Zero
}

func (i *Installment) mergeCharge(t valueobject.ComponentType, amount money.Money) error {
	if !amount.IsPositive() {
		return nil
	}
	charge := &Component{ctype: t, original: amount, balance: amount}
	if existing, ok := i.components[t]; ok {
		return existing.MergeWith(charge)
	}
	i.addComponent(charge)
	return nil
}
