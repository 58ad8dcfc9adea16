package model

import (
	"fmt"
	"time"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Lifecycle dispatch
// ---------------------------------------------------------------------------

type payRequest struct {
	payment  valueobject.Payment
	strategy DistributionStrategy
	cond     Conditions
	ref      time.Time
}

// stateBehavior is the per-status implementation of every state-dependent
// operation. Handlers run after the lazy OPEN -> OVERDUE check.
type stateBehavior struct {
	pay          func(i *Installment, req payRequest) (AmortizationRecord, error)
	cancel       func(i *Installment) error
	reverse      func(i *Installment, rec AmortizationRecord, now time.Time) error
	currentValue func(i *Installment, ref time.Time, cond Conditions) money.Money
}

var stateTable = map[valueobject.InstallmentStatus]stateBehavior{
	valueobject.InstallmentStatusOpen: {
		pay:          payOutstanding,
		cancel:       cancelOutstanding,
		reverse:      rejectReverse,
		currentValue: openValue,
	},
	valueobject.InstallmentStatusOverdue: {
		pay:          payOutstanding,
		cancel:       cancelOutstanding,
		reverse:      rejectReverse,
		currentValue: overdueValue,
	},
	valueobject.InstallmentStatusPaid: {
		pay:          rejectPay,
		cancel:       rejectCancel,
		reverse:      reversePaid,
		currentValue: settledValue,
	},
	valueobject.InstallmentStatusCancelled: {
		pay:          rejectPay,
		cancel:       rejectCancel,
		reverse:      rejectReverse,
		currentValue: settledValue,
	},
}

func behaviorOf(s valueobject.InstallmentStatus) (stateBehavior, error) {
	b, ok := stateTable[s]
	if !ok {
		return stateBehavior{}, fmt.Errorf("%w: unknown status %q", valueobject.ErrInvalidStatusTransition, s)
	}
	return b, nil
}

// effectiveStatus is the status after the lazy overdue check, without
// changing the installment.
func (i *Installment) effectiveStatus(ref time.Time) valueobject.InstallmentStatus {
	if i.status == valueobject.InstallmentStatusOpen && valueobject.CalendarDays(i.dueDate, ref) > 0 {
		return valueobject.InstallmentStatusOverdue
	}
	return i.status
}

func (i *Installment) refresh(ref time.Time) {
	i.status = i.effectiveStatus(ref)
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Pay applies payment using strategy. When overdue, pending interest and
// penalty are merged into INTEREST and PENALTY before the distribution is
// computed. The installment becomes PAID once every balance is zero.
// Either the whole plan is applied or nothing changes beyond the lazy
// overdue transition.
func (i *Installment) Pay(
	payment valueobject.Payment,
	strategy DistributionStrategy,
	cond Conditions,
	ref time.Time,
) (AmortizationRecord, error) {
	i.refresh(ref)
	b, err := behaviorOf(i.status)
	if err != nil {
		return AmortizationRecord{}, err
	}
	return b.pay(i, payRequest{payment: payment, strategy: strategy, cond: cond, ref: ref})
}

// Cancel moves an OPEN or OVERDUE installment to CANCELLED.
func (i *Installment) Cancel(ref time.Time) error {
	i.refresh(ref)
	b, err := behaviorOf(i.status)
	if err != nil {
		return err
	}
	return b.cancel(i)
}

// Reverse restores the balances recorded before rec was applied and reopens
// a PAID installment as OPEN or OVERDUE depending on now. rec must be the
// record of the payment that settled the installment.
func (i *Installment) Reverse(rec AmortizationRecord, now time.Time) error {
	b, err := behaviorOf(i.status)
	if err != nil {
		return err
	}
	return b.reverse(i, rec, now)
}

// CurrentValue values the installment at ref without changing it: the
// outstanding balance less the anticipation discount while OPEN, plus the
// pending charges while OVERDUE, and zero once PAID or CANCELLED.
func (i *Installment) CurrentValue(ref time.Time, cond Conditions) money.Money {
	b, err := behaviorOf(i.effectiveStatus(ref))
	if err != nil {
		return money.Zero
	}
	return b.currentValue(i, ref, cond)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func payOutstanding(i *Installment, req payRequest) (AmortizationRecord, error) {
	if req.strategy == nil {
		return AmortizationRecord{}, fmt.Errorf("installment %d: %w: no distribution strategy", i.number, ErrInvalidPlan)
	}

	interest, penalty := money.Zero, money.Zero
	if i.status == valueobject.InstallmentStatusOverdue {
		interest, penalty = i.pendingCharges(req.ref, req.cond)
	}

	view := i.View()
	if interest.IsPositive() {
		view = view.WithBalance(valueobject.ComponentInterest, view.Balance(valueobject.ComponentInterest).Add(interest))
	}
	if penalty.IsPositive() {
		view = view.WithBalance(valueobject.ComponentPenalty, view.Balance(valueobject.ComponentPenalty).Add(penalty))
	}

	amount := req.payment.Amount()
	plan := req.strategy.Distribute(view, amount)
	if err := checkPlan(view, plan, amount); err != nil {
		return AmortizationRecord{}, fmt.Errorf("installment %d: %w", i.number, err)
	}

	next := i.clone()
	if next.status == valueobject.InstallmentStatusOverdue {
		if err := next.mergeCharge(valueobject.ComponentInterest, interest); err != nil {
			return AmortizationRecord{}, fmt.Errorf("installment %d: %w", i.number, err)
		}
		if err := next.mergeCharge(valueobject.ComponentPenalty, penalty); err != nil {
			return AmortizationRecord{}, fmt.Errorf("installment %d: %w", i.number, err)
		}
		if req.ref.After(next.accruedThrough) {
			next.accruedThrough = req.ref
		}
		next.penaltyAssessed = true
	}
	for _, d := range plan.Details {
		if err := next.components[d.Type].SetBalance(d.BalanceAfter); err != nil {
			return AmortizationRecord{}, fmt.Errorf("installment %d: %w", i.number, err)
		}
	}
	if next.OutstandingBalance().IsZero() {
		next.status = valueobject.InstallmentStatusPaid
	}

	rec := NewAmortizationRecord(i.number, req.payment, req.strategy.Name(), plan, req.ref)
	next.lastRecordID = rec.ID()
	*i = *next
	return rec, nil
}

// checkPlan verifies plan against the view it was computed from before any
// balance is touched.
func checkPlan(view ComponentsView, plan DistributionPlan, amount money.Money) error {
	seen := make(map[valueobject.ComponentType]bool, len(plan.Details))
	for _, d := range plan.Details {
		c, ok := view[d.Type]
		switch {
		case !ok:
			return fmt.Errorf("%w: no %s component", ErrInvalidPlan, d.Type)
		case seen[d.Type]:
			return fmt.Errorf("%w: %s applied twice", ErrInvalidPlan, d.Type)
		case !d.BalanceBefore.Equal(c.Balance):
			return fmt.Errorf("%w: %s balance is %s, plan expects %s", ErrInvalidPlan, d.Type, c.Balance, d.BalanceBefore)
		case d.AmountApplied.IsNegative():
			return fmt.Errorf("%w: negative amount applied to %s", ErrInvalidPlan, d.Type)
		case d.BalanceAfter.IsNegative():
			return fmt.Errorf("%w: %s", ErrNegativeBalance, d.Type)
		case !d.BalanceBefore.Subtract(d.AmountApplied).Equal(d.BalanceAfter):
			return fmt.Errorf("%w: %s balances do not add up", ErrInvalidPlan, d.Type)
		}
		seen[d.Type] = true
	}
	if !plan.TotalApplied().Add(plan.Unapplied).Equal(amount) {
		return fmt.Errorf("%w: applied %s plus unapplied %s differs from payment %s",
			ErrInvalidPlan, plan.TotalApplied(), plan.Unapplied, amount)
	}
	return nil
}

func cancelOutstanding(i *Installment) error {
	i.status = valueobject.InstallmentStatusCancelled
	return nil
}

// reversePaid accepts only the record of the payment that settled the
// installment. The record is forgotten once reversed, so it cannot be
// reversed again.
func reversePaid(i *Installment, rec AmortizationRecord, now time.Time) error {
	if rec.InstallmentNumber() != i.number {
		return fmt.Errorf("%w: record %s is for installment %d, not %d",
			ErrRecordMismatch, rec.ID(), rec.InstallmentNumber(), i.number)
	}
	if i.lastRecordID == "" || rec.ID() != i.lastRecordID {
		return fmt.Errorf("%w: record %s is not the last payment of installment %d",
			ErrRecordMismatch, rec.ID(), i.number)
	}

	next := i.clone()
	for _, d := range rec.details {
		c, ok := next.components[d.Type]
		if !ok {
			return fmt.Errorf("%w: installment %d has no %s component", ErrRecordMismatch, i.number, d.Type)
		}
		if err := c.SetBalance(d.BalanceBefore); err != nil {
			return fmt.Errorf("installment %d: %w", i.number, err)
		}
	}
	next.status = valueobject.InstallmentStatusOpen
	next.lastRecordID = ""
	next.refresh(now)
	*i = *next
	return nil
}

func rejectPay(i *Installment, _ payRequest) (AmortizationRecord, error) {
	return AmortizationRecord{}, fmt.Errorf("%w: cannot pay %s installment %d",
		valueobject.ErrInvalidStatusTransition, i.status, i.number)
}

func rejectCancel(i *Installment) error {
	return fmt.Errorf("%w: cannot cancel %s installment %d",
		valueobject.ErrInvalidStatusTransition, i.status, i.number)
}

func rejectReverse(i *Installment, _ AmortizationRecord, _ time.Time) error {
	return fmt.Errorf("%w: cannot reverse %s installment %d",
		valueobject.ErrInvalidStatusTransition, i.status, i.number)
}

func openValue(i *Installment, ref time.Time, cond Conditions) money.Money {
	outstanding := i.OutstandingBalance()
	days := i.DaysToAnticipation(ref)
	if days == 0 {
		return outstanding
	}
	discount := cond.discount(i.balanceOf(valueobject.ComponentPrincipal), days)
	return outstanding.Subtract(discount.Min(outstanding))
}

func overdueValue(i *Installment, ref time.Time, cond Conditions) money.Money {
	interest, penalty := i.pendingCharges(ref, cond)
	return i.OutstandingBalance().Add(interest).Add(penalty)
}

func settledValue(*Installment, time.Time, Conditions) money.Money {
	return money.Zero
}
