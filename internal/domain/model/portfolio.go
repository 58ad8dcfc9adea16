package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/events"
	"github.com/bibbank/installments/pkg/money"
)

// MaxInstallments is the largest schedule a portfolio can hold.
const MaxInstallments = valueobject.MaxInstallmentNumber

// ---------------------------------------------------------------------------
// Portfolio aggregate root
// ---------------------------------------------------------------------------

// Portfolio owns the installment schedule of one contract together with the
// policies of its product recipe. Once generated, the schedule keeps its
// shape; only the installments themselves change.
type Portfolio struct {
	events.EventCollector

	id           string
	productType  valueobject.ProductType
	monthlyRate  decimal.Decimal
	conditions   Conditions
	recipe       Recipe
	installments []*Installment
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// PaymentBatch is the outcome of a payment spread over several installments.
type PaymentBatch struct {
	Records   []AmortizationRecord
	Unapplied money.Money
}

// Valuation is the value of every installment at a reference date.
type Valuation struct {
	ReferenceDate time.Time
	Installments  []InstallmentValuation
	Outstanding   money.Money
	CurrentValue  money.Money
}

// InstallmentValuation is the value of one installment at a reference date.
type InstallmentValuation struct {
	Number       valueobject.InstallmentNumber
	DueDate      time.Time
	Status       valueobject.InstallmentStatus
	Outstanding  money.Money
	CurrentValue money.Money
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewPortfolio creates an empty portfolio. The schedule is added with
// GenerateSchedule.
func NewPortfolio(
	productType valueobject.ProductType,
	monthlyRate decimal.Decimal,
	conditions Conditions,
	recipe Recipe,
	now time.Time,
) (*Portfolio, error) {
	if productType.IsZero() {
		return nil, valueobject.ErrUnknownProduct
	}
	if monthlyRate.IsNegative() {
		return nil, fmt.Errorf("monthly rate %s: %w", monthlyRate, ErrNegativeValue)
	}
	if recipe.Creation == nil || recipe.Distribution == nil {
		return nil, fmt.Errorf("%w: incomplete recipe for %s", valueobject.ErrUnknownProduct, productType)
	}
	return &Portfolio{
		id:          uuid.New().String(),
		productType: productType,
		monthlyRate: monthlyRate,
		conditions:  conditions,
		recipe:      recipe,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructPortfolio rebuilds a portfolio from persistence. Installments
// are kept in ascending number order.
func ReconstructPortfolio(
	id string,
	productType valueobject.ProductType,
	monthlyRate decimal.Decimal,
	conditions Conditions,
	recipe Recipe,
	installments []*Installment,
	version int,
	createdAt, updatedAt time.Time,
) *Portfolio {
	sorted := slices.Clone(installments)
	slices.SortFunc(sorted, func(a, b *Installment) int { return a.number.Int() - b.number.Int() })
	return &Portfolio{
		id:           id,
		productType:  productType,
		monthlyRate:  monthlyRate,
		conditions:   conditions,
		recipe:       recipe,
		installments: sorted,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Schedule
// ---------------------------------------------------------------------------

// GenerateSchedule creates one installment per command, numbered from 1.
// It runs at most once and either creates every installment or none.
func (p *Portfolio) GenerateSchedule(cmds []InstallmentCommand, ref time.Time) error {
	if len(p.installments) > 0 {
		return ErrScheduleAlreadyGenerated
	}
	if len(cmds) == 0 {
		return ErrEmptySchedule
	}
	if len(cmds) > MaxInstallments {
		return fmt.Errorf("%w: got %d", ErrTooManyInstallments, len(cmds))
	}

	created := make([]*Installment, 0, len(cmds))
	total := money.Zero
	for idx, cmd := range cmds {
		inst, err := p.recipe.Creation.Create(cmd, idx+1, ref)
		if err != nil {
			return fmt.Errorf("create installment %d: %w", idx+1, err)
		}
		created = append(created, inst)
		total = total.Add(inst.totalValue)
	}

	p.installments = created
	p.updatedAt = ref
	p.Record(event.NewScheduleGenerated(p.id, p.productType.String(), len(created), total, ref))
	return nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// PaySingle pays one installment. When the payment amortized principal and
// the recipe has a recalculation strategy, the installments after it that are
// still OPEN at ref are recalculated over their remaining principal. Overdue
// installments keep their split.
func (p *Portfolio) PaySingle(
	number valueobject.InstallmentNumber,
	payment valueobject.Payment,
	ref time.Time,
) (AmortizationRecord, error) {
	inst, err := p.Installment(number)
	if err != nil {
		return AmortizationRecord{}, err
	}
	rec, err := p.pay(inst, payment, ref)
	if err != nil {
		return AmortizationRecord{}, err
	}
	if rec.AppliedTo(valueobject.ComponentPrincipal).IsPositive() {
		if err := p.recalculateAfter(number, ref); err != nil {
			return rec, fmt.Errorf("recalculate schedule: %w", err)
		}
	}
	return rec, nil
}

// PayMultiple pays each selected installment exactly its amount due. The
// payment must cover the sum of those amounts; the excess is reported as
// unapplied. Nothing changes when validation fails.
func (p *Portfolio) PayMultiple(
	numbers []valueobject.InstallmentNumber,
	payment valueobject.Payment,
	ref time.Time,
) (PaymentBatch, error) {
	selected := make([]*Installment, 0, len(numbers))
	seen := make(map[valueobject.InstallmentNumber]bool, len(numbers))
	due := money.Zero
	for _, n := range numbers {
		if seen[n] {
			return PaymentBatch{}, fmt.Errorf("%w: %d", ErrDuplicateInstallment, n)
		}
		seen[n] = true
		inst, err := p.Installment(n)
		if err != nil {
			return PaymentBatch{}, err
		}
		if !inst.effectiveStatus(ref).IsPayable() {
			return PaymentBatch{}, fmt.Errorf("%w: installment %d is %s",
				valueobject.ErrInvalidStatusTransition, n, inst.status)
		}
		selected = append(selected, inst)
		due = due.Add(inst.AmountDue(ref, p.conditions))
	}
	if payment.Amount().LessThan(due) {
		return PaymentBatch{}, fmt.Errorf("%w: paid %s, due %s", ErrInsufficientPayment, payment.Amount(), due)
	}

	batch := PaymentBatch{Unapplied: payment.Amount().Subtract(due)}
	for _, inst := range selected {
		amount := inst.AmountDue(ref, p.conditions)
		if !amount.IsPositive() {
			continue
		}
		rec, err := p.pay(inst, payment.WithAmount(amount), ref)
		if err != nil {
			return batch, err
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

// PayByLumpSum walks the payable installments in ascending number order and
// pays each min(remaining, amount due) until the payment is exhausted. The
// leftover is reported as unapplied.
func (p *Portfolio) PayByLumpSum(payment valueobject.Payment, ref time.Time) (PaymentBatch, error) {
	remaining := payment.Amount()
	var records []AmortizationRecord
	for _, inst := range p.installments {
		if !remaining.IsPositive() {
			break
		}
		if !inst.effectiveStatus(ref).IsPayable() {
			continue
		}
		amount := remaining.Min(inst.AmountDue(ref, p.conditions))
		if !amount.IsPositive() {
			continue
		}
		rec, err := p.pay(inst, payment.WithAmount(amount), ref)
		if err != nil {
			return PaymentBatch{Records: records, Unapplied: remaining}, err
		}
		records = append(records, rec)
		remaining = remaining.Subtract(amount).Add(rec.AmountNotUsed())
	}
	return PaymentBatch{Records: records, Unapplied: remaining}, nil
}

func (p *Portfolio) pay(inst *Installment, payment valueobject.Payment, ref time.Time) (AmortizationRecord, error) {
	rec, err := inst.Pay(payment, p.recipe.Distribution, p.conditions, ref)
	if err != nil {
		return AmortizationRecord{}, err
	}
	p.updatedAt = ref
	p.Record(event.NewPaymentApplied(
		p.id, inst.number.Int(), rec.ID(),
		payment.Amount(), rec.AmountApplied(), rec.AmountNotUsed(),
		rec.StrategyName(), ref,
	))
	if inst.status == valueobject.InstallmentStatusPaid {
		p.Record(event.NewInstallmentPaid(p.id, inst.number.Int(), ref))
	}
	return rec, nil
}

func (p *Portfolio) recalculateAfter(number valueobject.InstallmentNumber, ref time.Time) error {
	if p.recipe.Recalculation == nil {
		return nil
	}
	remaining := money.Zero
	for _, inst := range p.installments {
		if inst.number > number && inst.effectiveStatus(ref) == valueobject.InstallmentStatusOpen {
			remaining = remaining.Add(inst.balanceOf(valueobject.ComponentPrincipal))
		}
	}
	rebuilt, err := p.recipe.Recalculation.Recalculate(p.Installments(), number, remaining, p.monthlyRate, ref)
	if err != nil {
		return err
	}
	if len(rebuilt) == 0 {
		return nil
	}
	byNumber := make(map[valueobject.InstallmentNumber]*Installment, len(rebuilt))
	for _, inst := range rebuilt {
		byNumber[inst.number] = inst
	}
	for idx, inst := range p.installments {
		if next, ok := byNumber[inst.number]; ok {
			p.installments[idx] = next
		}
	}
	p.Record(event.NewScheduleRecalculated(p.id, number.Int(), remaining, len(rebuilt), ref))
	return nil
}

// ---------------------------------------------------------------------------
// Cancellation and reversal
// ---------------------------------------------------------------------------

// Cancel cancels one installment.
func (p *Portfolio) Cancel(number valueobject.InstallmentNumber, ref time.Time) error {
	inst, err := p.Installment(number)
	if err != nil {
		return err
	}
	outstanding := inst.OutstandingBalance()
	if err := inst.Cancel(ref); err != nil {
		return err
	}
	p.updatedAt = ref
	p.Record(event.NewInstallmentCancelled(p.id, number.Int(), outstanding, ref))
	return nil
}

// Reverse undoes the payment documented by rec on its installment.
func (p *Portfolio) Reverse(rec AmortizationRecord, now time.Time) error {
	inst, err := p.Installment(rec.InstallmentNumber())
	if err != nil {
		return err
	}
	if err := inst.Reverse(rec, now); err != nil {
		return err
	}
	p.updatedAt = now
	p.Record(event.NewPaymentReversed(p.id, inst.number.Int(), rec.ID(), inst.status.String(), now))
	return nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Valuation values every installment at ref without changing anything.
func (p *Portfolio) Valuation(ref time.Time) Valuation {
	v := Valuation{
		ReferenceDate: ref,
		Installments:  make([]InstallmentValuation, 0, len(p.installments)),
		Outstanding:   money.Zero,
		CurrentValue:  money.Zero,
	}
	for _, inst := range p.installments {
		iv := InstallmentValuation{
			Number:       inst.number,
			DueDate:      inst.dueDate,
			Status:       inst.effectiveStatus(ref),
			Outstanding:  inst.OutstandingBalance(),
			CurrentValue: inst.CurrentValue(ref, p.conditions),
		}
		v.Installments = append(v.Installments, iv)
		if iv.Status.IsPayable() {
			v.Outstanding = v.Outstanding.Add(iv.Outstanding)
		}
		v.CurrentValue = v.CurrentValue.Add(iv.CurrentValue)
	}
	return v
}

// Installment returns the installment with the given number.
func (p *Portfolio) Installment(number valueobject.InstallmentNumber) (*Installment, error) {
	for _, inst := range p.installments {
		if inst.number == number {
			return inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrInstallmentNotFound, number)
}

// Installments returns the schedule in ascending number order. The slice is
// a copy; the installments are shared.
func (p *Portfolio) Installments() []*Installment {
	return slices.Clone(p.installments)
}

// IncrementVersion bumps the optimistic-lock version after a successful save.
func (p *Portfolio) IncrementVersion() { p.version++ }

func (p *Portfolio) ID() string                           { return p.id }
func (p *Portfolio) ProductType() valueobject.ProductType { return p.productType }
func (p *Portfolio) MonthlyRate() decimal.Decimal         { return p.monthlyRate }
func (p *Portfolio) Conditions() Conditions               { return p.conditions }
func (p *Portfolio) Recipe() Recipe                       { return p.recipe }
func (p *Portfolio) Version() int                         { return p.version }
func (p *Portfolio) CreatedAt() time.Time                 { return p.createdAt }
func (p *Portfolio) UpdatedAt() time.Time                 { return p.updatedAt }
