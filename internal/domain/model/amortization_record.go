package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// AmortizationRecord: immutable audit entry
// ---------------------------------------------------------------------------

// AmortizationRecord documents one payment applied to one installment. It is
// kept by the caller so the payment can later be reversed.
type AmortizationRecord struct {
	id                string
	installmentNumber valueobject.InstallmentNumber
	recordedAt        time.Time
	payment           valueobject.Payment
	strategyName      string
	details           []ApplicationDetail
	amountNotUsed     money.Money
}

// NewAmortizationRecord creates a record from an applied plan.
func NewAmortizationRecord(
	number valueobject.InstallmentNumber,
	payment valueobject.Payment,
	strategyName string,
	plan DistributionPlan,
	recordedAt time.Time,
) AmortizationRecord {
	details := make([]ApplicationDetail, len(plan.Details))
	copy(details, plan.Details)
	return AmortizationRecord{
		id:                uuid.New().String(),
		installmentNumber: number,
		recordedAt:        recordedAt,
		payment:           payment,
		strategyName:      strategyName,
		details:           details,
		amountNotUsed:     plan.Unapplied,
	}
}

// ReconstructAmortizationRecord rebuilds a record from persistence.
func ReconstructAmortizationRecord(
	id string,
	number valueobject.InstallmentNumber,
	recordedAt time.Time,
	payment valueobject.Payment,
	strategyName string,
	details []ApplicationDetail,
	amountNotUsed money.Money,
) AmortizationRecord {
	return AmortizationRecord{
		id:                id,
		installmentNumber: number,
		recordedAt:        recordedAt,
		payment:           payment,
		strategyName:      strategyName,
		details:           details,
		amountNotUsed:     amountNotUsed,
	}
}

func (r AmortizationRecord) ID() string                   { return r.id }
func (r AmortizationRecord) RecordedAt() time.Time        { return r.recordedAt }
func (r AmortizationRecord) Payment() valueobject.Payment { return r.payment }
func (r AmortizationRecord) StrategyName() string         { return r.strategyName }
func (r AmortizationRecord) AmountNotUsed() money.Money   { return r.amountNotUsed }

func (r AmortizationRecord) InstallmentNumber() valueobject.InstallmentNumber {
	return r.installmentNumber
}

// Details returns a copy of the per-component application details.
func (r AmortizationRecord) Details() []ApplicationDetail {
	out := make([]ApplicationDetail, len(r.details))
	copy(out, r.details)
	return out
}

// AmountApplied sums what the payment settled across all components.
func (r AmortizationRecord) AmountApplied() money.Money {
	return DistributionPlan{Details: r.details}.TotalApplied()
}

// AppliedTo returns the amount settled on one component type.
func (r AmortizationRecord) AppliedTo(t valueobject.ComponentType) money.Money {
	return DistributionPlan{Details: r.details}.AppliedTo(t)
}
