package event

import (
	"time"

	"github.com/bibbank/installments/pkg/events"
	"github.com/bibbank/installments/pkg/money"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateType = "Portfolio"

// ---------------------------------------------------------------------------
// Portfolio Events
// ---------------------------------------------------------------------------

// ScheduleGenerated is raised when a portfolio's installments are created.
type ScheduleGenerated struct {
	events.BaseEvent
	ProductType      string      `json:"product_type"`
	InstallmentCount int         `json:"installment_count"`
	TotalValue       money.Money `json:"total_value"`
}

func NewScheduleGenerated(portfolioID, productType string, count int, total money.Money, now time.Time) ScheduleGenerated {
	return ScheduleGenerated{
		BaseEvent:        events.NewBaseEvent("installment.schedule.generated", portfolioID, aggregateType, now),
		ProductType:      productType,
		InstallmentCount: count,
		TotalValue:       total,
	}
}

// ScheduleRecalculated is raised when future installments are re-split after
// principal was amortized.
type ScheduleRecalculated struct {
	events.BaseEvent
	AmortizedInstallment int         `json:"amortized_installment"`
	RemainingPrincipal   money.Money `json:"remaining_principal"`
	RecalculatedCount    int         `json:"recalculated_count"`
}

func NewScheduleRecalculated(portfolioID string, amortized int, remaining money.Money, count int, now time.Time) ScheduleRecalculated {
	return ScheduleRecalculated{
		BaseEvent:            events.NewBaseEvent("installment.schedule.recalculated", portfolioID, aggregateType, now),
		AmortizedInstallment: amortized,
		RemainingPrincipal:   remaining,
		RecalculatedCount:    count,
	}
}

// ---------------------------------------------------------------------------
// Installment Events
// ---------------------------------------------------------------------------

// PaymentApplied is raised for every payment applied to an installment.
type PaymentApplied struct {
	events.BaseEvent
	InstallmentNumber int         `json:"installment_number"`
	RecordID          string      `json:"record_id"`
	PaymentAmount     money.Money `json:"payment_amount"`
	AmountApplied     money.Money `json:"amount_applied"`
	AmountUnapplied   money.Money `json:"amount_unapplied"`
	Strategy          string      `json:"strategy"`
}

func NewPaymentApplied(
	portfolioID string, number int, recordID string,
	payment, applied, unapplied money.Money,
	strategy string, now time.Time,
) PaymentApplied {
	return PaymentApplied{
		BaseEvent:         events.NewBaseEvent("installment.payment.applied", portfolioID, aggregateType, now),
		InstallmentNumber: number,
		RecordID:          recordID,
		PaymentAmount:     payment,
		AmountApplied:     applied,
		AmountUnapplied:   unapplied,
		Strategy:          strategy,
	}
}

// InstallmentPaid is raised when an installment's balances reach zero.
type InstallmentPaid struct {
	events.BaseEvent
	InstallmentNumber int `json:"installment_number"`
}

func NewInstallmentPaid(portfolioID string, number int, now time.Time) InstallmentPaid {
	return InstallmentPaid{
		BaseEvent:         events.NewBaseEvent("installment.paid", portfolioID, aggregateType, now),
		InstallmentNumber: number,
	}
}

// InstallmentCancelled is raised when an installment is cancelled.
type InstallmentCancelled struct {
	events.BaseEvent
	InstallmentNumber int         `json:"installment_number"`
	Outstanding       money.Money `json:"outstanding"`
}

func NewInstallmentCancelled(portfolioID string, number int, outstanding money.Money, now time.Time) InstallmentCancelled {
	return InstallmentCancelled{
		BaseEvent:         events.NewBaseEvent("installment.cancelled", portfolioID, aggregateType, now),
		InstallmentNumber: number,
		Outstanding:       outstanding,
	}
}

// PaymentReversed is raised when a paid installment is reopened from its record.
type PaymentReversed struct {
	events.BaseEvent
	InstallmentNumber int    `json:"installment_number"`
	RecordID          string `json:"record_id"`
	Status            string `json:"status"`
}

func NewPaymentReversed(portfolioID string, number int, recordID, status string, now time.Time) PaymentReversed {
	return PaymentReversed{
		BaseEvent:         events.NewBaseEvent("installment.payment.reversed", portfolioID, aggregateType, now),
		InstallmentNumber: number,
		RecordID:          recordID,
		Status:            status,
	}
}
