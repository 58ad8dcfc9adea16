package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// PayInstallmentUseCase applies a payment to one installment.
type PayInstallmentUseCase struct {
	committer
}

// NewPayInstallmentUseCase wires dependencies.
func NewPayInstallmentUseCase(
	repo port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *PayInstallmentUseCase {
	return &PayInstallmentUseCase{committer: newCommitter(repo, publisher, metrics)}
}

// Execute pays one installment and, when principal was amortized, lets the
// portfolio recalculate the rest of its schedule.
func (uc *PayInstallmentUseCase) Execute(
	ctx context.Context,
	req dto.PayInstallmentRequest,
) (dto.PaymentResponse, error) {
	ctx, span := startSpan(ctx, "PayInstallment", req.PortfolioID)
	defer span.End()
	span.SetAttributes(attribute.Int("installment.number", req.Number))

	ref := referenceDate(req.ReferenceDate)

	number, err := valueobject.NewInstallmentNumber(req.Number)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_installment", err)
	}
	payment, err := valueobject.NewPayment(req.Amount, ref, req.Method)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_installment", err)
	}

	// 1. Retrieve the portfolio.
	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_installment", fmt.Errorf("find portfolio: %w", err))
	}

	// 2. Apply the payment.
	rec, err := p.PaySingle(number, payment, ref)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_installment", fmt.Errorf("pay installment: %w", err))
	}

	// 3. Persist, publish and measure.
	records := []model.AmortizationRecord{rec}
	if err := uc.commit(ctx, p, records); err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_installment", err)
	}

	return dto.PaymentResponse{
		PortfolioID:  p.ID(),
		Records:      toRecordResponses(records),
		Unapplied:    rec.AmountNotUsed(),
		Installments: toInstallmentResponses(p.Installments()),
	}, nil
}
