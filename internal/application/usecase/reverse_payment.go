package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/port"
)

// ReversePaymentUseCase reopens a paid installment from its amortization record.
type ReversePaymentUseCase struct {
	committer
	records port.AmortizationRecordRepository
}

// NewReversePaymentUseCase wires dependencies.
func NewReversePaymentUseCase(
	repo port.PortfolioRepository,
	records port.AmortizationRecordRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *ReversePaymentUseCase {
	return &ReversePaymentUseCase{
		committer: newCommitter(repo, publisher, metrics),
		records:   records,
	}
}

// Execute restores the balances documented by the record.
func (uc *ReversePaymentUseCase) Execute(
	ctx context.Context,
	req dto.ReversePaymentRequest,
) (dto.InstallmentResponse, error) {
	ctx, span := startSpan(ctx, "ReversePayment", req.PortfolioID)
	defer span.End()
	span.SetAttributes(attribute.String("record.id", req.RecordID))

	// 1. Retrieve the record and the portfolio.
	rec, err := uc.records.FindByID(ctx, req.PortfolioID, req.RecordID)
	if err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "reverse_payment", fmt.Errorf("find record: %w", err))
	}
	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "reverse_payment", fmt.Errorf("find portfolio: %w", err))
	}

	// 2. Reverse.
	if err := p.Reverse(rec, referenceDate(req.ReferenceDate)); err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "reverse_payment", fmt.Errorf("reverse payment: %w", err))
	}

	// 3. Persist and publish.
	if err := uc.commit(ctx, p, nil); err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "reverse_payment", err)
	}

	inst, err := p.Installment(rec.InstallmentNumber())
	if err != nil {
		return dto.InstallmentResponse{}, err
	}
	return toInstallmentResponse(inst), nil
}
