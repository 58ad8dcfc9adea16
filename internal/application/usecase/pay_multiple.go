package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// PayMultipleInstallmentsUseCase
// ---------------------------------------------------------------------------

// PayMultipleInstallmentsUseCase settles a selection of installments.
type PayMultipleInstallmentsUseCase struct {
	committer
}

// NewPayMultipleInstallmentsUseCase wires dependencies.
func NewPayMultipleInstallmentsUseCase(
	repo port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *PayMultipleInstallmentsUseCase {
	return &PayMultipleInstallmentsUseCase{committer: newCommitter(repo, publisher, metrics)}
}

// Execute settles every selected installment or none of them.
func (uc *PayMultipleInstallmentsUseCase) Execute(
	ctx context.Context,
	req dto.PayMultipleInstallmentsRequest,
) (dto.PaymentResponse, error) {
	ctx, span := startSpan(ctx, "PayMultipleInstallments", req.PortfolioID)
	defer span.End()

	ref := referenceDate(req.ReferenceDate)

	numbers := make([]valueobject.InstallmentNumber, len(req.Numbers))
	for i, n := range req.Numbers {
		number, err := valueobject.NewInstallmentNumber(n)
		if err != nil {
			return dto.PaymentResponse{}, uc.fail(span, "pay_multiple", err)
		}
		numbers[i] = number
	}
	payment, err := valueobject.NewPayment(req.Amount, ref, req.Method)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_multiple", err)
	}

	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_multiple", fmt.Errorf("find portfolio: %w", err))
	}

	batch, err := p.PayMultiple(numbers, payment, ref)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_multiple", fmt.Errorf("pay installments: %w", err))
	}

	if err := uc.commit(ctx, p, batch.Records); err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_multiple", err)
	}

	return dto.PaymentResponse{
		PortfolioID:  p.ID(),
		Records:      toRecordResponses(batch.Records),
		Unapplied:    batch.Unapplied,
		Installments: toInstallmentResponses(p.Installments()),
	}, nil
}

// ---------------------------------------------------------------------------
// PayLumpSumUseCase
// ---------------------------------------------------------------------------

// PayLumpSumUseCase spreads one payment over the schedule in number order.
type PayLumpSumUseCase struct {
	committer
}

// NewPayLumpSumUseCase wires dependencies.
func NewPayLumpSumUseCase(
	repo port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *PayLumpSumUseCase {
	return &PayLumpSumUseCase{committer: newCommitter(repo, publisher, metrics)}
}

// Execute pays the installments oldest first and reports what was left over.
func (uc *PayLumpSumUseCase) Execute(
	ctx context.Context,
	req dto.PayLumpSumRequest,
) (dto.PaymentResponse, error) {
	ctx, span := startSpan(ctx, "PayLumpSum", req.PortfolioID)
	defer span.End()

	ref := referenceDate(req.ReferenceDate)

	payment, err := valueobject.NewPayment(req.Amount, ref, req.Method)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_lump_sum", err)
	}

	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_lump_sum", fmt.Errorf("find portfolio: %w", err))
	}

	batch, err := p.PayByLumpSum(payment, ref)
	if err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_lump_sum", fmt.Errorf("pay lump sum: %w", err))
	}

	if err := uc.commit(ctx, p, batch.Records); err != nil {
		return dto.PaymentResponse{}, uc.fail(span, "pay_lump_sum", err)
	}

	return dto.PaymentResponse{
		PortfolioID:  p.ID(),
		Records:      toRecordResponses(batch.Records),
		Unapplied:    batch.Unapplied,
		Installments: toInstallmentResponses(p.Installments()),
	}, nil
}
