package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// CancelInstallmentUseCase cancels one installment.
type CancelInstallmentUseCase struct {
	committer
}

// NewCancelInstallmentUseCase wires dependencies.
func NewCancelInstallmentUseCase(
	repo port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *CancelInstallmentUseCase {
	return &CancelInstallmentUseCase{committer: newCommitter(repo, publisher, metrics)}
}

// Execute cancels the installment and returns its new state.
func (uc *CancelInstallmentUseCase) Execute(
	ctx context.Context,
	req dto.CancelInstallmentRequest,
) (dto.InstallmentResponse, error) {
	ctx, span := startSpan(ctx, "CancelInstallment", req.PortfolioID)
	defer span.End()

	number, err := valueobject.NewInstallmentNumber(req.Number)
	if err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "cancel_installment", err)
	}

	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "cancel_installment", fmt.Errorf("find portfolio: %w", err))
	}

	if err := p.Cancel(number, referenceDate(req.ReferenceDate)); err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "cancel_installment", fmt.Errorf("cancel installment: %w", err))
	}

	if err := uc.commit(ctx, p, nil); err != nil {
		return dto.InstallmentResponse{}, uc.fail(span, "cancel_installment", err)
	}

	inst, err := p.Installment(number)
	if err != nil {
		return dto.InstallmentResponse{}, err
	}
	return toInstallmentResponse(inst), nil
}
