package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/port"
)

// GetPortfolioUseCase retrieves a portfolio and values it at a date.
type GetPortfolioUseCase struct {
	repo port.PortfolioRepository
}

// NewGetPortfolioUseCase wires dependencies.
func NewGetPortfolioUseCase(repo port.PortfolioRepository) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{repo: repo}
}

// Execute returns the portfolio and its valuation. Nothing is changed.
func (uc *GetPortfolioUseCase) Execute(
	ctx context.Context,
	req dto.GetPortfolioRequest,
) (dto.GetPortfolioResponse, error) {
	ctx, span := startSpan(ctx, "GetPortfolio", req.PortfolioID)
	defer span.End()

	p, err := uc.repo.FindByID(ctx, req.PortfolioID)
	if err != nil {
		span.RecordError(err)
		return dto.GetPortfolioResponse{}, fmt.Errorf("find portfolio: %w", err)
	}

	return dto.GetPortfolioResponse{
		Portfolio: toPortfolioResponse(p),
		Valuation: toValuationResponse(p.ID(), p.Valuation(referenceDate(req.ReferenceDate))),
	}, nil
}
