package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// CreatePortfolioUseCase creates a portfolio and generates its schedule.
type CreatePortfolioUseCase struct {
	committer
	factory *service.PortfolioFactory
}

// NewCreatePortfolioUseCase wires dependencies.
func NewCreatePortfolioUseCase(
	factory *service.PortfolioFactory,
	repo port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics port.PaymentMetrics,
) *CreatePortfolioUseCase {
	return &CreatePortfolioUseCase{
		committer: newCommitter(repo, publisher, metrics),
		factory:   factory,
	}
}

// Execute validates the contract terms, builds the portfolio and persists it.
func (uc *CreatePortfolioUseCase) Execute(
	ctx context.Context,
	req dto.CreatePortfolioRequest,
) (dto.PortfolioResponse, error) {
	ctx, span := startSpan(ctx, "CreatePortfolio", "")
	defer span.End()

	ref := referenceDate(req.ReferenceDate)

	// 1. Translate the contract terms.
	terms, err := portfolioTerms(req)
	if err != nil {
		return dto.PortfolioResponse{}, uc.fail(span, "create_portfolio", fmt.Errorf("parse terms: %w", err))
	}

	// 2. Build the portfolio and its schedule.
	p, err := uc.factory.Create(terms, ref)
	if err != nil {
		return dto.PortfolioResponse{}, uc.fail(span, "create_portfolio", fmt.Errorf("create portfolio: %w", err))
	}

	// 3. Persist and publish.
	if err := uc.commit(ctx, p, nil); err != nil {
		return dto.PortfolioResponse{}, uc.fail(span, "create_portfolio", err)
	}

	return toPortfolioResponse(p), nil
}

func portfolioTerms(req dto.CreatePortfolioRequest) (service.PortfolioTerms, error) {
	monthly, err := monthlyRate(req.InterestRate)
	if err != nil {
		return service.PortfolioTerms{}, fmt.Errorf("interest rate: %w", err)
	}
	moratory, err := rate(req.MoratoryRate)
	if err != nil {
		return service.PortfolioTerms{}, fmt.Errorf("moratory rate: %w", err)
	}
	discount, err := rate(req.DiscountRate)
	if err != nil {
		return service.PortfolioTerms{}, fmt.Errorf("discount rate: %w", err)
	}
	kind, err := valueobject.NewPenaltyKind(req.PenaltyKind)
	if err != nil {
		return service.PortfolioTerms{}, err
	}
	penaltyRate, err := money.NewRateFromPercentage(req.PenaltyRate, money.Daily)
	if err != nil {
		return service.PortfolioTerms{}, fmt.Errorf("penalty rate: %w", err)
	}
	charges, err := valueobject.NewChargeParameters(moratory, kind, req.FixedPenalty, penaltyRate)
	if err != nil {
		return service.PortfolioTerms{}, err
	}

	cmds := make([]model.InstallmentCommand, len(req.Installments))
	for i, inst := range req.Installments {
		components := make([]model.ComponentCommand, len(inst.Components))
		for j, c := range inst.Components {
			components[j] = model.ComponentCommand{Type: c.Type, Value: c.Value}
		}
		cmds[i] = model.InstallmentCommand{
			DueDate:    inst.DueDate,
			TotalValue: inst.TotalValue,
			Components: components,
		}
	}

	return service.PortfolioTerms{
		ProductType:    req.ProductType,
		MonthlyRate:    monthly,
		ChargeParams:   charges,
		DiscountParams: valueobject.NewDiscountParameters(discount),
		Installments:   cmds,
	}, nil
}

// rate converts a quoted percentage into a Rate. An empty request is 0%.
func rate(r dto.RateRequest) (money.Rate, error) {
	if r.Periodicity == "" && r.Percentage.IsZero() {
		return money.ZeroRate, nil
	}
	p, err := money.NewPeriodicity(r.Periodicity)
	if err != nil {
		return money.Rate{}, err
	}
	return money.NewRateFromPercentage(r.Percentage, p)
}

// monthlyRate is the contract rate per month as a fraction. Monthly quotes
// are taken as is; other periodicities go through the daily rate.
func monthlyRate(r dto.RateRequest) (decimal.Decimal, error) {
	if r.Periodicity == "MONTHLY" {
		if r.Percentage.IsNegative() {
			return decimal.Decimal{}, money.ErrInvalidRate
		}
		return r.Percentage.Div(decimal.NewFromInt(100)), nil
	}
	rt, err := rate(r)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return rt.Monthly().Round(10), nil
}
