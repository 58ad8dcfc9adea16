package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
	"github.com/bibbank/installments/pkg/testutil"
)

// --- Mock implementations ---

type mockPortfolioRepository struct {
	saveFunc     func(ctx context.Context, p *model.Portfolio, records []model.AmortizationRecord) error
	findByIDFunc func(ctx context.Context, id string) (*model.Portfolio, error)
	saved        []*model.Portfolio
	savedRecords []model.AmortizationRecord
}

func (m *mockPortfolioRepository) Save(ctx context.Context, p *model.Portfolio, records []model.AmortizationRecord) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p, records)
	}
	m.saved = append(m.saved, p)
	m.savedRecords = append(m.savedRecords, records...)
	return nil
}

func (m *mockPortfolioRepository) FindByID(ctx context.Context, id string) (*model.Portfolio, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, model.ErrPortfolioNotFound
}

type mockRecordRepository struct {
	findByIDFunc          func(ctx context.Context, portfolioID, id string) (model.AmortizationRecord, error)
	findByInstallmentFunc func(ctx context.Context, portfolioID string, number int) ([]model.AmortizationRecord, error)
}

func (m *mockRecordRepository) FindByID(ctx context.Context, portfolioID, id string) (model.AmortizationRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, portfolioID, id)
	}
	return model.AmortizationRecord{}, model.ErrRecordNotFound
}

func (m *mockRecordRepository) FindByInstallment(ctx context.Context, portfolioID string, number int) ([]model.AmortizationRecord, error) {
	if m.findByInstallmentFunc != nil {
		return m.findByInstallmentFunc(ctx, portfolioID, number)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockMetrics struct {
	applied     []string
	transitions []string
	failures    []string
}

func (m *mockMetrics) PaymentApplied(_, strategy string, _, _ money.Money) {
	m.applied = append(m.applied, strategy)
}

func (m *mockMetrics) InstallmentTransitioned(_, status string) {
	m.transitions = append(m.transitions, status)
}

func (m *mockMetrics) OperationFailed(operation string) {
	m.failures = append(m.failures, operation)
}

// --- Fixtures ---

var (
	created  = testutil.Day(2026, time.January, 1)
	firstDue = testutil.Day(2026, time.February, 1)
)

// storedPortfolio is a PRE_FIXED_PARTIAL portfolio of four installments of
// 3000.00 principal and 60.00 interest, as it would come back from storage.
func storedPortfolio(t *testing.T) *model.Portfolio {
	t.Helper()
	params, err := valueobject.NewChargeParameters(
		money.NewDailyRate(decimal.RequireFromString("0.0004988785496361")),
		valueobject.PenaltyFixed,
		money.MustParse("20.00"),
		money.ZeroRate,
	)
	require.NoError(t, err)

	cmds := make([]model.InstallmentCommand, 0, 4)
	for m := 0; m < 4; m++ {
		cmds = append(cmds, model.InstallmentCommand{
			DueDate:    firstDue.AddDate(0, m, 0),
			TotalValue: money.MustParse("3060.00"),
			Components: []model.ComponentCommand{
				{Type: "PRINCIPAL", Value: money.MustParse("3000.00")},
				{Type: "INTEREST", Value: money.MustParse("60.00")},
			},
		})
	}

	factory := service.NewPortfolioFactory(service.NewRecipeBook())
	p, err := factory.Create(service.PortfolioTerms{
		ProductType:    "PRE_FIXED_PARTIAL",
		MonthlyRate:    decimal.RequireFromString("0.02"),
		ChargeParams:   params,
		DiscountParams: valueobject.NewDiscountParameters(money.ZeroRate),
		Installments:   cmds,
	}, created)
	require.NoError(t, err)
	p.ClearEvents()
	return p
}

func repoWith(p *model.Portfolio) *mockPortfolioRepository {
	return &mockPortfolioRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Portfolio, error) {
			if id != p.ID() {
				return nil, model.ErrPortfolioNotFound
			}
			return p, nil
		},
	}
}
