package port

import (
	"context"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// PortfolioRepository persists and retrieves portfolios. Save stores the
// portfolio together with the amortization records produced by the operation
// in one transaction. It fails with model.ErrVersionConflict when the stored
// version differs from p.Version() and increments the version on success.
type PortfolioRepository interface {
	Save(ctx context.Context, p *model.Portfolio, records []model.AmortizationRecord) error
	FindByID(ctx context.Context, id string) (*model.Portfolio, error)
}

// AmortizationRecordRepository retrieves stored amortization records.
type AmortizationRecordRepository interface {
	FindByID(ctx context.Context, portfolioID, id string) (model.AmortizationRecord, error)
	FindByInstallment(ctx context.Context, portfolioID string, number int) ([]model.AmortizationRecord, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Metrics port
// ---------------------------------------------------------------------------

// PaymentMetrics records business metrics for portfolio operations.
type PaymentMetrics interface {
	PaymentApplied(product, strategy string, applied, unapplied money.Money)
	InstallmentTransitioned(product, status string)
	OperationFailed(operation string)
}
