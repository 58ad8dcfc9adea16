package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

var tracer = otel.Tracer("installments/usecase")

// referenceDate defaults a missing reference date to now.
func referenceDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func startSpan(ctx context.Context, name, portfolioID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if portfolioID != "" {
		span.SetAttributes(attribute.String("portfolio.id", portfolioID))
	}
	return ctx, span
}

// ---------------------------------------------------------------------------
// committer: shared save / publish / measure tail of mutating use cases
// ---------------------------------------------------------------------------

type committer struct {
	repo      port.PortfolioRepository
	publisher port.EventPublisher
	metrics   port.PaymentMetrics
}

func newCommitter(repo port.PortfolioRepository, publisher port.EventPublisher, metrics port.PaymentMetrics) committer {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return committer{repo: repo, publisher: publisher, metrics: metrics}
}

// commit saves p with the records produced by the operation, publishes the
// events p collected and records metrics for them.
func (c committer) commit(ctx context.Context, p *model.Portfolio, records []model.AmortizationRecord) error {
	if err := c.repo.Save(ctx, p, records); err != nil {
		return fmt.Errorf("save portfolio: %w", err)
	}

	evts := p.ClearEvents()
	product := p.ProductType().String()
	for _, e := range evts {
		switch ev := e.(type) {
		case event.PaymentApplied:
			c.metrics.PaymentApplied(product, ev.Strategy, ev.AmountApplied, ev.AmountUnapplied)
		case event.InstallmentPaid:
			c.metrics.InstallmentTransitioned(product, valueobject.InstallmentStatusPaid.String())
		case event.InstallmentCancelled:
			c.metrics.InstallmentTransitioned(product, valueobject.InstallmentStatusCancelled.String())
		case event.PaymentReversed:
			c.metrics.InstallmentTransitioned(product, ev.Status)
		}
	}

	if err := c.publisher.Publish(ctx, evts...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

// fail marks span as failed and counts the failure.
func (c committer) fail(span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.metrics.OperationFailed(operation)
	return err
}

type noopMetrics struct{}

func (noopMetrics) PaymentApplied(string, string, money.Money, money.Money) {}
func (noopMetrics) InstallmentTransitioned(string, string)                  {}
func (noopMetrics) OperationFailed(string)                                  {}
