// Package metrics exports the business metrics of portfolio operations to
// Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bibbank/installments/pkg/money"
)

// PaymentMetrics implements port.PaymentMetrics on a Prometheus registry.
type PaymentMetrics struct {
	payments    *prometheus.CounterVec
	applied     *prometheus.CounterVec
	unapplied   *prometheus.CounterVec
	paymentSize *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewPaymentMetrics registers the collectors in reg. Each registry can hold
// one PaymentMetrics.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)

	return &PaymentMetrics{
		payments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installments_payments_total",
				Help: "Payments applied to installments.",
			},
			[]string{"product", "strategy"},
		),
		applied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installments_amount_applied_total",
				Help: "Money applied to installment components.",
			},
			[]string{"product"},
		),
		unapplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installments_amount_unapplied_total",
				Help: "Money received but not applied to any component.",
			},
			[]string{"product"},
		),
		paymentSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "installments_payment_amount",
				Help:    "Amount applied per payment.",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
			[]string{"product"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installments_status_transitions_total",
				Help: "Installments moved into a status.",
			},
			[]string{"product", "status"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installments_operation_failures_total",
				Help: "Failed portfolio operations.",
			},
			[]string{"operation"},
		),
	}
}

func (m *PaymentMetrics) PaymentApplied(product, strategy string, applied, unapplied money.Money) {
	m.payments.WithLabelValues(product, strategy).Inc()
	m.applied.WithLabelValues(product).Add(applied.Amount().InexactFloat64())
	m.paymentSize.WithLabelValues(product).Observe(applied.Amount().InexactFloat64())
	if unapplied.IsPositive() {
		m.unapplied.WithLabelValues(product).Add(unapplied.Amount().InexactFloat64())
	}
}

func (m *PaymentMetrics) InstallmentTransitioned(product, status string) {
	m.transitions.WithLabelValues(product, status).Inc()
}

func (m *PaymentMetrics) OperationFailed(operation string) {
	m.failures.WithLabelValues(operation).Inc()
}
