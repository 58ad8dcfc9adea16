package service

import (
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// WaterfallDistribution: partial payment policy
// ---------------------------------------------------------------------------

// WaterfallDistribution fills each component in payment order before moving
// to the next one.
type WaterfallDistribution struct{}

// NewWaterfallDistribution returns the waterfall policy.
func NewWaterfallDistribution() *WaterfallDistribution {
	return &WaterfallDistribution{}
}

// Name identifies the strategy in amortization records.
func (WaterfallDistribution) Name() string { return "WATERFALL" }

// Distribute allocates amount over the components of view.
func (WaterfallDistribution) Distribute(view model.ComponentsView, amount money.Money) model.DistributionPlan {
	remaining := amount
	var details []model.ApplicationDetail
	for _, t := range valueobject.PaymentOrder() {
		if !remaining.IsPositive() {
			break
		}
		c, ok := view[t]
		if !ok || !c.Balance.IsPositive() {
			continue
		}
		d := settle(c, remaining)
		details = append(details, d)
		remaining = remaining.Subtract(d.AmountApplied)
	}
	return model.DistributionPlan{Details: details, Unapplied: remaining}
}

func settle(c model.ComponentView, available money.Money) model.ApplicationDetail {
	applied := available.Min(c.Balance)
	return model.ApplicationDetail{
		Type:          c.Type,
		BalanceBefore: c.Balance,
		AmountApplied: applied,
		BalanceAfter:  c.Balance.Subtract(applied),
	}
}

// ---------------------------------------------------------------------------
// PipelineDistribution: handler registry policy
// ---------------------------------------------------------------------------

// AmortizationHandler settles one component type inside the pipeline.
type AmortizationHandler interface {
	// PreconditionSatisfied reports whether the handler may run against the
	// components as projected so far.
	PreconditionSatisfied(view model.ComponentsView) bool
	// ComputeApplication returns what target absorbs out of remaining. The
	// boolean is false when nothing is applied.
	ComputeApplication(target model.ComponentView, remaining money.Money, view model.ComponentsView) (model.ApplicationDetail, bool)
}

// HandlerRegistry maps component types to their handlers.
type HandlerRegistry map[valueobject.ComponentType]AmortizationHandler

var defaultHandlers = HandlerRegistry{
	valueobject.ComponentPrincipal:          balanceHandler{ctype: valueobject.ComponentPrincipal},
	valueobject.ComponentInterest:           balanceHandler{ctype: valueobject.ComponentInterest},
	valueobject.ComponentPenalty:            balanceHandler{ctype: valueobject.ComponentPenalty},
	valueobject.ComponentFee:                balanceHandler{ctype: valueobject.ComponentFee},
	valueobject.ComponentMonetaryCorrection: monetaryCorrectionHandler{},
}

// PipelineDistribution walks the payment order and lets the handler
// registered for each type decide whether and how much it absorbs. Types
// without a handler are skipped.
type PipelineDistribution struct {
	handlers HandlerRegistry
}

// NewPipelineDistribution returns the pipeline with the default handlers.
func NewPipelineDistribution() *PipelineDistribution {
	return &PipelineDistribution{handlers: defaultHandlers}
}

// NewPipelineDistributionWith returns a pipeline over a copy of handlers.
func NewPipelineDistributionWith(handlers HandlerRegistry) *PipelineDistribution {
	own := make(HandlerRegistry, len(handlers))
	for t, h := range handlers {
		own[t] = h
	}
	return &PipelineDistribution{handlers: own}
}

// Name identifies the strategy in amortization records.
func (*PipelineDistribution) Name() string { return "HANDLER_PIPELINE" }

// Distribute allocates amount over the components of view. Each handler sees
// the balances left by the handlers before it.
func (p *PipelineDistribution) Distribute(view model.ComponentsView, amount money.Money) model.DistributionPlan {
	remaining := amount
	projected := view
	var details []model.ApplicationDetail
	for _, t := range valueobject.PaymentOrder() {
		if !remaining.IsPositive() {
			break
		}
		h, ok := p.handlers[t]
		if !ok {
			continue
		}
		target, ok := projected[t]
		if !ok || !h.PreconditionSatisfied(projected) {
			continue
		}
		d, ok := h.ComputeApplication(target, remaining, projected)
		if !ok {
			continue
		}
		details = append(details, d)
		remaining = remaining.Subtract(d.AmountApplied)
		projected = projected.WithBalance(t, d.BalanceAfter)
	}
	return model.DistributionPlan{Details: details, Unapplied: remaining}
}

// balanceHandler settles its own component while it has a balance.
type balanceHandler struct {
	ctype valueobject.ComponentType
}

func (h balanceHandler) PreconditionSatisfied(view model.ComponentsView) bool {
	return view.Balance(h.ctype).IsPositive()
}

func (h balanceHandler) ComputeApplication(target model.ComponentView, remaining money.Money, _ model.ComponentsView) (model.ApplicationDetail, bool) {
	d := settle(target, remaining)
	return d, d.AmountApplied.IsPositive()
}

// monetaryCorrectionHandler settles monetary correction only after principal
// and interest are fully covered.
type monetaryCorrectionHandler struct{}

func (monetaryCorrectionHandler) PreconditionSatisfied(view model.ComponentsView) bool {
	return view.Balance(valueobject.ComponentMonetaryCorrection).IsPositive() &&
		view.Balance(valueobject.ComponentPrincipal).IsZero() &&
		view.Balance(valueobject.ComponentInterest).IsZero()
}

func (monetaryCorrectionHandler) ComputeApplication(target model.ComponentView, remaining money.Money, _ model.ComponentsView) (model.ApplicationDetail, bool) {
	d := settle(target, remaining)
	return d, d.AmountApplied.IsPositive()
}
