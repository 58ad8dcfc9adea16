package valueobject

import (
	"errors"
	"fmt"

	"github.com/bibbank/installments/pkg/money"
)

// ChargeParameters are the contractual parameters for late-payment charges.
type ChargeParameters struct {
	moratoryRate money.Rate
	penaltyKind  PenaltyKind
	fixedPenalty money.Money
	penaltyRate  money.Rate
}

// NewChargeParameters validates and builds ChargeParameters. A FIXED penalty
// uses fixedPenalty; a PERCENTAGE penalty applies penaltyRate to the
// principal plus interest balances.
func NewChargeParameters(
	moratoryRate money.Rate,
	kind PenaltyKind,
	fixedPenalty money.Money,
	penaltyRate money.Rate,
) (ChargeParameters, error) {
	var errs []error
	if moratoryRate.Daily().IsNegative() {
		errs = append(errs, errors.New("moratory rate must not be negative"))
	}
	if kind.IsZero() {
		errs = append(errs, errors.New("penalty kind is required"))
	}
	if fixedPenalty.IsNegative() {
		errs = append(errs, errors.New("fixed penalty must not be negative"))
	}
	if penaltyRate.Daily().IsNegative() {
		errs = append(errs, errors.New("penalty rate must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return ChargeParameters{}, fmt.Errorf("%w: %w", ErrInvalidChargeParameters, err)
	}
	return ChargeParameters{
		moratoryRate: moratoryRate,
		penaltyKind:  kind,
		fixedPenalty: fixedPenalty,
		penaltyRate:  penaltyRate,
	}, nil
}

func (p ChargeParameters) MoratoryRate() money.Rate  { return p.moratoryRate }
func (p ChargeParameters) PenaltyKind() PenaltyKind  { return p.penaltyKind }
func (p ChargeParameters) FixedPenalty() money.Money { return p.fixedPenalty }
func (p ChargeParameters) PenaltyRate() money.Rate   { return p.penaltyRate }

// DiscountParameters are the contractual parameters for early-payment discounts.
type DiscountParameters struct {
	discountRate money.Rate
}

// NewDiscountParameters builds DiscountParameters from a daily discount rate.
func NewDiscountParameters(discountRate money.Rate) DiscountParameters {
	return DiscountParameters{discountRate: discountRate}
}

func (p DiscountParameters) DiscountRate() money.Rate { return p.discountRate }
