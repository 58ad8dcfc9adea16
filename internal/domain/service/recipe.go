package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RecipeBook: product type to policies
// ---------------------------------------------------------------------------

// RecipeBook holds the policies each product type runs with.
type RecipeBook struct {
	recipes map[valueobject.ProductType]model.Recipe
}

// NewRecipeBook returns the standard product recipes:
//
//	PRE_FIXED_PARTIAL   waterfall, Price recalculation
//	PRE_FIXED_FULL      handler pipeline, Price recalculation
//	POST_FIXED_PARTIAL  waterfall, no recalculation
func NewRecipeBook() *RecipeBook {
	creation := NewStandardCreation()
	waterfall := NewWaterfallDistribution()
	price := NewPriceRecalculator()
	return &RecipeBook{recipes: map[valueobject.ProductType]model.Recipe{
		valueobject.ProductPreFixedPartial: {
			Creation:      creation,
			Distribution:  waterfall,
			Recalculation: price,
		},
		valueobject.ProductPreFixedFull: {
			Creation:      creation,
			Distribution:  NewPipelineDistribution(),
			Recalculation: price,
		},
		valueobject.ProductPostFixedPartial: {
			Creation:     creation,
			Distribution: waterfall,
		},
	}}
}

// Lookup returns the recipe of a product type.
func (b *RecipeBook) Lookup(p valueobject.ProductType) (model.Recipe, error) {
	r, ok := b.recipes[p]
	if !ok {
		return model.Recipe{}, fmt.Errorf("%w: %q", valueobject.ErrUnknownProduct, p)
	}
	return r, nil
}

// ---------------------------------------------------------------------------
// PortfolioFactory
// ---------------------------------------------------------------------------

// PortfolioTerms are the contract terms a portfolio is created from.
type PortfolioTerms struct {
	ProductType    string
	MonthlyRate    decimal.Decimal
	ChargeParams   valueobject.ChargeParameters
	DiscountParams valueobject.DiscountParameters
	Installments   []model.InstallmentCommand
}

// PortfolioFactory wires product recipes and calculators into portfolios.
type PortfolioFactory struct {
	recipes  *RecipeBook
	charges  *ChargesCalculator
	discount *DiscountCalculator
}

// NewPortfolioFactory creates a factory over the given recipe book.
func NewPortfolioFactory(recipes *RecipeBook) *PortfolioFactory {
	return &PortfolioFactory{
		recipes:  recipes,
		charges:  NewChargesCalculator(),
		discount: NewDiscountCalculator(),
	}
}

// Create builds a portfolio and generates its schedule as of now.
func (f *PortfolioFactory) Create(terms PortfolioTerms, now time.Time) (*model.Portfolio, error) {
	productType, err := valueobject.NewProductType(terms.ProductType)
	if err != nil {
		return nil, err
	}
	recipe, conditions, err := f.Policies(productType, terms.ChargeParams, terms.DiscountParams)
	if err != nil {
		return nil, err
	}
	p, err := model.NewPortfolio(productType, terms.MonthlyRate, conditions, recipe, now)
	if err != nil {
		return nil, err
	}
	if err := p.GenerateSchedule(terms.Installments, now); err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}
	return p, nil
}

// Policies resolves the recipe and conditions of a stored portfolio.
func (f *PortfolioFactory) Policies(
	productType valueobject.ProductType,
	charge valueobject.ChargeParameters,
	discount valueobject.DiscountParameters,
) (model.Recipe, model.Conditions, error) {
	recipe, err := f.recipes.Lookup(productType)
	if err != nil {
		return model.Recipe{}, model.Conditions{}, err
	}
	return recipe, model.Conditions{
		Charges:        f.charges,
		ChargeParams:   charge,
		Discount:       f.discount,
		DiscountParams: discount,
	}, nil
}
