package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// StandardCreation validates installment commands and builds OPEN
// installments from them.
type StandardCreation struct{}

// NewStandardCreation returns the standard creation strategy.
func NewStandardCreation() *StandardCreation {
	return &StandardCreation{}
}

var commandRules = []model.Rule[model.InstallmentCommand]{
	{
		Violated: func(c model.InstallmentCommand) bool { return len(c.Components) == 0 },
		Err:      model.ErrEmptyComponents,
	},
	{
		Violated: func(c model.InstallmentCommand) bool { return !c.TotalValue.IsPositive() },
		Err:      model.ErrNonPositiveTotal,
	},
}

var componentCommandRules = []model.Rule[model.ComponentCommand]{
	{
		Violated: func(c model.ComponentCommand) bool {
			_, err := valueobject.NewComponentType(c.Type)
			return err != nil
		},
		Err: valueobject.ErrUnknownComponentType,
	},
	{
		Violated: func(c model.ComponentCommand) bool { return c.Value.IsNegative() },
		Err:      model.ErrNegativeValue,
	},
}

// Create validates cmd as a whole, reporting every broken rule of the
// command and of each component together, then builds the installment.
func (*StandardCreation) Create(cmd model.InstallmentCommand, number int, ref time.Time) (*model.Installment, error) {
	errs := []error{model.Validate(cmd, commandRules)}
	for idx, c := range cmd.Components {
		if err := model.Validate(c, componentCommandRules); err != nil {
			errs = append(errs, fmt.Errorf("component %d (%s): %w", idx, c.Type, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	components := make([]*model.Component, 0, len(cmd.Components))
	for _, c := range cmd.Components {
		t, _ := valueobject.NewComponentType(c.Type)
		comp, err := model.NewComponent(t, c.Value)
		if err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	return model.NewInstallment(number, cmd.DueDate, cmd.TotalValue, components, ref)
}
