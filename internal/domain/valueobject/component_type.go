package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ComponentType: immutable value object
// ---------------------------------------------------------------------------

// ComponentType names one typed balance within an installment.
type ComponentType struct {
	value string
}

const (
	componentPrincipal          = "PRINCIPAL"
	componentInterest           = "INTEREST"
	componentPenalty            = "PENALTY"
	componentFee                = "FEE"
	componentMonetaryCorrection = "MONETARY_CORRECTION"
)

var (
	ComponentPrincipal          = ComponentType{value: componentPrincipal}
	ComponentInterest           = ComponentType{value: componentInterest}
	ComponentPenalty            = ComponentType{value: componentPenalty}
	ComponentFee                = ComponentType{value: componentFee}
	ComponentMonetaryCorrection = ComponentType{value: componentMonetaryCorrection}
)

var validComponentTypes = map[string]ComponentType{
	componentPrincipal:          ComponentPrincipal,
	componentInterest:           ComponentInterest,
	componentPenalty:            ComponentPenalty,
	componentFee:                ComponentFee,
	componentMonetaryCorrection: ComponentMonetaryCorrection,
}

// paymentOrder is the fixed order in which payments are distributed.
var paymentOrder = [...]ComponentType{
	ComponentPrincipal,
	ComponentInterest,
	ComponentPenalty,
	ComponentFee,
	ComponentMonetaryCorrection,
}

// essentialComponents must be present on every newly created installment.
var essentialComponents = [...]ComponentType{
	ComponentPrincipal,
	ComponentInterest,
}

// NewComponentType creates a ComponentType from a raw string.
func NewComponentType(s string) (ComponentType, error) {
	v, ok := validComponentTypes[s]
	if !ok {
		return ComponentType{}, fmt.Errorf("%w: %q", ErrUnknownComponentType, s)
	}
	return v, nil
}

// PaymentOrder returns the component types in distribution order.
func PaymentOrder() []ComponentType {
	out := make([]ComponentType, len(paymentOrder))
	copy(out, paymentOrder[:])
	return out
}

// EssentialComponents returns the component types every installment must carry.
func EssentialComponents() []ComponentType {
	out := make([]ComponentType, len(essentialComponents))
	copy(out, essentialComponents[:])
	return out
}

// String returns the string representation of the component type.
func (c ComponentType) String() string { return c.value }

// IsZero returns true if the component type has not been initialised.
func (c ComponentType) IsZero() bool { return c.value == "" }

// Equal returns true when both component types carry the same value.
func (c ComponentType) Equal(other ComponentType) bool { return c.value == other.value }
