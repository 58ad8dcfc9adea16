package valueobject

import "fmt"

// ProductType selects the recipe of policies a portfolio is built with.
type ProductType struct {
	value string
}

const (
	productPreFixedPartial  = "PRE_FIXED_PARTIAL"
	productPreFixedFull     = "PRE_FIXED_FULL"
	productPostFixedPartial = "POST_FIXED_PARTIAL"
)

var (
	ProductPreFixedPartial  = ProductType{value: productPreFixedPartial}
	ProductPreFixedFull     = ProductType{value: productPreFixedFull}
	ProductPostFixedPartial = ProductType{value: productPostFixedPartial}
)

var validProductTypes = map[string]ProductType{
	productPreFixedPartial:  ProductPreFixedPartial,
	productPreFixedFull:     ProductPreFixedFull,
	productPostFixedPartial: ProductPostFixedPartial,
}

// NewProductType creates a ProductType from a raw string.
func NewProductType(s string) (ProductType, error) {
	v, ok := validProductTypes[s]
	if !ok {
		return ProductType{}, fmt.Errorf("%w: %q", ErrUnknownProduct, s)
	}
	return v, nil
}

func (p ProductType) String() string               { return p.value }
func (p ProductType) IsZero() bool                 { return p.value == "" }
func (p ProductType) Equal(other ProductType) bool { return p.value == other.value }
