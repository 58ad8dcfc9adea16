package valueobject

import "errors"

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrInvalidInstallmentNumber = errors.New("installment number must be between 1 and 999")
	ErrUnknownComponentType     = errors.New("unknown component type")
	ErrUnknownProduct           = errors.New("unknown product type")
	ErrNonPositivePayment       = errors.New("payment amount must be positive")
	ErrInvalidChargeParameters  = errors.New("invalid charge parameters")
)
