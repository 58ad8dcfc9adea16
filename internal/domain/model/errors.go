package model

import "errors"

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInstallmentNotFound       = errors.New("installment not found")
	ErrPortfolioNotFound         = errors.New("portfolio not found")
	ErrRecordNotFound            = errors.New("amortization record not found")
	ErrVersionConflict           = errors.New("portfolio was modified concurrently")
	ErrScheduleAlreadyGenerated  = errors.New("schedule already generated")
	ErrEmptySchedule             = errors.New("schedule requires at least one installment")
	ErrTooManyInstallments       = errors.New("portfolio holds at most 999 installments")
	ErrInsufficientPayment       = errors.New("payment does not cover the selected installments")
	ErrDuplicateInstallment      = errors.New("installment selected more than once")
	ErrNegativeBalance           = errors.New("component balance must not be negative")
	ErrNegativeValue             = errors.New("monetary value must not be negative")
	ErrMissingEssentialComponent = errors.New("missing essential component")
	ErrEmptyComponents           = errors.New("installment requires at least one component")
	ErrDuplicateComponent        = errors.New("duplicate component type")
	ErrMissingComponentType      = errors.New("component type is required")
	ErrComponentTypeMismatch     = errors.New("component types differ")
	ErrDueDateBeforeReference    = errors.New("due date precedes reference date")
	ErrRecordMismatch            = errors.New("amortization record does not match installment")
	ErrInvalidPlan               = errors.New("distribution plan does not match components")
	ErrNonPositiveTotal          = errors.New("installment total must be positive")
)
