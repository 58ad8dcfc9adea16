package valueobject

import "fmt"

// MaxInstallmentNumber is the highest installment number a contract may use.
const MaxInstallmentNumber = 999

// InstallmentNumber is the sequential identifier of an installment within its
// portfolio. Valid numbers are 1..MaxInstallmentNumber.
type InstallmentNumber int

// NewInstallmentNumber validates n.
func NewInstallmentNumber(n int) (InstallmentNumber, error) {
	if n <= 0 || n > MaxInstallmentNumber {
		return 0, fmt.Errorf("%w: %d", ErrInvalidInstallmentNumber, n)
	}
	return InstallmentNumber(n), nil
}

// Int returns the number as an int.
func (n InstallmentNumber) Int() int { return int(n) }

// IsZero returns true if the number has not been initialised.
func (n InstallmentNumber) IsZero() bool { return n == 0 }
