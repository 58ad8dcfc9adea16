package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// InstallmentStatus: immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the lifecycle stage of an installment.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusOpen      = "OPEN"
	installmentStatusOverdue   = "OVERDUE"
	installmentStatusPaid      = "PAID"
	installmentStatusCancelled = "CANCELLED"
)

var (
	InstallmentStatusOpen      = InstallmentStatus{value: installmentStatusOpen}
	InstallmentStatusOverdue   = InstallmentStatus{value: installmentStatusOverdue}
	InstallmentStatusPaid      = InstallmentStatus{value: installmentStatusPaid}
	InstallmentStatusCancelled = InstallmentStatus{value: installmentStatusCancelled}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusOpen:      InstallmentStatusOpen,
	installmentStatusOverdue:   InstallmentStatusOverdue,
	installmentStatusPaid:      InstallmentStatusPaid,
	installmentStatusCancelled: InstallmentStatusCancelled,
}

// InstallmentStatuses lists every status.
func InstallmentStatuses() []InstallmentStatus {
	return []InstallmentStatus{
		InstallmentStatusOpen,
		InstallmentStatusOverdue,
		InstallmentStatusPaid,
		InstallmentStatusCancelled,
	}
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// IsPayable reports whether payments may be applied in this status.
func (s InstallmentStatus) IsPayable() bool {
	return s == InstallmentStatusOpen || s == InstallmentStatusOverdue
}

// String returns the string representation of the status.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }
