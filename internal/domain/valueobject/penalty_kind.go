package valueobject

import "fmt"

// PenaltyKind tells the charges calculator how the late-payment penalty is computed.
type PenaltyKind struct {
	value string
}

const (
	penaltyFixed      = "FIXED"
	penaltyPercentage = "PERCENTAGE"
)

var (
	PenaltyFixed      = PenaltyKind{value: penaltyFixed}
	PenaltyPercentage = PenaltyKind{value: penaltyPercentage}
)

// NewPenaltyKind creates a PenaltyKind from a raw string.
func NewPenaltyKind(s string) (PenaltyKind, error) {
	switch s {
	case penaltyFixed:
		return PenaltyFixed, nil
	case penaltyPercentage:
		return PenaltyPercentage, nil
	default:
		return PenaltyKind{}, fmt.Errorf("invalid penalty kind: %q", s)
	}
}

func (k PenaltyKind) String() string               { return k.value }
func (k PenaltyKind) IsZero() bool                 { return k.value == "" }
func (k PenaltyKind) Equal(other PenaltyKind) bool { return k.value == other.value }
