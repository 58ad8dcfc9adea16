package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed identifiers for deterministic testing.
var (
	TestPortfolioID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestRecordID    = uuid.MustParse("00000000-0000-0000-0000-000000000030")
)

// Day returns midnight UTC of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
