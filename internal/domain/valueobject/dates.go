package valueobject

import "time"

// CalendarDays returns the number of calendar days from one date to another,
// negative when to precedes from. Both dates are compared at their UTC day.
func CalendarDays(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
