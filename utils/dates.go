package utils

import "time"

// NormalizeDate strips the time-of-day, returning UTC midnight of the same
// calendar day. Availability and booking dates are compared at day precision
// only, so every date must pass through here before touching the database.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day-precision date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}
