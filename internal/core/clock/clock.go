// Package clock abstracts "today" so period defaults stay deterministic in tests.
// Endpoints that default the report date to the current day take a Clock
// instead of calling time.Now directly.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall-clock implementation used in production.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. For tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// At builds a Fixed clock from a date string (YYYY-MM-DD), panicking on
// malformed input. Test helper.
func At(date string) Fixed {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Fixed{T: t}
}
