// Package reports builds period-scoped reporting snapshots.
//
// Every aggregate in a snapshot is filtered by the same Period value,
// so all sections of a report describe one time window. The only
// deliberate exceptions are the all-time debt figures and the
// full-month daily sales series.
package reports

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"sweetflow/internal/core/apperror"
)

// Mode selects how a reference date expands into a date range.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
	ModeYear  Mode = "year"
)

// Period is a reporting window: a mode applied to a reference date.
type Period struct {
	Mode Mode
	Ref  time.Time
}

// NewPeriod validates the mode and truncates the reference to a date.
func NewPeriod(mode Mode, ref time.Time) (Period, error) {
	switch mode {
	case ModeDay, ModeWeek, ModeMonth, ModeYear:
	default:
		return Period{}, apperror.NewValidation("invalid report mode").
			WithDetail("value", string(mode))
	}
	y, m, d := ref.Date()
	return Period{Mode: mode, Ref: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// ParsePeriod builds a Period from query-string values. An empty date
// defaults to fallback (the injected server clock), an empty mode to day.
func ParsePeriod(mode, date string, fallback time.Time) (Period, error) {
	if mode == "" {
		mode = string(ModeDay)
	}
	ref := fallback
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return Period{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
				WithDetail("value", date)
		}
		ref = parsed
	}
	return NewPeriod(Mode(mode), ref)
}

// Range returns the window as [from, to) day boundaries in UTC.
//
// Week is a trailing 7-day window ending at the reference date,
// inclusive on both ends — not a calendar week.
func (p Period) Range() (from, to time.Time) {
	y, m, d := p.Ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch p.Mode {
	case ModeWeek:
		return day.AddDate(0, 0, -6), day.AddDate(0, 0, 1)
	case ModeMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case ModeYear:
		start := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	default: // ModeDay
		return day, day.AddDate(0, 0, 1)
	}
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	from, to := p.Range()
	return !t.Before(from) && t.Before(to)
}

// Predicate builds the SQL condition for a timestamp column. The same
// predicate is reused across every aggregate of a snapshot.
func (p Period) Predicate(column string) sq.Sqlizer {
	from, to := p.Range()
	return sq.And{
		sq.GtOrEq{column: from},
		sq.Lt{column: to},
	}
}

// MonthOf returns the calendar-month period around the reference date,
// regardless of the period's own mode. The daily sales series is
// always month-grained.
func (p Period) MonthOf() Period {
	return Period{Mode: ModeMonth, Ref: p.Ref}
}

func (p Period) String() string {
	return fmt.Sprintf("%s@%s", p.Mode, p.Ref.Format("2006-01-02"))
}
