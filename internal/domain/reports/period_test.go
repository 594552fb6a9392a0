package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewPeriod_InvalidMode(t *testing.T) {
	_, err := NewPeriod("quarter", date("2025-06-10"))
	assert.Error(t, err)
}

func TestNewPeriod_TruncatesToDate(t *testing.T) {
	ref := time.Date(2025, 6, 10, 15, 42, 3, 0, time.UTC)
	p, err := NewPeriod(ModeDay, ref)
	require.NoError(t, err)
	assert.Equal(t, date("2025-06-10"), p.Ref)
}

func TestPeriodRange_Day(t *testing.T) {
	p, err := NewPeriod(ModeDay, date("2025-06-10"))
	require.NoError(t, err)

	from, to := p.Range()
	assert.Equal(t, date("2025-06-10"), from)
	assert.Equal(t, date("2025-06-11"), to)
}

func TestPeriodRange_WeekIsTrailingSevenDays(t *testing.T) {
	// A Tuesday: the window must run back six days, not snap to a
	// calendar week boundary.
	p, err := NewPeriod(ModeWeek, date("2025-06-10"))
	require.NoError(t, err)

	from, to := p.Range()
	assert.Equal(t, date("2025-06-04"), from)
	assert.Equal(t, date("2025-06-11"), to)
}

func TestPeriodRange_Month(t *testing.T) {
	p, err := NewPeriod(ModeMonth, date("2025-06-10"))
	require.NoError(t, err)

	from, to := p.Range()
	assert.Equal(t, date("2025-06-01"), from)
	assert.Equal(t, date("2025-07-01"), to)
}

func TestPeriodRange_Year(t *testing.T) {
	p, err := NewPeriod(ModeYear, date("2025-06-10"))
	require.NoError(t, err)

	from, to := p.Range()
	assert.Equal(t, date("2025-01-01"), from)
	assert.Equal(t, date("2026-01-01"), to)
}

func TestPeriodRange_WeekAcrossMonthBoundary(t *testing.T) {
	p, err := NewPeriod(ModeWeek, date("2025-03-02"))
	require.NoError(t, err)

	from, to := p.Range()
	assert.Equal(t, date("2025-02-24"), from)
	assert.Equal(t, date("2025-03-03"), to)
}

func TestPeriodContains_Boundaries(t *testing.T) {
	p, err := NewPeriod(ModeWeek, date("2025-06-10"))
	require.NoError(t, err)

	assert.True(t, p.Contains(date("2025-06-04")))
	assert.True(t, p.Contains(date("2025-06-10")))
	assert.True(t, p.Contains(time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(date("2025-06-11")))
	assert.False(t, p.Contains(date("2025-06-03")))
}

func TestParsePeriod_Defaults(t *testing.T) {
	fallback := date("2025-06-10")

	p, err := ParsePeriod("", "", fallback)
	require.NoError(t, err)
	assert.Equal(t, ModeDay, p.Mode)
	assert.Equal(t, fallback, p.Ref)
}

func TestParsePeriod_ExplicitDate(t *testing.T) {
	p, err := ParsePeriod("month", "2025-02-15", date("2025-06-10"))
	require.NoError(t, err)
	assert.Equal(t, ModeMonth, p.Mode)
	assert.Equal(t, date("2025-02-15"), p.Ref)
}

func TestParsePeriod_BadDate(t *testing.T) {
	_, err := ParsePeriod("day", "15-02-2025", date("2025-06-10"))
	assert.Error(t, err)
}

func TestMonthOf_KeepsReference(t *testing.T) {
	p, err := NewPeriod(ModeDay, date("2025-06-10"))
	require.NoError(t, err)

	m := p.MonthOf()
	from, to := m.Range()
	assert.Equal(t, date("2025-06-01"), from)
	assert.Equal(t, date("2025-07-01"), to)
}
