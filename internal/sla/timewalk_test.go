package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestParseTimeString(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"08:00", 480, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"17:30", 1050, true},
		{"24:00", 0, false},
		{"08:60", 0, false},
		{"8am", 0, false},
		{"", 0, false},
		{"-1:00", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTimeString(tc.input)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.want, got, "input %q", tc.input)
		} else {
			assert.Error(t, err, "input %q", tc.input)
		}
	}
}

func TestSameDayAcrossZones(t *testing.T) {
	loc := jakarta(t)
	// 23:30 Jakarta on March 3rd is March 3rd 16:30 UTC.
	a := time.Date(2025, 3, 3, 23, 30, 0, 0, loc)
	b := a.UTC()
	assert.True(t, sameDay(a, b, loc))

	// 01:00 Jakarta on March 4th is still March 3rd in UTC, but the
	// operational timezone decides.
	c := time.Date(2025, 3, 4, 1, 0, 0, 0, loc)
	assert.False(t, sameDay(a, c, loc))
}

func TestWindowBounds(t *testing.T) {
	loc := jakarta(t)
	at := time.Date(2025, 3, 3, 13, 45, 0, 0, loc)
	start, end := windowBounds(at, 8*60, 17*60, loc)
	assert.True(t, start.Equal(time.Date(2025, 3, 3, 8, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2025, 3, 3, 17, 0, 0, 0, loc)))
}

func TestStartOfNextDay(t *testing.T) {
	loc := jakarta(t)
	at := time.Date(2025, 3, 3, 23, 59, 0, 0, loc)
	next := startOfNextDay(at, loc)
	assert.True(t, next.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, loc)))

	// Month boundary.
	at = time.Date(2025, 3, 31, 10, 0, 0, 0, loc)
	next = startOfNextDay(at, loc)
	assert.True(t, next.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, loc)))
}

func TestIsHolidayComparesCalendarDay(t *testing.T) {
	loc := jakarta(t)
	holidays := []domain.HolidayEntry{
		{Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), IsActive: true},
	}
	// 06:00 Jakarta on March 5th is March 4th 23:00 UTC; the holiday date's
	// calendar day is compared in the operational timezone.
	at := time.Date(2025, 3, 5, 6, 59, 0, 0, loc)
	assert.True(t, isHoliday(holidays, at, loc))
	assert.False(t, isHoliday(holidays, time.Date(2025, 3, 6, 6, 59, 0, 0, loc), loc))
}

func TestWindowForFirstMatchWins(t *testing.T) {
	windows := []domain.BusinessHoursWindow{
		{DayOfWeek: 1, StartTime: "08:00", EndTime: "17:00", IsActive: true},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "18:00", IsActive: true},
	}
	window, ok := windowFor(windows, 1)
	require.True(t, ok)
	assert.Equal(t, 480, window.startMin)
	assert.Equal(t, 1020, window.endMin)

	_, ok = windowFor(windows, 2)
	assert.False(t, ok)
}
