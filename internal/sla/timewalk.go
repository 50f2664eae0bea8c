package sla

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const isoDateLayout = "2006-01-02"

// ParseTimeString converts an "HH:MM" wall-clock string into minutes since
// midnight.
func ParseTimeString(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hours*60 + minutes, nil
}

// sameDay reports whether two instants fall on the same calendar day in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// isHoliday reports whether any entry's date matches at's calendar day in loc.
func isHoliday(holidays []domain.HolidayEntry, at time.Time, loc *time.Location) bool {
	for _, h := range holidays {
		if sameDay(h.Date, at, loc) {
			return true
		}
	}
	return false
}

// windowBounds constructs the window start and end instants on at's calendar
// day from minute-of-day offsets.
func windowBounds(at time.Time, startMin, endMin int, loc *time.Location) (time.Time, time.Time) {
	year, month, day := at.In(loc).Date()
	start := time.Date(year, month, day, startMin/60, startMin%60, 0, 0, loc)
	end := time.Date(year, month, day, endMin/60, endMin%60, 0, 0, loc)
	return start, end
}

// startOfNextDay returns midnight of the calendar day after at in loc.
func startOfNextDay(at time.Time, loc *time.Location) time.Time {
	year, month, day := at.In(loc).Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, loc)
}

// minuteOfDay returns at's wall-clock offset from midnight in loc, in minutes.
func minuteOfDay(at time.Time, loc *time.Location) int {
	local := at.In(loc)
	return local.Hour()*60 + local.Minute()
}

// isoDate renders at's calendar day in loc as an ISO date string.
func isoDate(at time.Time, loc *time.Location) string {
	return at.In(loc).Format(isoDateLayout)
}

// dayWindow is a parsed business-hours window for one day of week.
type dayWindow struct {
	startMin int
	endMin   int
}

// windowFor finds the window configured for the given weekday. Rows arrive
// ordered by day of week and the first match wins; uniqueness per
// (scope, weekday) is enforced at write time.
func windowFor(windows []domain.BusinessHoursWindow, weekday int) (dayWindow, bool) {
	for _, w := range windows {
		if w.DayOfWeek != weekday {
			continue
		}
		startMin, err := ParseTimeString(w.StartTime)
		if err != nil {
			continue
		}
		endMin, err := ParseTimeString(w.EndTime)
		if err != nil {
			continue
		}
		return dayWindow{startMin: startMin, endMin: endMin}, true
	}
	return dayWindow{}, false
}
