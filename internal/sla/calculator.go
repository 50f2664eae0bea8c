package sla

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrNoBusinessHours is returned by due-date computation in business-hours
// mode when the requested scope has zero active windows across all days.
// Continuing would never terminate, so there is no silent fallback.
var ErrNoBusinessHours = errors.New("no business hours configured for scope")

const (
	// DefaultCacheTTL bounds how long fetched configuration is reused.
	DefaultCacheTTL = 30 * time.Minute

	// holidayHorizon is how far ahead holiday entries are loaded.
	holidayHorizon = 365 * 24 * time.Hour

	// nextWindowLookaheadDays bounds the next-business-hour walk, inclusive
	// of the starting day.
	nextWindowLookaheadDays = 14
)

// Calculator computes SLA due dates and business-time figures against
// per-scope business-hours and holiday configuration. Construct one instance
// in main and share it; the caches are instance state, not globals.
type Calculator struct {
	store    Store
	hours    *ttlCache[[]domain.BusinessHoursWindow]
	holidays *ttlCache[[]domain.HolidayEntry]
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalculator builds a calculator backed by the given configuration store.
// ttl <= 0 selects DefaultCacheTTL.
func NewCalculator(store Store, ttl time.Duration, logger *zap.Logger) *Calculator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	c.hours = newTTLCache[[]domain.BusinessHoursWindow](ttl, func() time.Time { return c.now() })
	c.holidays = newTTLCache[[]domain.HolidayEntry](ttl, func() time.Time { return c.now() })
	return c
}

// ClearCache drops all cached configuration. Called after administrative
// edits to business hours or holidays, since reads have no invalidation hook
// tied to writes.
func (c *Calculator) ClearCache() {
	c.hours.clear()
	c.holidays.clear()
}

func (c *Calculator) businessHours(ctx context.Context, opts Options) ([]domain.BusinessHoursWindow, error) {
	key := scopeKey("business_hours", opts.DepartmentID, opts.UnitID)
	return c.hours.get(ctx, key, func(ctx context.Context) ([]domain.BusinessHoursWindow, error) {
		return c.store.ActiveBusinessHours(ctx, opts.DepartmentID, opts.UnitID)
	})
}

func (c *Calculator) holidayEntries(ctx context.Context, opts Options) ([]domain.HolidayEntry, error) {
	key := scopeKey("holidays", opts.DepartmentID, opts.UnitID)
	return c.holidays.get(ctx, key, func(ctx context.Context) ([]domain.HolidayEntry, error) {
		from := c.now()
		return c.store.ActiveHolidays(ctx, opts.DepartmentID, opts.UnitID, from, from.Add(holidayHorizon))
	})
}

// CalculateDueDate walks the business calendar from start until slaMinutes of
// business time have been consumed and returns the resulting deadline plus
// the remaining-time figures measured against now.
func (c *Calculator) CalculateDueDate(ctx context.Context, start time.Time, slaMinutes int, opts Options) (*Result, error) {
	if !opts.BusinessHoursOnly {
		return c.naiveResult(start, slaMinutes), nil
	}

	loc, err := opts.location()
	if err != nil {
		return nil, err
	}
	windows, err := c.businessHours(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, ErrNoBusinessHours
	}
	holidays, err := c.holidayEntries(ctx, opts)
	if err != nil {
		return nil, err
	}

	current := start.In(loc)
	remaining := slaMinutes
	skipped := []string{}

	var due time.Time
	for {
		if isHoliday(holidays, current, loc) {
			skipped = append(skipped, isoDate(current, loc))
			current = startOfNextDay(current, loc)
			continue
		}

		window, ok := windowFor(windows, int(current.Weekday()))
		if !ok {
			current = startOfNextDay(current, loc)
			continue
		}

		windowStart, windowEnd := windowBounds(current, window.startMin, window.endMin, loc)

		sliceStart := windowStart
		if sameDay(current, start, loc) {
			switch {
			case current.Before(windowStart):
				sliceStart = windowStart
			case !current.Before(windowEnd):
				// Arrived after close; nothing left today.
				current = startOfNextDay(current, loc)
				continue
			default:
				sliceStart = current
			}
		}

		available := int(windowEnd.Sub(sliceStart).Minutes())
		if available < 0 {
			available = 0
		}

		if remaining <= available {
			due = sliceStart.Add(time.Duration(remaining) * time.Minute)
			break
		}

		remaining -= available
		current = startOfNextDay(current, loc)
	}

	now := c.now()
	businessRemaining, err := c.BusinessMinutesBetween(ctx, now, due, opts)
	if err != nil {
		return nil, err
	}
	inHours, err := c.InBusinessHours(ctx, now, opts)
	if err != nil {
		return nil, err
	}
	nextStart, err := c.NextBusinessHourStart(ctx, now, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DueDate:                  due,
		BusinessMinutesRemaining: businessRemaining,
		TotalMinutesRemaining:    clampMinutes(due.Sub(now)),
		IsOverdue:                now.After(due),
		InBusinessHours:          inHours,
		HolidaysSkipped:          skipped,
		NextBusinessHourStart:    nextStart,
	}
	c.logger.Debug("sla due date computed",
		zap.Time("start", start),
		zap.Int("sla_minutes", slaMinutes),
		zap.Time("due_date", due),
		zap.Strings("holidays_skipped", skipped))
	return result, nil
}

// BusinessMinutesBetween sums the business time elapsed between from and to,
// skipping holidays and days without a configured window. Returns 0 when
// from is at or after to.
func (c *Calculator) BusinessMinutesBetween(ctx context.Context, from, to time.Time, opts Options) (int, error) {
	if !from.Before(to) {
		return 0, nil
	}
	if !opts.BusinessHoursOnly {
		return int(to.Sub(from).Minutes()), nil
	}

	loc, err := opts.location()
	if err != nil {
		return 0, err
	}
	windows, err := c.businessHours(ctx, opts)
	if err != nil {
		return 0, err
	}
	holidays, err := c.holidayEntries(ctx, opts)
	if err != nil {
		return 0, err
	}

	total := 0
	current := from.In(loc)
	end := to.In(loc)
	for current.Before(end) {
		if !isHoliday(holidays, current, loc) {
			if window, ok := windowFor(windows, int(current.Weekday())); ok {
				windowStart, windowEnd := windowBounds(current, window.startMin, window.endMin, loc)
				sliceStart := windowStart
				if current.After(windowStart) {
					sliceStart = current
				}
				sliceEnd := windowEnd
				if end.Before(windowEnd) {
					sliceEnd = end
				}
				if sliceEnd.After(sliceStart) {
					total += int(sliceEnd.Sub(sliceStart).Minutes())
				}
			}
		}
		current = startOfNextDay(current, loc)
	}
	return total, nil
}

// InBusinessHours reports whether at falls inside the configured window for
// its day of week. Window ends are exclusive: an instant exactly at the end
// time is outside.
func (c *Calculator) InBusinessHours(ctx context.Context, at time.Time, opts Options) (bool, error) {
	if !opts.BusinessHoursOnly {
		return true, nil
	}

	loc, err := opts.location()
	if err != nil {
		return false, err
	}
	holidays, err := c.holidayEntries(ctx, opts)
	if err != nil {
		return false, err
	}
	if isHoliday(holidays, at, loc) {
		return false, nil
	}
	windows, err := c.businessHours(ctx, opts)
	if err != nil {
		return false, err
	}
	window, ok := windowFor(windows, int(at.In(loc).Weekday()))
	if !ok {
		return false, nil
	}
	minute := minuteOfDay(at, loc)
	return minute >= window.startMin && minute < window.endMin, nil
}

// NextBusinessHourStart returns the first window-start instant strictly after
// from, walking up to nextWindowLookaheadDays calendar days inclusive of
// from's day. Nil means no window opens within the horizon.
func (c *Calculator) NextBusinessHourStart(ctx context.Context, from time.Time, opts Options) (*time.Time, error) {
	loc, err := opts.location()
	if err != nil {
		return nil, err
	}
	windows, err := c.businessHours(ctx, opts)
	if err != nil {
		return nil, err
	}
	holidays, err := c.holidayEntries(ctx, opts)
	if err != nil {
		return nil, err
	}

	day := from.In(loc)
	for i := 0; i < nextWindowLookaheadDays; i++ {
		if !isHoliday(holidays, day, loc) {
			if window, ok := windowFor(windows, int(day.Weekday())); ok {
				windowStart, _ := windowBounds(day, window.startMin, window.endMin, loc)
				if windowStart.After(from) {
					return &windowStart, nil
				}
			}
		}
		day = startOfNextDay(day, loc)
	}
	return nil, nil
}

func (c *Calculator) naiveResult(start time.Time, slaMinutes int) *Result {
	due := start.Add(time.Duration(slaMinutes) * time.Minute)
	now := c.now()
	remaining := clampMinutes(due.Sub(now))
	return &Result{
		DueDate:                  due,
		BusinessMinutesRemaining: remaining,
		TotalMinutesRemaining:    remaining,
		IsOverdue:                now.After(due),
		InBusinessHours:          true,
		HolidaysSkipped:          []string{},
	}
}

func clampMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}
