package sla

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type configStoreStub struct {
	windows      []domain.BusinessHoursWindow
	holidays     []domain.HolidayEntry
	err          error
	hoursCalls   int
	holidayCalls int
}

func (s *configStoreStub) ActiveBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	s.hoursCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.windows, nil
}

func (s *configStoreStub) ActiveHolidays(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	s.holidayCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.holidays, nil
}

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

// weekdayWindows configures Mon-Fri 08:00-17:00 (540 minutes per day).
func weekdayWindows() []domain.BusinessHoursWindow {
	windows := make([]domain.BusinessHoursWindow, 0, 5)
	for day := 1; day <= 5; day++ {
		windows = append(windows, domain.BusinessHoursWindow{
			DayOfWeek: day,
			StartTime: "08:00",
			EndTime:   "17:00",
			IsActive:  true,
		})
	}
	return windows
}

func newTestCalculator(store *configStoreStub, now time.Time) *Calculator {
	calc := NewCalculator(store, DefaultCacheTTL, nil)
	calc.now = func() time.Time { return now }
	return calc
}

func TestCalculateDueDateSameDay(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc) // Monday 09:00
	calc := newTestCalculator(store, start)

	result, err := calc.CalculateDueDate(context.Background(), start, 480, DefaultOptions())
	require.NoError(t, err)

	// Monday 09:00-17:00 holds exactly the 480 requested minutes.
	assert.True(t, result.DueDate.Equal(time.Date(2025, 3, 3, 17, 0, 0, 0, loc)))
	assert.Empty(t, result.HolidaysSkipped)
	assert.False(t, result.IsOverdue)
	assert.True(t, result.InBusinessHours)
	assert.Equal(t, 480, result.BusinessMinutesRemaining)
	assert.Equal(t, 480, result.TotalMinutesRemaining)
}

func TestCalculateDueDateRollsOverWeekend(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 7, 16, 0, 0, 0, loc) // Friday 16:00
	calc := newTestCalculator(store, start)

	result, err := calc.CalculateDueDate(context.Background(), start, 120, DefaultOptions())
	require.NoError(t, err)

	// 60 minutes left Friday, remaining 60 land Monday 08:00-09:00.
	assert.True(t, result.DueDate.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, loc)))
	// Saturday and Sunday have no window; they are not holidays.
	assert.Empty(t, result.HolidaysSkipped)
}

func TestCalculateDueDateSkipsHoliday(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{
		windows: weekdayWindows(),
		holidays: []domain.HolidayEntry{
			{Date: time.Date(2025, 3, 5, 0, 0, 0, 0, loc), IsActive: true}, // Wednesday
		},
	}
	start := time.Date(2025, 3, 4, 16, 0, 0, 0, loc) // Tuesday 16:00
	calc := newTestCalculator(store, start)

	result, err := calc.CalculateDueDate(context.Background(), start, 120, DefaultOptions())
	require.NoError(t, err)

	// 60 minutes Tuesday, Wednesday skipped, remaining 60 on Thursday.
	assert.True(t, result.DueDate.Equal(time.Date(2025, 3, 6, 9, 0, 0, 0, loc)))
	assert.Equal(t, []string{"2025-03-05"}, result.HolidaysSkipped)

	naiveDue := start.Add(120 * time.Minute)
	assert.True(t, result.DueDate.After(naiveDue))
}

func TestCalculateDueDateBeforeOpening(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 3, 6, 0, 0, 0, loc) // Monday 06:00
	calc := newTestCalculator(store, start)

	result, err := calc.CalculateDueDate(context.Background(), start, 60, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.DueDate.Equal(time.Date(2025, 3, 3, 9, 0, 0, 0, loc)))
}

func TestCalculateDueDateNaiveMode(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{
		windows: weekdayWindows(),
		holidays: []domain.HolidayEntry{
			{Date: time.Date(2025, 3, 8, 0, 0, 0, 0, loc), IsActive: true},
		},
	}
	start := time.Date(2025, 3, 7, 16, 0, 0, 0, loc) // Friday 16:00
	calc := newTestCalculator(store, start)

	opts := DefaultOptions()
	opts.BusinessHoursOnly = false
	result, err := calc.CalculateDueDate(context.Background(), start, 3000, opts)
	require.NoError(t, err)

	// Plain wall-clock arithmetic: holidays and windows are ignored.
	assert.True(t, result.DueDate.Equal(start.Add(3000*time.Minute)))
	assert.Empty(t, result.HolidaysSkipped)
	assert.True(t, result.InBusinessHours)
	assert.Equal(t, 3000, result.TotalMinutesRemaining)
	assert.Zero(t, store.hoursCalls)
	assert.Zero(t, store.holidayCalls)
}

func TestCalculateDueDateNoConfiguration(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	calc := newTestCalculator(store, start)

	_, err := calc.CalculateDueDate(context.Background(), start, 60, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoBusinessHours)
}

func TestCalculateDueDateMonotonic(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	calc := newTestCalculator(store, start)

	var previous time.Time
	for _, minutes := range []int{30, 60, 480, 541, 1200, 2700} {
		result, err := calc.CalculateDueDate(context.Background(), start, minutes, DefaultOptions())
		require.NoError(t, err)
		if !previous.IsZero() {
			assert.False(t, result.DueDate.Before(previous), "due date regressed at %d minutes", minutes)
		}
		previous = result.DueDate
	}
}

func TestCalculateDueDateOverdue(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, loc)
	calc := newTestCalculator(store, now)

	result, err := calc.CalculateDueDate(context.Background(), start, 60, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.IsOverdue)
	assert.Zero(t, result.BusinessMinutesRemaining)
	assert.Zero(t, result.TotalMinutesRemaining)
}

func TestBusinessMinutesBetween(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	calc := newTestCalculator(store, now)
	ctx := context.Background()

	// Monday 16:00 to Tuesday 10:00: one hour Monday, two hours Tuesday.
	from := time.Date(2025, 3, 3, 16, 0, 0, 0, loc)
	to := time.Date(2025, 3, 4, 10, 0, 0, 0, loc)
	minutes, err := calc.BusinessMinutesBetween(ctx, from, to, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 180, minutes)

	// Reversed order yields zero.
	minutes, err = calc.BusinessMinutesBetween(ctx, to, from, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, minutes)

	minutes, err = calc.BusinessMinutesBetween(ctx, from, from, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, minutes)
}

func TestBusinessMinutesBetweenSkipsHoliday(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{
		windows: weekdayWindows(),
		holidays: []domain.HolidayEntry{
			{Date: time.Date(2025, 3, 4, 0, 0, 0, 0, loc), IsActive: true}, // Tuesday
		},
	}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))

	from := time.Date(2025, 3, 3, 16, 0, 0, 0, loc)
	to := time.Date(2025, 3, 5, 10, 0, 0, 0, loc)
	minutes, err := calc.BusinessMinutesBetween(context.Background(), from, to, DefaultOptions())
	require.NoError(t, err)
	// One hour Monday plus two hours Wednesday; Tuesday contributes nothing.
	assert.Equal(t, 180, minutes)
}

func TestBusinessMinutesBetweenNaive(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))

	opts := DefaultOptions()
	opts.BusinessHoursOnly = false
	from := time.Date(2025, 3, 7, 16, 0, 0, 0, loc)
	minutes, err := calc.BusinessMinutesBetween(context.Background(), from, from.Add(36*time.Hour), opts)
	require.NoError(t, err)
	assert.Equal(t, 36*60, minutes)
}

func TestInBusinessHoursBoundaries(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))
	ctx := context.Background()
	opts := DefaultOptions()

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"at window start", time.Date(2025, 3, 3, 8, 0, 0, 0, loc), true},
		{"inside window", time.Date(2025, 3, 3, 12, 30, 0, 0, loc), true},
		{"at window end", time.Date(2025, 3, 3, 17, 0, 0, 0, loc), false},
		{"before opening", time.Date(2025, 3, 3, 7, 59, 0, 0, loc), false},
		{"saturday", time.Date(2025, 3, 8, 10, 0, 0, 0, loc), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.InBusinessHours(ctx, tc.at, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInBusinessHoursHoliday(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{
		windows: weekdayWindows(),
		holidays: []domain.HolidayEntry{
			{Date: time.Date(2025, 3, 3, 0, 0, 0, 0, loc), IsActive: true},
		},
	}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))

	inHours, err := calc.InBusinessHours(context.Background(), time.Date(2025, 3, 3, 12, 0, 0, 0, loc), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, inHours)
}

func TestNextBusinessHourStart(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))
	ctx := context.Background()
	opts := DefaultOptions()

	// Friday evening rolls to Monday opening.
	next, err := calc.NextBusinessHourStart(ctx, time.Date(2025, 3, 7, 18, 0, 0, 0, loc), opts)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, loc)))

	// Early Monday morning returns the same day's opening.
	next, err = calc.NextBusinessHourStart(ctx, time.Date(2025, 3, 3, 7, 0, 0, 0, loc), opts)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.Equal(time.Date(2025, 3, 3, 8, 0, 0, 0, loc)))

	// At the opening instant the next start must be strictly later.
	next, err = calc.NextBusinessHourStart(ctx, time.Date(2025, 3, 3, 8, 0, 0, 0, loc), opts)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.Equal(time.Date(2025, 3, 4, 8, 0, 0, 0, loc)))
}

func TestNextBusinessHourStartSkipsHoliday(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{
		windows: weekdayWindows(),
		holidays: []domain.HolidayEntry{
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, loc), IsActive: true}, // Monday
		},
	}
	calc := newTestCalculator(store, time.Date(2025, 3, 7, 18, 0, 0, 0, loc))

	next, err := calc.NextBusinessHourStart(context.Background(), time.Date(2025, 3, 7, 18, 0, 0, 0, loc), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.Equal(time.Date(2025, 3, 11, 8, 0, 0, 0, loc)))
}

func TestNextBusinessHourStartNoneWithinHorizon(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{}
	calc := newTestCalculator(store, time.Date(2025, 3, 3, 9, 0, 0, 0, loc))

	next, err := calc.NextBusinessHourStart(context.Background(), time.Date(2025, 3, 3, 9, 0, 0, 0, loc), DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestCalculateDueDateIdempotent(t *testing.T) {
	loc := jakarta(t)
	store := &configStoreStub{windows: weekdayWindows()}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	calc := newTestCalculator(store, start)

	first, err := calc.CalculateDueDate(context.Background(), start, 700, DefaultOptions())
	require.NoError(t, err)
	second, err := calc.CalculateDueDate(context.Background(), start, 700, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, first.DueDate.Equal(second.DueDate))
	// Configuration was served from cache the second time around.
	assert.Equal(t, 1, store.hoursCalls)
	assert.Equal(t, 1, store.holidayCalls)
}
