package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type mockHoursRepo struct {
	windows map[string]domain.BusinessHoursWindow
	nextID  int
}

func (m *mockHoursRepo) Create(ctx context.Context, window *domain.BusinessHoursWindow) error {
	if m.windows == nil {
		m.windows = make(map[string]domain.BusinessHoursWindow)
	}
	m.nextID++
	window.ID = "bh-" + string(rune('0'+m.nextID))
	m.windows[window.ID] = *window
	return nil
}

func (m *mockHoursRepo) Update(ctx context.Context, window *domain.BusinessHoursWindow) error {
	if _, ok := m.windows[window.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.windows[window.ID] = *window
	return nil
}

func (m *mockHoursRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.windows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.windows, id)
	return nil
}

func (m *mockHoursRepo) GetByID(ctx context.Context, id string) (*domain.BusinessHoursWindow, error) {
	if w, ok := m.windows[id]; ok {
		return &w, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockHoursRepo) ListForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	out := []domain.BusinessHoursWindow{}
	for _, w := range m.windows {
		if equalScope(w.DepartmentID, departmentID) && equalScope(w.UnitID, unitID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockHoursRepo) ActiveForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	all, _ := m.ListForScope(ctx, departmentID, unitID)
	out := []domain.BusinessHoursWindow{}
	for _, w := range all {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

type mockHolidayRepo struct {
	holidays map[string]domain.HolidayEntry
	nextID   int
}

func (m *mockHolidayRepo) Create(ctx context.Context, holiday *domain.HolidayEntry) error {
	if m.holidays == nil {
		m.holidays = make(map[string]domain.HolidayEntry)
	}
	m.nextID++
	holiday.ID = "hd-" + string(rune('0'+m.nextID))
	m.holidays[holiday.ID] = *holiday
	return nil
}

func (m *mockHolidayRepo) Update(ctx context.Context, holiday *domain.HolidayEntry) error {
	if _, ok := m.holidays[holiday.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.holidays[holiday.ID] = *holiday
	return nil
}

func (m *mockHolidayRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.holidays[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.holidays, id)
	return nil
}

func (m *mockHolidayRepo) GetByID(ctx context.Context, id string) (*domain.HolidayEntry, error) {
	if h, ok := m.holidays[id]; ok {
		return &h, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockHolidayRepo) List(ctx context.Context, from, to time.Time) ([]domain.HolidayEntry, error) {
	out := []domain.HolidayEntry{}
	for _, h := range m.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolidayRepo) ActiveForScope(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	all, _ := m.List(ctx, from, to)
	out := []domain.HolidayEntry{}
	for _, h := range all {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out, nil
}

func equalScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type scheduleStoreStub struct{}

func (scheduleStoreStub) ActiveBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	return nil, nil
}

func (scheduleStoreStub) ActiveHolidays(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	return nil, nil
}

func newScheduleService(hours *mockHoursRepo, holidays *mockHolidayRepo) (*ScheduleService, *sla.Calculator) {
	calc := sla.NewCalculator(scheduleStoreStub{}, 30*time.Minute, zap.NewNop())
	svc := NewScheduleService(ScheduleDependencies{
		BusinessHoursRepo: hours,
		HolidayRepo:       holidays,
		Calculator:        calc,
	}, validator.New(), zap.NewNop())
	return svc, calc
}

func TestScheduleServiceCreateBusinessHours(t *testing.T) {
	hours := &mockHoursRepo{}
	svc, _ := newScheduleService(hours, &mockHolidayRepo{})

	window, err := svc.CreateBusinessHours(context.Background(), BusinessHoursInput{
		DayOfWeek: 1,
		StartTime: "08:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, window.ID)
	assert.True(t, window.IsActive)
	assert.Equal(t, 1, len(hours.windows))
}

func TestScheduleServiceRejectsInvalidTimes(t *testing.T) {
	svc, _ := newScheduleService(&mockHoursRepo{}, &mockHolidayRepo{})

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"bad format", "8am", "17:00"},
		{"out of range", "25:00", "26:00"},
		{"start after end", "17:00", "08:00"},
		{"start equals end", "09:00", "09:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBusinessHours(context.Background(), BusinessHoursInput{
				DayOfWeek: 1,
				StartTime: tc.start,
				EndTime:   tc.end,
			})
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
}

func TestScheduleServiceRejectsDuplicateWindow(t *testing.T) {
	hours := &mockHoursRepo{}
	svc, _ := newScheduleService(hours, &mockHolidayRepo{})

	_, err := svc.CreateBusinessHours(context.Background(), BusinessHoursInput{
		DayOfWeek: 2,
		StartTime: "08:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	_, err = svc.CreateBusinessHours(context.Background(), BusinessHoursInput{
		DayOfWeek: 2,
		StartTime: "09:00",
		EndTime:   "18:00",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	// Inactive windows for the same day are allowed.
	inactive := false
	_, err = svc.CreateBusinessHours(context.Background(), BusinessHoursInput{
		DayOfWeek: 2,
		StartTime: "09:00",
		EndTime:   "18:00",
		IsActive:  &inactive,
	})
	require.NoError(t, err)
}

func TestScheduleServiceHolidayLifecycle(t *testing.T) {
	holidays := &mockHolidayRepo{}
	svc, _ := newScheduleService(&mockHoursRepo{}, holidays)

	holiday, err := svc.CreateHoliday(context.Background(), HolidayInput{
		Name: "Independence Day",
		Date: "2025-08-17",
	})
	require.NoError(t, err)
	assert.True(t, holiday.IsActive)
	assert.Equal(t, time.August, holiday.Date.Month())

	holiday, err = svc.UpdateHoliday(context.Background(), holiday.ID, HolidayInput{
		Name: "Independence Day (observed)",
		Date: "2025-08-18",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, holiday.Date.Day())

	require.NoError(t, svc.DeleteHoliday(context.Background(), holiday.ID))
	assert.Empty(t, holidays.holidays)
}

func TestScheduleServiceRejectsBadHolidayDate(t *testing.T) {
	svc, _ := newScheduleService(&mockHoursRepo{}, &mockHolidayRepo{})

	_, err := svc.CreateHoliday(context.Background(), HolidayInput{
		Name: "Broken",
		Date: "17-08-2025",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
