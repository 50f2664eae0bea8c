package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// BusinessHoursInput carries a business-hours window payload.
type BusinessHoursInput struct {
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
	UnitID       *string `json:"unit_id" validate:"omitempty,uuid"`
	DayOfWeek    int     `json:"day_of_week" validate:"min=0,max=6"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	IsActive     *bool   `json:"is_active"`
}

// HolidayInput carries a holiday payload. Date is "YYYY-MM-DD".
type HolidayInput struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Date         string  `json:"date" validate:"required"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
	UnitID       *string `json:"unit_id" validate:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}

// ScheduleService administers business-hours windows and holidays. Every
// successful write clears the calculator's configuration cache so the next
// SLA computation observes the new calendar.
type ScheduleService struct {
	hours      repository.BusinessHoursRepository
	holidays   repository.HolidayRepository
	calculator *sla.Calculator
	validator  *validator.Validate
	logger     *zap.Logger
}

// ScheduleDependencies bundles collaborators for the schedule service.
type ScheduleDependencies struct {
	BusinessHoursRepo repository.BusinessHoursRepository
	HolidayRepo       repository.HolidayRepository
	Calculator        *sla.Calculator
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		hours:      deps.BusinessHoursRepo,
		holidays:   deps.HolidayRepo,
		calculator: deps.Calculator,
		validator:  validate,
		logger:     logger,
	}
}

// CreateBusinessHours adds a window after validating the time strings and
// rejecting a second active window for the same scope and day.
func (s *ScheduleService) CreateBusinessHours(ctx context.Context, input BusinessHoursInput) (*domain.BusinessHoursWindow, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid business hours payload", map[string]any{"error": err.Error()})
	}
	if err := validateWindowTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	window := &domain.BusinessHoursWindow{
		DepartmentID: input.DepartmentID,
		UnitID:       input.UnitID,
		DayOfWeek:    input.DayOfWeek,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		IsActive:     true,
	}
	if input.IsActive != nil {
		window.IsActive = *input.IsActive
	}

	if window.IsActive {
		if err := s.checkWindowConflict(ctx, window, ""); err != nil {
			return nil, err
		}
	}
	if err := s.hours.Create(ctx, window); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate("business hours created", window.ID)
	return window, nil
}

// UpdateBusinessHours replaces a window's definition.
func (s *ScheduleService) UpdateBusinessHours(ctx context.Context, id string, input BusinessHoursInput) (*domain.BusinessHoursWindow, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid business hours payload", map[string]any{"error": err.Error()})
	}
	if err := validateWindowTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	window, err := s.hours.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	window.DepartmentID = input.DepartmentID
	window.UnitID = input.UnitID
	window.DayOfWeek = input.DayOfWeek
	window.StartTime = input.StartTime
	window.EndTime = input.EndTime
	if input.IsActive != nil {
		window.IsActive = *input.IsActive
	}

	if window.IsActive {
		if err := s.checkWindowConflict(ctx, window, window.ID); err != nil {
			return nil, err
		}
	}
	if err := s.hours.Update(ctx, window); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate("business hours updated", window.ID)
	return window, nil
}

// DeleteBusinessHours removes a window.
func (s *ScheduleService) DeleteBusinessHours(ctx context.Context, id string) error {
	if err := s.hours.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.invalidate("business hours deleted", id)
	return nil
}

// ListBusinessHours returns the windows configured for a scope.
func (s *ScheduleService) ListBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	return s.hours.ListForScope(ctx, departmentID, unitID)
}

// CreateHoliday adds a holiday entry.
func (s *ScheduleService) CreateHoliday(ctx context.Context, input HolidayInput) (*domain.HolidayEntry, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid holiday payload", map[string]any{"error": err.Error()})
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid holiday date, expected YYYY-MM-DD", map[string]any{"date": input.Date})
	}

	holiday := &domain.HolidayEntry{
		Name:         input.Name,
		Date:         date,
		DepartmentID: input.DepartmentID,
		UnitID:       input.UnitID,
		IsActive:     true,
	}
	if input.IsActive != nil {
		holiday.IsActive = *input.IsActive
	}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate("holiday created", holiday.ID)
	return holiday, nil
}

// UpdateHoliday replaces a holiday's definition.
func (s *ScheduleService) UpdateHoliday(ctx context.Context, id string, input HolidayInput) (*domain.HolidayEntry, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid holiday payload", map[string]any{"error": err.Error()})
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid holiday date, expected YYYY-MM-DD", map[string]any{"date": input.Date})
	}

	holiday, err := s.holidays.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	holiday.Name = input.Name
	holiday.Date = date
	holiday.DepartmentID = input.DepartmentID
	holiday.UnitID = input.UnitID
	if input.IsActive != nil {
		holiday.IsActive = *input.IsActive
	}
	if err := s.holidays.Update(ctx, holiday); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate("holiday updated", holiday.ID)
	return holiday, nil
}

// DeleteHoliday removes a holiday entry.
func (s *ScheduleService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.holidays.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.invalidate("holiday deleted", id)
	return nil
}

// ListHolidays returns holidays in [from, to].
func (s *ScheduleService) ListHolidays(ctx context.Context, from, to time.Time) ([]domain.HolidayEntry, error) {
	return s.holidays.List(ctx, from, to)
}

func (s *ScheduleService) checkWindowConflict(ctx context.Context, window *domain.BusinessHoursWindow, excludeID string) error {
	existing, err := s.hours.ListForScope(ctx, window.DepartmentID, window.UnitID)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, other := range existing {
		if other.ID == excludeID || !other.IsActive {
			continue
		}
		if other.DayOfWeek == window.DayOfWeek {
			return apperrors.NewConflict("active window already exists for scope and day", map[string]any{
				"day_of_week": window.DayOfWeek,
				"existing_id": other.ID,
			})
		}
	}
	return nil
}

func (s *ScheduleService) invalidate(reason, id string) {
	s.calculator.ClearCache()
	s.logger.Info("sla configuration changed, cache cleared",
		zap.String("reason", reason),
		zap.String("id", id),
	)
}

func validateWindowTimes(start, end string) error {
	startMin, err := sla.ParseTimeString(start)
	if err != nil {
		return apperrors.NewValidationError("invalid start_time, expected HH:MM", map[string]any{"start_time": start})
	}
	endMin, err := sla.ParseTimeString(end)
	if err != nil {
		return apperrors.NewValidationError("invalid end_time, expected HH:MM", map[string]any{"end_time": end})
	}
	if startMin >= endMin {
		return apperrors.NewValidationError("start_time must be before end_time", map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	}
	return nil
}
