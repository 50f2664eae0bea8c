package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SLAConfigStore adapts the schedule repositories to the calculator's store
// interface.
type SLAConfigStore struct {
	hours    BusinessHoursRepository
	holidays HolidayRepository
}

// NewSLAConfigStore bundles the two configuration lookups.
func NewSLAConfigStore(hours BusinessHoursRepository, holidays HolidayRepository) *SLAConfigStore {
	return &SLAConfigStore{hours: hours, holidays: holidays}
}

// ActiveBusinessHours implements sla.Store.
func (s *SLAConfigStore) ActiveBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	return s.hours.ActiveForScope(ctx, departmentID, unitID)
}

// ActiveHolidays implements sla.Store.
func (s *SLAConfigStore) ActiveHolidays(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	return s.holidays.ActiveForScope(ctx, departmentID, unitID, from, to)
}
