package sla

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Store supplies the business-hours and holiday configuration the calculator
// reads. Implemented by the pgx repositories; fetch failures propagate to the
// caller unchanged and are never cached.
type Store interface {
	// ActiveBusinessHours returns active windows matching the exact
	// (departmentID, unitID) pair, ordered ascending by day of week.
	ActiveBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error)

	// ActiveHolidays returns active holiday entries whose scope matches the
	// department, the unit, or is global, restricted to dates in [from, to].
	ActiveHolidays(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error)
}
