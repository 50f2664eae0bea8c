package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// BusinessHoursResponse represents one configured window.
type BusinessHoursResponse struct {
	ID           string    `json:"id"`
	DepartmentID *string   `json:"department_id"`
	UnitID       *string   `json:"unit_id"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HolidayResponse represents one holiday entry.
type HolidayResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	DepartmentID *string   `json:"department_id"`
	UnitID       *string   `json:"unit_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BusinessHoursFromDomain maps a window.
func BusinessHoursFromDomain(window *domain.BusinessHoursWindow) BusinessHoursResponse {
	return BusinessHoursResponse{
		ID:           window.ID,
		DepartmentID: window.DepartmentID,
		UnitID:       window.UnitID,
		DayOfWeek:    window.DayOfWeek,
		StartTime:    window.StartTime,
		EndTime:      window.EndTime,
		IsActive:     window.IsActive,
		CreatedAt:    window.CreatedAt,
		UpdatedAt:    window.UpdatedAt,
	}
}

// HolidayFromDomain maps a holiday.
func HolidayFromDomain(holiday *domain.HolidayEntry) HolidayResponse {
	return HolidayResponse{
		ID:           holiday.ID,
		Name:         holiday.Name,
		Date:         holiday.Date.Format("2006-01-02"),
		DepartmentID: holiday.DepartmentID,
		UnitID:       holiday.UnitID,
		IsActive:     holiday.IsActive,
		CreatedAt:    holiday.CreatedAt,
		UpdatedAt:    holiday.UpdatedAt,
	}
}
