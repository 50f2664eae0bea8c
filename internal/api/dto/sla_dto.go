package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// SLADueDateRequest payload for a deadline preview.
type SLADueDateRequest struct {
	Start             time.Time `json:"start"`
	SLAMinutes        int       `json:"sla_minutes"`
	DepartmentID      *string   `json:"department_id"`
	UnitID            *string   `json:"unit_id"`
	Timezone          string    `json:"timezone"`
	BusinessHoursOnly *bool     `json:"business_hours_only"`
}

// SLARangeRequest payload for business-minute counting.
type SLARangeRequest struct {
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	DepartmentID      *string   `json:"department_id"`
	UnitID            *string   `json:"unit_id"`
	Timezone          string    `json:"timezone"`
	BusinessHoursOnly *bool     `json:"business_hours_only"`
}

// SLAInstantRequest payload for point-in-time queries.
type SLAInstantRequest struct {
	At                time.Time `json:"at"`
	DepartmentID      *string   `json:"department_id"`
	UnitID            *string   `json:"unit_id"`
	Timezone          string    `json:"timezone"`
	BusinessHoursOnly *bool     `json:"business_hours_only"`
}

// SLAResultResponse mirrors a due-date computation.
type SLAResultResponse struct {
	DueDate                  time.Time  `json:"due_date"`
	BusinessMinutesRemaining int        `json:"business_minutes_remaining"`
	TotalMinutesRemaining    int        `json:"total_minutes_remaining"`
	IsOverdue                bool       `json:"is_overdue"`
	InBusinessHours          bool       `json:"in_business_hours"`
	HolidaysSkipped          []string   `json:"holidays_skipped"`
	NextBusinessHourStart    *time.Time `json:"next_business_hour_start"`
}

// SLAMinutesResponse wraps a minute count.
type SLAMinutesResponse struct {
	BusinessMinutes int `json:"business_minutes"`
}

// SLAInstantResponse wraps a point-in-time answer.
type SLAInstantResponse struct {
	InBusinessHours       bool       `json:"in_business_hours"`
	NextBusinessHourStart *time.Time `json:"next_business_hour_start,omitempty"`
}

// SLAResultFromDomain maps a calculator result.
func SLAResultFromDomain(result *sla.Result) SLAResultResponse {
	return SLAResultResponse{
		DueDate:                  result.DueDate,
		BusinessMinutesRemaining: result.BusinessMinutesRemaining,
		TotalMinutesRemaining:    result.TotalMinutesRemaining,
		IsOverdue:                result.IsOverdue,
		InBusinessHours:          result.InBusinessHours,
		HolidaysSkipped:          result.HolidaysSkipped,
		NextBusinessHourStart:    result.NextBusinessHourStart,
	}
}
