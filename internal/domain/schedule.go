package domain

import "time"

// BusinessHoursWindow defines the open interval for one day of week within
// an organizational scope. StartTime/EndTime are "HH:MM" wall-clock strings
// interpreted in the operational timezone.
type BusinessHoursWindow struct {
	ID           string
	DepartmentID *string
	UnitID       *string
	DayOfWeek    int // 0=Sunday .. 6=Saturday
	StartTime    string
	EndTime      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HolidayEntry marks a calendar date on which no business time accrues.
// A nil DepartmentID and nil UnitID means the holiday applies globally.
type HolidayEntry struct {
	ID           string
	Name         string
	Date         time.Time
	DepartmentID *string
	UnitID       *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
