package domain

import "time"

// Unit represents an organizational sub-group under a department. Units and
// departments together form the scope for business-hours and holiday
// configuration.
type Unit struct {
	ID           string
	DepartmentID string
	Name         string
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
