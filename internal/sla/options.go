package sla

import "time"

// DefaultTimezone is the operational timezone applied when none is given.
const DefaultTimezone = "Asia/Jakarta"

// Options scopes a single calculation. Zero scope IDs mean the global
// configuration. BusinessHoursOnly defaults to true via DefaultOptions; when
// false the SLA math degenerates to naive wall-clock minute arithmetic.
type Options struct {
	DepartmentID      *string
	UnitID            *string
	Timezone          string
	BusinessHoursOnly bool
}

// DefaultOptions returns options with the documented defaults applied.
func DefaultOptions() Options {
	return Options{
		Timezone:          DefaultTimezone,
		BusinessHoursOnly: true,
	}
}

// location resolves the configured IANA timezone, falling back to the
// default. The process-local zone is never consulted.
func (o Options) location() (*time.Location, error) {
	name := o.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// Result is the complete answer to a due-date computation. HolidaysSkipped
// lists, in walk order, the ISO dates excluded on the way to the due date.
// NextBusinessHourStart is nil when no window opens within the look-ahead
// horizon; that is a boundary condition, not an error.
type Result struct {
	DueDate                  time.Time
	BusinessMinutesRemaining int
	TotalMinutesRemaining    int
	IsOverdue                bool
	InBusinessHours          bool
	HolidaysSkipped          []string
	NextBusinessHourStart    *time.Time
}
