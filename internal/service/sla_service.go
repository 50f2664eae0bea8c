package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SLAService exposes the calculator to the preview API and stamps metrics
// on every computation.
type SLAService struct {
	calculator *sla.Calculator
	metrics    *observability.Metrics
	timezone   string
}

// NewSLAService constructs the service.
func NewSLAService(calculator *sla.Calculator, metrics *observability.Metrics, timezone string) *SLAService {
	return &SLAService{
		calculator: calculator,
		metrics:    metrics,
		timezone:   timezone,
	}
}

// SLAQuery scopes a preview computation.
type SLAQuery struct {
	DepartmentID      *string
	UnitID            *string
	Timezone          string
	BusinessHoursOnly *bool
}

func (s *SLAService) options(q SLAQuery) sla.Options {
	opts := sla.DefaultOptions()
	opts.Timezone = s.timezone
	opts.DepartmentID = q.DepartmentID
	opts.UnitID = q.UnitID
	if q.Timezone != "" {
		opts.Timezone = q.Timezone
	}
	if q.BusinessHoursOnly != nil {
		opts.BusinessHoursOnly = *q.BusinessHoursOnly
	}
	return opts
}

// DueDate computes a deadline preview.
func (s *SLAService) DueDate(ctx context.Context, start time.Time, slaMinutes int, q SLAQuery) (*sla.Result, error) {
	if slaMinutes <= 0 {
		return nil, apperrors.NewValidationError("sla_minutes must be positive", map[string]any{"sla_minutes": slaMinutes})
	}
	result, err := s.calculator.CalculateDueDate(ctx, start, slaMinutes, s.options(q))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordSLAComputation()
	return result, nil
}

// BusinessMinutes counts business minutes between two instants.
func (s *SLAService) BusinessMinutes(ctx context.Context, from, to time.Time, q SLAQuery) (int, error) {
	minutes, err := s.calculator.BusinessMinutesBetween(ctx, from, to, s.options(q))
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.metrics.RecordSLAComputation()
	return minutes, nil
}

// InBusinessHours reports whether an instant falls inside a window.
func (s *SLAService) InBusinessHours(ctx context.Context, at time.Time, q SLAQuery) (bool, error) {
	inside, err := s.calculator.InBusinessHours(ctx, at, s.options(q))
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return inside, nil
}

// NextBusinessHourStart finds the next window opening strictly after from.
func (s *SLAService) NextBusinessHourStart(ctx context.Context, from time.Time, q SLAQuery) (*time.Time, error) {
	next, err := s.calculator.NextBusinessHourStart(ctx, from, s.options(q))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return next, nil
}

// ClearCache drops cached configuration.
func (s *SLAService) ClearCache() {
	s.calculator.ClearCache()
}
