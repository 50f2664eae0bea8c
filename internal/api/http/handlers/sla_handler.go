package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SLAHandler exposes calculator preview endpoints for staff.
type SLAHandler struct {
	service *service.SLAService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(slaService *service.SLAService) *SLAHandler {
	return &SLAHandler{service: slaService}
}

// DueDate POST /staff/sla/due-date.
func (h *SLAHandler) DueDate(c *fiber.Ctx) error {
	var req dto.SLADueDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Start.IsZero() {
		return apperrors.NewValidationError("start required", nil)
	}
	result, err := h.service.DueDate(c.Context(), req.Start, req.SLAMinutes, service.SLAQuery{
		DepartmentID:      req.DepartmentID,
		UnitID:            req.UnitID,
		Timezone:          req.Timezone,
		BusinessHoursOnly: req.BusinessHoursOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SLAResultFromDomain(result)})
}

// BusinessMinutes POST /staff/sla/business-minutes.
func (h *SLAHandler) BusinessMinutes(c *fiber.Ctx) error {
	var req dto.SLARangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return apperrors.NewValidationError("from and to required", nil)
	}
	minutes, err := h.service.BusinessMinutes(c.Context(), req.From, req.To, service.SLAQuery{
		DepartmentID:      req.DepartmentID,
		UnitID:            req.UnitID,
		Timezone:          req.Timezone,
		BusinessHoursOnly: req.BusinessHoursOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SLAMinutesResponse{BusinessMinutes: minutes}})
}

// Instant POST /staff/sla/instant.
func (h *SLAHandler) Instant(c *fiber.Ctx) error {
	var req dto.SLAInstantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.At.IsZero() {
		return apperrors.NewValidationError("at required", nil)
	}
	query := service.SLAQuery{
		DepartmentID:      req.DepartmentID,
		UnitID:            req.UnitID,
		Timezone:          req.Timezone,
		BusinessHoursOnly: req.BusinessHoursOnly,
	}
	inside, err := h.service.InBusinessHours(c.Context(), req.At, query)
	if err != nil {
		return err
	}
	resp := dto.SLAInstantResponse{InBusinessHours: inside}
	if !inside {
		next, err := h.service.NextBusinessHourStart(c.Context(), req.At, query)
		if err != nil {
			return err
		}
		resp.NextBusinessHourStart = next
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ClearCache POST /staff/sla/cache/clear.
func (h *SLAHandler) ClearCache(c *fiber.Ctx) error {
	h.service.ClearCache()
	return c.JSON(fiber.Map{"data": fiber.Map{"cleared": true}})
}
