package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ScheduleHandler administers business-hours windows and holidays.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: scheduleService}
}

// CreateBusinessHours POST /staff/schedule/business-hours.
func (h *ScheduleHandler) CreateBusinessHours(c *fiber.Ctx) error {
	var req service.BusinessHoursInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	window, err := h.service.CreateBusinessHours(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.BusinessHoursFromDomain(window)})
}

// UpdateBusinessHours PUT /staff/schedule/business-hours/:id.
func (h *ScheduleHandler) UpdateBusinessHours(c *fiber.Ctx) error {
	var req service.BusinessHoursInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	window, err := h.service.UpdateBusinessHours(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BusinessHoursFromDomain(window)})
}

// DeleteBusinessHours DELETE /staff/schedule/business-hours/:id.
func (h *ScheduleHandler) DeleteBusinessHours(c *fiber.Ctx) error {
	if err := h.service.DeleteBusinessHours(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListBusinessHours GET /staff/schedule/business-hours.
func (h *ScheduleHandler) ListBusinessHours(c *fiber.Ctx) error {
	var departmentID, unitID *string
	if val := c.Query("department_id"); val != "" {
		departmentID = &val
	}
	if val := c.Query("unit_id"); val != "" {
		unitID = &val
	}
	windows, err := h.service.ListBusinessHours(c.Context(), departmentID, unitID)
	if err != nil {
		return err
	}
	resp := make([]dto.BusinessHoursResponse, 0, len(windows))
	for i := range windows {
		resp = append(resp, dto.BusinessHoursFromDomain(&windows[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateHoliday POST /staff/schedule/holidays.
func (h *ScheduleHandler) CreateHoliday(c *fiber.Ctx) error {
	var req service.HolidayInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	holiday, err := h.service.CreateHoliday(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.HolidayFromDomain(holiday)})
}

// UpdateHoliday PUT /staff/schedule/holidays/:id.
func (h *ScheduleHandler) UpdateHoliday(c *fiber.Ctx) error {
	var req service.HolidayInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	holiday, err := h.service.UpdateHoliday(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HolidayFromDomain(holiday)})
}

// DeleteHoliday DELETE /staff/schedule/holidays/:id.
func (h *ScheduleHandler) DeleteHoliday(c *fiber.Ctx) error {
	if err := h.service.DeleteHoliday(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListHolidays GET /staff/schedule/holidays.
func (h *ScheduleHandler) ListHolidays(c *fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(1, 0, 0)
	if val := parseTime(c.Query("from")); val != nil {
		from = *val
	}
	if val := parseTime(c.Query("to")); val != nil {
		to = *val
	}
	holidays, err := h.service.ListHolidays(c.Context(), from, to)
	if err != nil {
		return err
	}
	resp := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		resp = append(resp, dto.HolidayFromDomain(&holidays[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}
