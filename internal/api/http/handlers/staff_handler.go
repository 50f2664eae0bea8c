package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// StaffHandler exposes staff auth and organization admin endpoints.
type StaffHandler struct {
	authService *service.AuthService
	orgService  *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, orgService *service.StaffService) *StaffHandler {
	return &StaffHandler{authService: authService, orgService: orgService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	staff, token, exp, err := h.authService.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": staffResponse(staff),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	subject := service.AuthSubject{Type: principal.SubjectType}
	switch {
	case principal.User != nil:
		subject.ID = principal.User.ID
	case principal.Staff != nil:
		subject.ID = principal.Staff.ID
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.authService.ChangePassword(c.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// CreateDepartment handles POST /staff/departments.
func (h *StaffHandler) CreateDepartment(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code == "" || req.Name == "" {
		return apperrors.NewValidationError("code and name required", nil)
	}
	dept, err := h.orgService.CreateDepartment(c.Context(), admin, req.Code, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// ListDepartments handles GET /staff/departments.
func (h *StaffHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.orgService.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		resp = append(resp, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetDepartment handles GET /staff/departments/:id.
func (h *StaffHandler) GetDepartment(c *fiber.Ctx) error {
	dept, err := h.orgService.GetDepartmentByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// UpdateDepartment handles PUT /staff/departments/:id.
func (h *StaffHandler) UpdateDepartment(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	dept, err := h.orgService.GetDepartmentByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	var req struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code != "" {
		dept.Code = req.Code
	}
	if req.Name != "" {
		dept.Name = req.Name
	}
	if req.Description != "" {
		dept.Description = req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	updated, err := h.orgService.UpdateDepartment(c.Context(), admin, dept)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(updated)})
}

// CreateUnit handles POST /staff/units.
func (h *StaffHandler) CreateUnit(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == "" || req.Name == "" {
		return apperrors.NewValidationError("department_id and name required", nil)
	}
	unit, err := h.orgService.CreateUnit(c.Context(), admin, req.DepartmentID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": unitResponse(unit)})
}

// ListUnits handles GET /staff/departments/:id/units.
func (h *StaffHandler) ListUnits(c *fiber.Ctx) error {
	units, err := h.orgService.ListUnits(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		resp = append(resp, unitResponse(&units[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateStaff handles POST /staff/members.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email, password, role required", nil)
	}
	staff, err := h.orgService.CreateStaffMember(c.Context(), admin, req.Name, req.Email, req.Password, req.Role, req.UnitID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// ListStaff handles GET /staff/departments/:id/members.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	list, err := h.orgService.ListStaffMembers(c.Context(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateStaff handles PUT /staff/members/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	admin, err := h.requireAdminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.orgService.UpdateStaffMember(c.Context(), admin, c.Params("id"), req.Name, req.Email, req.Role, req.UnitID, req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(updated)})
}

func (h *StaffHandler) requireAdminPrincipal(c *fiber.Ctx) (*domain.StaffMember, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return nil, apperrors.NewUnauthorized("staff authentication required")
	}
	if principal.Staff.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return principal.Staff, nil
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          dept.ID,
		Code:        dept.Code,
		Name:        dept.Name,
		Description: dept.Description,
		IsActive:    dept.IsActive,
	}
}

func unitResponse(unit *domain.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:           unit.ID,
		DepartmentID: unit.DepartmentID,
		Name:         unit.Name,
		Description:  unit.Description,
		IsActive:     unit.IsActive,
	}
}

func staffResponse(staff *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:           staff.ID,
		Name:         staff.Name,
		Email:        staff.Email,
		Role:         staff.Role,
		DepartmentID: staff.DepartmentID,
		UnitID:       staff.UnitID,
		Active:       staff.Active,
	}
}
