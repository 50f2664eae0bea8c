package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// StaffService manages organization entities and staff members.
type StaffService struct {
	departments repository.DepartmentRepository
	units       repository.UnitRepository
	staff       repository.StaffRepository
	bcryptCost  int
}

// OrgDependencies encapsulates repositories required for org management.
type OrgDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	UnitRepo       repository.UnitRepository
	StaffRepo      repository.StaffRepository
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps OrgDependencies) *StaffService {
	return &StaffService{
		departments: deps.DepartmentRepo,
		units:       deps.UnitRepo,
		staff:       deps.StaffRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor *domain.StaffMember) error {
	if actor == nil || actor.Role != domain.StaffRoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateDepartment creates a new department.
func (s *StaffService) CreateDepartment(ctx context.Context, actor *domain.StaffMember, code, name, description string) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	dept := &domain.Department{
		Code:        code,
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments.
func (s *StaffService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.ListActive(ctx)
}

// GetDepartmentByID fetches a department.
func (s *StaffService) GetDepartmentByID(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment modifies department metadata.
func (s *StaffService) UpdateDepartment(ctx context.Context, actor *domain.StaffMember, dept *domain.Department) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// CreateUnit creates a unit under a department.
func (s *StaffService) CreateUnit(ctx context.Context, actor *domain.StaffMember, departmentID, name, description string) (*domain.Unit, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": departmentID})
	}
	unit := &domain.Unit{
		DepartmentID: departmentID,
		Name:         name,
		Description:  description,
		IsActive:     true,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, apperrors.MapError(err)
	}
	return unit, nil
}

// ListUnits lists units under a department.
func (s *StaffService) ListUnits(ctx context.Context, departmentID string) ([]domain.Unit, error) {
	return s.units.ListByDepartment(ctx, departmentID)
}

// UpdateUnit updates unit metadata.
func (s *StaffService) UpdateUnit(ctx context.Context, actor *domain.StaffMember, unit *domain.Unit) (*domain.Unit, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if unit.DepartmentID != "" {
		if dept, err := s.departments.GetByID(ctx, unit.DepartmentID); err != nil {
			return nil, apperrors.MapError(err)
		} else if !dept.IsActive {
			return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": unit.DepartmentID})
		}
	}
	if err := s.units.Update(ctx, unit); err != nil {
		return nil, apperrors.MapError(err)
	}
	return unit, nil
}

// CreateStaffMember adds a new staff account.
func (s *StaffService) CreateStaffMember(ctx context.Context, actor *domain.StaffMember, name, email, password string, role domain.StaffRole, unitID *string) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if existing, err := s.staff.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("staff email already exists", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	departmentID, err := s.resolveUnitDepartment(ctx, unitID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.StaffMember{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DepartmentID: departmentID,
		UnitID:       unitID,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListStaffMembers lists staff for a department.
func (s *StaffService) ListStaffMembers(ctx context.Context, actor *domain.StaffMember, departmentID string) ([]domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.staff.ListByDepartment(ctx, departmentID)
}

// GetStaffMemberByID fetches staff.
func (s *StaffService) GetStaffMemberByID(ctx context.Context, actor *domain.StaffMember, id string) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// UpdateStaffMember updates staff details.
func (s *StaffService) UpdateStaffMember(ctx context.Context, actor *domain.StaffMember, staffID, name, email string, role domain.StaffRole, unitID *string, active bool) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if email != "" && email != staff.Email {
		if existing, err := s.staff.GetByEmail(ctx, email); err == nil && existing != nil && existing.ID != staff.ID {
			return nil, apperrors.NewConflict("staff email already exists", map[string]any{"email": email})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	departmentID, err := s.resolveUnitDepartment(ctx, unitID)
	if err != nil {
		return nil, err
	}

	staff.Name = name
	staff.Email = email
	staff.Role = role
	staff.UnitID = unitID
	staff.DepartmentID = departmentID
	staff.Active = active

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

func (s *StaffService) resolveUnitDepartment(ctx context.Context, unitID *string) (*string, error) {
	if unitID == nil || *unitID == "" {
		return nil, nil
	}
	unit, err := s.units.GetByID(ctx, *unitID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !unit.IsActive {
		return nil, apperrors.NewConflict("unit inactive", map[string]any{"unit_id": *unitID})
	}
	return &unit.DepartmentID, nil
}
