package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogInput carries a service catalog payload.
type CatalogInput struct {
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"is_active"`
}

// CatalogItemInput carries an orderable item payload. SLAMinutes maps
// priority to the business-minute budget applied at ticket creation.
type CatalogItemInput struct {
	CatalogID   string                        `json:"catalog_id" validate:"required,uuid"`
	UnitID      *string                       `json:"unit_id" validate:"omitempty,uuid"`
	Name        string                        `json:"name" validate:"required,max=200"`
	Description string                        `json:"description"`
	SLAMinutes  map[domain.TicketPriority]int `json:"sla_minutes" validate:"required"`
	IsActive    *bool                         `json:"is_active"`
}

// TemplateFieldInput carries one form field payload.
type TemplateFieldInput struct {
	Label     string   `json:"label" validate:"required,max=200"`
	FieldType string   `json:"field_type" validate:"required"`
	Required  bool     `json:"required"`
	Options   []string `json:"options"`
	SortOrder int      `json:"sort_order"`
}

// TemplateInput carries a form template payload.
type TemplateInput struct {
	ItemID string               `json:"item_id" validate:"required,uuid"`
	Name   string               `json:"name" validate:"required,max=200"`
	Fields []TemplateFieldInput `json:"fields" validate:"dive"`
}

// CatalogService administers the self-service catalog hierarchy.
type CatalogService struct {
	catalog     repository.CatalogRepository
	departments repository.DepartmentRepository
	units       repository.UnitRepository
	validator   *validator.Validate
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog repository.CatalogRepository, departments repository.DepartmentRepository, units repository.UnitRepository, validate *validator.Validate) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{
		catalog:     catalog,
		departments: departments,
		units:       units,
		validator:   validate,
	}
}

// CreateCatalog adds a catalog for a department.
func (s *CatalogService) CreateCatalog(ctx context.Context, input CatalogInput) (*domain.ServiceCatalog, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid catalog payload", map[string]any{"error": err.Error()})
	}
	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		return nil, apperrors.MapError(err)
	}

	catalog := &domain.ServiceCatalog{
		DepartmentID: input.DepartmentID,
		Name:         input.Name,
		Description:  input.Description,
		IsActive:     true,
	}
	if input.IsActive != nil {
		catalog.IsActive = *input.IsActive
	}
	if err := s.catalog.CreateCatalog(ctx, catalog); err != nil {
		return nil, apperrors.MapError(err)
	}
	return catalog, nil
}

// UpdateCatalog replaces a catalog's definition.
func (s *CatalogService) UpdateCatalog(ctx context.Context, id string, input CatalogInput) (*domain.ServiceCatalog, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid catalog payload", map[string]any{"error": err.Error()})
	}
	catalog, err := s.catalog.GetCatalog(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	catalog.DepartmentID = input.DepartmentID
	catalog.Name = input.Name
	catalog.Description = input.Description
	if input.IsActive != nil {
		catalog.IsActive = *input.IsActive
	}
	if err := s.catalog.UpdateCatalog(ctx, catalog); err != nil {
		return nil, apperrors.MapError(err)
	}
	return catalog, nil
}

// ListCatalogs returns catalogs, optionally scoped to one department.
func (s *CatalogService) ListCatalogs(ctx context.Context, departmentID *string) ([]domain.ServiceCatalog, error) {
	return s.catalog.ListCatalogs(ctx, departmentID)
}

// CreateItem adds an orderable item to a catalog.
func (s *CatalogService) CreateItem(ctx context.Context, input CatalogItemInput) (*domain.CatalogItem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid catalog item payload", map[string]any{"error": err.Error()})
	}
	if err := validateSLAMinutes(input.SLAMinutes); err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetCatalog(ctx, input.CatalogID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.UnitID != nil {
		unit, err := s.units.GetByID(ctx, *input.UnitID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if unit.DepartmentID != catalog.DepartmentID {
			return nil, apperrors.NewValidationError("unit not part of catalog department", nil)
		}
	}

	item := &domain.CatalogItem{
		CatalogID:   input.CatalogID,
		UnitID:      input.UnitID,
		Name:        input.Name,
		Description: input.Description,
		SLAMinutes:  input.SLAMinutes,
		IsActive:    true,
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if err := s.catalog.CreateItem(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// UpdateItem replaces an item's definition.
func (s *CatalogService) UpdateItem(ctx context.Context, id string, input CatalogItemInput) (*domain.CatalogItem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid catalog item payload", map[string]any{"error": err.Error()})
	}
	if err := validateSLAMinutes(input.SLAMinutes); err != nil {
		return nil, err
	}
	item, err := s.catalog.GetItem(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	item.UnitID = input.UnitID
	item.Name = input.Name
	item.Description = input.Description
	item.SLAMinutes = input.SLAMinutes
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// GetItem fetches one item.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	item, err := s.catalog.GetItem(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// ListItems returns a catalog's items.
func (s *CatalogService) ListItems(ctx context.Context, catalogID string) ([]domain.CatalogItem, error) {
	return s.catalog.ListItems(ctx, catalogID)
}

// CreateTemplate adds a form template (with fields) to an item.
func (s *CatalogService) CreateTemplate(ctx context.Context, input TemplateInput) (*domain.ItemTemplate, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid template payload", map[string]any{"error": err.Error()})
	}
	if _, err := s.catalog.GetItem(ctx, input.ItemID); err != nil {
		return nil, apperrors.MapError(err)
	}

	template := &domain.ItemTemplate{
		ItemID:   input.ItemID,
		Name:     input.Name,
		IsActive: true,
	}
	if err := s.catalog.CreateTemplate(ctx, template); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, fieldInput := range input.Fields {
		fieldType, err := parseFieldType(fieldInput.FieldType)
		if err != nil {
			return nil, err
		}
		field := &domain.TemplateField{
			TemplateID: template.ID,
			Label:      fieldInput.Label,
			FieldType:  fieldType,
			Required:   fieldInput.Required,
			Options:    fieldInput.Options,
			SortOrder:  fieldInput.SortOrder,
		}
		if err := s.catalog.CreateField(ctx, field); err != nil {
			return nil, apperrors.MapError(err)
		}
		template.Fields = append(template.Fields, *field)
	}
	return template, nil
}

// ListTemplates returns an item's templates with their fields.
func (s *CatalogService) ListTemplates(ctx context.Context, itemID string) ([]domain.ItemTemplate, error) {
	return s.catalog.ListTemplates(ctx, itemID)
}

func validateSLAMinutes(minutes map[domain.TicketPriority]int) error {
	for priority, budget := range minutes {
		switch priority {
		case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityUrgent:
		default:
			return apperrors.NewValidationError("unknown priority in sla_minutes", map[string]any{"priority": priority})
		}
		if budget <= 0 {
			return apperrors.NewValidationError("sla_minutes values must be positive", map[string]any{"priority": priority})
		}
	}
	return nil
}

func parseFieldType(raw string) (domain.TemplateFieldType, error) {
	switch domain.TemplateFieldType(raw) {
	case domain.FieldTypeText, domain.FieldTypeTextarea, domain.FieldTypeNumber,
		domain.FieldTypeDate, domain.FieldTypeSelect, domain.FieldTypeCheckbox:
		return domain.TemplateFieldType(raw), nil
	default:
		return "", apperrors.NewValidationError("unknown field type", map[string]any{"field_type": raw})
	}
}
