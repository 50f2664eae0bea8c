package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CatalogResponse represents a service catalog.
type CatalogResponse struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CatalogItemResponse represents an orderable item.
type CatalogItemResponse struct {
	ID          string                        `json:"id"`
	CatalogID   string                        `json:"catalog_id"`
	UnitID      *string                       `json:"unit_id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	SLAMinutes  map[domain.TicketPriority]int `json:"sla_minutes"`
	IsActive    bool                          `json:"is_active"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// TemplateFieldResponse represents a form field.
type TemplateFieldResponse struct {
	ID        string                   `json:"id"`
	Label     string                   `json:"label"`
	FieldType domain.TemplateFieldType `json:"field_type"`
	Required  bool                     `json:"required"`
	Options   []string                 `json:"options"`
	SortOrder int                      `json:"sort_order"`
}

// TemplateResponse represents a form template with its fields.
type TemplateResponse struct {
	ID     string                  `json:"id"`
	ItemID string                  `json:"item_id"`
	Name   string                  `json:"name"`
	Fields []TemplateFieldResponse `json:"fields"`
}

// CatalogFromDomain maps a catalog.
func CatalogFromDomain(catalog *domain.ServiceCatalog) CatalogResponse {
	return CatalogResponse{
		ID:           catalog.ID,
		DepartmentID: catalog.DepartmentID,
		Name:         catalog.Name,
		Description:  catalog.Description,
		IsActive:     catalog.IsActive,
		CreatedAt:    catalog.CreatedAt,
		UpdatedAt:    catalog.UpdatedAt,
	}
}

// CatalogItemFromDomain maps an item.
func CatalogItemFromDomain(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:          item.ID,
		CatalogID:   item.CatalogID,
		UnitID:      item.UnitID,
		Name:        item.Name,
		Description: item.Description,
		SLAMinutes:  item.SLAMinutes,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// TemplateFromDomain maps a template with fields.
func TemplateFromDomain(template *domain.ItemTemplate) TemplateResponse {
	fields := make([]TemplateFieldResponse, 0, len(template.Fields))
	for _, field := range template.Fields {
		fields = append(fields, TemplateFieldResponse{
			ID:        field.ID,
			Label:     field.Label,
			FieldType: field.FieldType,
			Required:  field.Required,
			Options:   field.Options,
			SortOrder: field.SortOrder,
		})
	}
	return TemplateResponse{
		ID:     template.ID,
		ItemID: template.ItemID,
		Name:   template.Name,
		Fields: fields,
	}
}
