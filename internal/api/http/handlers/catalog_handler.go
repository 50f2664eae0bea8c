package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogHandler exposes the self-service catalog hierarchy.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// ListCatalogs GET /catalogs.
func (h *CatalogHandler) ListCatalogs(c *fiber.Ctx) error {
	var departmentID *string
	if val := c.Query("department_id"); val != "" {
		departmentID = &val
	}
	catalogs, err := h.service.ListCatalogs(c.Context(), departmentID)
	if err != nil {
		return err
	}
	resp := make([]dto.CatalogResponse, 0, len(catalogs))
	for i := range catalogs {
		resp = append(resp, dto.CatalogFromDomain(&catalogs[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListItems GET /catalogs/:id/items.
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.service.ListItems(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.CatalogItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.CatalogItemFromDomain(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetItem GET /catalog-items/:id.
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.service.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CatalogItemFromDomain(item)})
}

// ListTemplates GET /catalog-items/:id/templates.
func (h *CatalogHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.ListTemplates(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		resp = append(resp, dto.TemplateFromDomain(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateCatalog POST /staff/catalogs.
func (h *CatalogHandler) CreateCatalog(c *fiber.Ctx) error {
	var req service.CatalogInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	catalog, err := h.service.CreateCatalog(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CatalogFromDomain(catalog)})
}

// UpdateCatalog PUT /staff/catalogs/:id.
func (h *CatalogHandler) UpdateCatalog(c *fiber.Ctx) error {
	var req service.CatalogInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	catalog, err := h.service.UpdateCatalog(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CatalogFromDomain(catalog)})
}

// CreateItem POST /staff/catalog-items.
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var req service.CatalogItemInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateItem(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CatalogItemFromDomain(item)})
}

// UpdateItem PUT /staff/catalog-items/:id.
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	var req service.CatalogItemInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateItem(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CatalogItemFromDomain(item)})
}

// CreateTemplate POST /staff/templates.
func (h *CatalogHandler) CreateTemplate(c *fiber.Ctx) error {
	var req service.TemplateInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	template, err := h.service.CreateTemplate(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TemplateFromDomain(template)})
}
