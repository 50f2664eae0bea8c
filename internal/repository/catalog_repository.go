package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CatalogRepository manages the catalog/item/template/field hierarchy.
type CatalogRepository interface {
	CreateCatalog(ctx context.Context, catalog *domain.ServiceCatalog) error
	UpdateCatalog(ctx context.Context, catalog *domain.ServiceCatalog) error
	GetCatalog(ctx context.Context, id string) (*domain.ServiceCatalog, error)
	ListCatalogs(ctx context.Context, departmentID *string) ([]domain.ServiceCatalog, error)

	CreateItem(ctx context.Context, item *domain.CatalogItem) error
	UpdateItem(ctx context.Context, item *domain.CatalogItem) error
	GetItem(ctx context.Context, id string) (*domain.CatalogItem, error)
	ListItems(ctx context.Context, catalogID string) ([]domain.CatalogItem, error)

	CreateTemplate(ctx context.Context, template *domain.ItemTemplate) error
	GetTemplate(ctx context.Context, id string) (*domain.ItemTemplate, error)
	ListTemplates(ctx context.Context, itemID string) ([]domain.ItemTemplate, error)

	CreateField(ctx context.Context, field *domain.TemplateField) error
	UpdateField(ctx context.Context, field *domain.TemplateField) error
	DeleteField(ctx context.Context, id string) error
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository builds the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) CreateCatalog(ctx context.Context, catalog *domain.ServiceCatalog) error {
	const query = `
        INSERT INTO service_catalogs (department_id, name, description, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		catalog.DepartmentID,
		catalog.Name,
		catalog.Description,
		catalog.IsActive,
	).Scan(&catalog.ID, &catalog.CreatedAt, &catalog.UpdatedAt)
}

func (r *catalogRepository) UpdateCatalog(ctx context.Context, catalog *domain.ServiceCatalog) error {
	const query = `
        UPDATE service_catalogs SET department_id=$1, name=$2, description=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		catalog.DepartmentID,
		catalog.Name,
		catalog.Description,
		catalog.IsActive,
		catalog.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) GetCatalog(ctx context.Context, id string) (*domain.ServiceCatalog, error) {
	const query = `
        SELECT id, department_id, name, description, is_active, created_at, updated_at
        FROM service_catalogs WHERE id=$1`
	var catalog domain.ServiceCatalog
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&catalog.ID,
		&catalog.DepartmentID,
		&catalog.Name,
		&catalog.Description,
		&catalog.IsActive,
		&catalog.CreatedAt,
		&catalog.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (r *catalogRepository) ListCatalogs(ctx context.Context, departmentID *string) ([]domain.ServiceCatalog, error) {
	const query = `
        SELECT id, department_id, name, description, is_active, created_at, updated_at
        FROM service_catalogs
        WHERE ($1::uuid IS NULL OR department_id = $1)
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceCatalog
	for rows.Next() {
		var catalog domain.ServiceCatalog
		if err := rows.Scan(&catalog.ID, &catalog.DepartmentID, &catalog.Name, &catalog.Description, &catalog.IsActive, &catalog.CreatedAt, &catalog.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, catalog)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateItem(ctx context.Context, item *domain.CatalogItem) error {
	const query = `
        INSERT INTO catalog_items (catalog_id, unit_id, name, description, sla_minutes, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.CatalogID,
		item.UnitID,
		item.Name,
		item.Description,
		item.SLAMinutes,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *catalogRepository) UpdateItem(ctx context.Context, item *domain.CatalogItem) error {
	const query = `
        UPDATE catalog_items SET catalog_id=$1, unit_id=$2, name=$3, description=$4, sla_minutes=$5,
            is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		item.CatalogID,
		item.UnitID,
		item.Name,
		item.Description,
		item.SLAMinutes,
		item.IsActive,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	const query = `
        SELECT id, catalog_id, unit_id, name, description, sla_minutes, is_active, created_at, updated_at
        FROM catalog_items WHERE id=$1`
	var item domain.CatalogItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.CatalogID,
		&item.UnitID,
		&item.Name,
		&item.Description,
		&item.SLAMinutes,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) ListItems(ctx context.Context, catalogID string) ([]domain.CatalogItem, error) {
	const query = `
        SELECT id, catalog_id, unit_id, name, description, sla_minutes, is_active, created_at, updated_at
        FROM catalog_items WHERE catalog_id=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.CatalogID, &item.UnitID, &item.Name, &item.Description, &item.SLAMinutes, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateTemplate(ctx context.Context, template *domain.ItemTemplate) error {
	const query = `
        INSERT INTO item_templates (item_id, name, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		template.ItemID,
		template.Name,
		template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
}

func (r *catalogRepository) GetTemplate(ctx context.Context, id string) (*domain.ItemTemplate, error) {
	const query = `
        SELECT id, item_id, name, is_active, created_at, updated_at
        FROM item_templates WHERE id=$1`
	var template domain.ItemTemplate
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.ItemID,
		&template.Name,
		&template.IsActive,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	fields, err := r.listFields(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	template.Fields = fields
	return &template, nil
}

func (r *catalogRepository) ListTemplates(ctx context.Context, itemID string) ([]domain.ItemTemplate, error) {
	const query = `
        SELECT id, item_id, name, is_active, created_at, updated_at
        FROM item_templates WHERE item_id=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ItemTemplate
	for rows.Next() {
		var template domain.ItemTemplate
		if err := rows.Scan(&template.ID, &template.ItemID, &template.Name, &template.IsActive, &template.CreatedAt, &template.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		fields, err := r.listFields(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Fields = fields
	}
	return result, nil
}

func (r *catalogRepository) CreateField(ctx context.Context, field *domain.TemplateField) error {
	const query = `
        INSERT INTO template_fields (template_id, label, field_type, required, options, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		field.TemplateID,
		field.Label,
		field.FieldType,
		field.Required,
		field.Options,
		field.SortOrder,
	).Scan(&field.ID, &field.CreatedAt, &field.UpdatedAt)
}

func (r *catalogRepository) UpdateField(ctx context.Context, field *domain.TemplateField) error {
	const query = `
        UPDATE template_fields SET label=$1, field_type=$2, required=$3, options=$4, sort_order=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		field.Label,
		field.FieldType,
		field.Required,
		field.Options,
		field.SortOrder,
		field.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) DeleteField(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM template_fields WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) listFields(ctx context.Context, templateID string) ([]domain.TemplateField, error) {
	const query = `
        SELECT id, template_id, label, field_type, required, options, sort_order, created_at, updated_at
        FROM template_fields WHERE template_id=$1 ORDER BY sort_order ASC`
	rows, err := r.pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TemplateField
	for rows.Next() {
		var field domain.TemplateField
		if err := rows.Scan(
			&field.ID,
			&field.TemplateID,
			&field.Label,
			&field.FieldType,
			&field.Required,
			&field.Options,
			&field.SortOrder,
			&field.CreatedAt,
			&field.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, field)
	}
	return result, rows.Err()
}
