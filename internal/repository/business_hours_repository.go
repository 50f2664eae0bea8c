package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// BusinessHoursRepository manages business-hours window configuration.
type BusinessHoursRepository interface {
	Create(ctx context.Context, window *domain.BusinessHoursWindow) error
	Update(ctx context.Context, window *domain.BusinessHoursWindow) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.BusinessHoursWindow, error)
	ListForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error)
	ActiveForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error)
}

type businessHoursRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessHoursRepository returns a Postgres-backed implementation.
func NewBusinessHoursRepository(pool *pgxpool.Pool) BusinessHoursRepository {
	return &businessHoursRepository{pool: pool}
}

func (r *businessHoursRepository) Create(ctx context.Context, window *domain.BusinessHoursWindow) error {
	const query = `
        INSERT INTO business_hours (department_id, unit_id, day_of_week, start_time, end_time, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		window.DepartmentID,
		window.UnitID,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.IsActive,
	).Scan(&window.ID, &window.CreatedAt, &window.UpdatedAt)
}

func (r *businessHoursRepository) Update(ctx context.Context, window *domain.BusinessHoursWindow) error {
	const query = `
        UPDATE business_hours SET department_id=$1, unit_id=$2, day_of_week=$3, start_time=$4, end_time=$5,
            is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		window.DepartmentID,
		window.UnitID,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.IsActive,
		window.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessHoursRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM business_hours WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessHoursRepository) GetByID(ctx context.Context, id string) (*domain.BusinessHoursWindow, error) {
	const query = `
        SELECT id, department_id, unit_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
        FROM business_hours WHERE id=$1`
	var window domain.BusinessHoursWindow
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&window.ID,
		&window.DepartmentID,
		&window.UnitID,
		&window.DayOfWeek,
		&window.StartTime,
		&window.EndTime,
		&window.IsActive,
		&window.CreatedAt,
		&window.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &window, nil
}

// ListForScope returns every window for the exact scope pair, active or not
// (administrative listing).
func (r *businessHoursRepository) ListForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	const query = `
        SELECT id, department_id, unit_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
        FROM business_hours
        WHERE department_id IS NOT DISTINCT FROM $1 AND unit_id IS NOT DISTINCT FROM $2
        ORDER BY day_of_week ASC`
	return r.queryWindows(ctx, query, departmentID, unitID)
}

// ActiveForScope returns active windows for the exact (department, unit)
// pair, ordered ascending by day of week. No global fallback: the scope pair
// must match exactly, unlike holidays.
func (r *businessHoursRepository) ActiveForScope(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	const query = `
        SELECT id, department_id, unit_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
        FROM business_hours
        WHERE is_active = TRUE
          AND department_id IS NOT DISTINCT FROM $1 AND unit_id IS NOT DISTINCT FROM $2
        ORDER BY day_of_week ASC`
	return r.queryWindows(ctx, query, departmentID, unitID)
}

func (r *businessHoursRepository) queryWindows(ctx context.Context, query string, args ...any) ([]domain.BusinessHoursWindow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BusinessHoursWindow
	for rows.Next() {
		var window domain.BusinessHoursWindow
		if err := rows.Scan(
			&window.ID,
			&window.DepartmentID,
			&window.UnitID,
			&window.DayOfWeek,
			&window.StartTime,
			&window.EndTime,
			&window.IsActive,
			&window.CreatedAt,
			&window.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, window)
	}
	return result, rows.Err()
}
