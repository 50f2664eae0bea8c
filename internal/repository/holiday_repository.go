package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// HolidayRepository manages holiday exclusion configuration.
type HolidayRepository interface {
	Create(ctx context.Context, holiday *domain.HolidayEntry) error
	Update(ctx context.Context, holiday *domain.HolidayEntry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.HolidayEntry, error)
	List(ctx context.Context, from, to time.Time) ([]domain.HolidayEntry, error)
	ActiveForScope(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error)
}

type holidayRepository struct {
	pool *pgxpool.Pool
}

// NewHolidayRepository returns a Postgres-backed implementation.
func NewHolidayRepository(pool *pgxpool.Pool) HolidayRepository {
	return &holidayRepository{pool: pool}
}

func (r *holidayRepository) Create(ctx context.Context, holiday *domain.HolidayEntry) error {
	const query = `
        INSERT INTO holidays (name, date, department_id, unit_id, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		holiday.Name,
		holiday.Date,
		holiday.DepartmentID,
		holiday.UnitID,
		holiday.IsActive,
	).Scan(&holiday.ID, &holiday.CreatedAt, &holiday.UpdatedAt)
}

func (r *holidayRepository) Update(ctx context.Context, holiday *domain.HolidayEntry) error {
	const query = `
        UPDATE holidays SET name=$1, date=$2, department_id=$3, unit_id=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		holiday.Name,
		holiday.Date,
		holiday.DepartmentID,
		holiday.UnitID,
		holiday.IsActive,
		holiday.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM holidays WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *holidayRepository) GetByID(ctx context.Context, id string) (*domain.HolidayEntry, error) {
	const query = `
        SELECT id, name, date, department_id, unit_id, is_active, created_at, updated_at
        FROM holidays WHERE id=$1`
	var holiday domain.HolidayEntry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&holiday.ID,
		&holiday.Name,
		&holiday.Date,
		&holiday.DepartmentID,
		&holiday.UnitID,
		&holiday.IsActive,
		&holiday.CreatedAt,
		&holiday.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &holiday, nil
}

func (r *holidayRepository) List(ctx context.Context, from, to time.Time) ([]domain.HolidayEntry, error) {
	const query = `
        SELECT id, name, date, department_id, unit_id, is_active, created_at, updated_at
        FROM holidays
        WHERE date >= $1 AND date <= $2
        ORDER BY date ASC`
	return r.queryHolidays(ctx, query, from, to)
}

// ActiveForScope returns active entries matching the department, the unit, or
// the global scope (both null), restricted to the given date range.
func (r *holidayRepository) ActiveForScope(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	const query = `
        SELECT id, name, date, department_id, unit_id, is_active, created_at, updated_at
        FROM holidays
        WHERE is_active = TRUE
          AND date >= $3 AND date <= $4
          AND (
                (department_id = $1 AND unit_id IS NULL)
             OR (department_id IS NULL AND unit_id = $2)
             OR (department_id IS NULL AND unit_id IS NULL)
          )
        ORDER BY date ASC`
	return r.queryHolidays(ctx, query, departmentID, unitID, from, to)
}

func (r *holidayRepository) queryHolidays(ctx context.Context, query string, args ...any) ([]domain.HolidayEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HolidayEntry
	for rows.Next() {
		var holiday domain.HolidayEntry
		if err := rows.Scan(
			&holiday.ID,
			&holiday.Name,
			&holiday.Date,
			&holiday.DepartmentID,
			&holiday.UnitID,
			&holiday.IsActive,
			&holiday.CreatedAt,
			&holiday.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, holiday)
	}
	return result, rows.Err()
}
