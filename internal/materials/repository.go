package materials

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mysticvastra/vastra-admin/internal/platform/db"
	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const materialColumns = `id, name, unit, current_stock, created_at, updated_at`

func scanMaterial(row pgx.Row) (Material, error) {
	var m Material
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.CurrentStock, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List returns all materials ordered by name.
func (r *Repository) List(ctx context.Context) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Get returns a single material.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Material, error) {
	m, err := scanMaterial(r.pool.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Material{}, httpx.ErrNotFound
		}
		return Material{}, err
	}
	return m, nil
}

// Create inserts a material. Names are unique case-insensitively.
func (r *Repository) Create(ctx context.Context, m Material) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO materials (id, name, unit, current_stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		m.ID, m.Name, m.Unit, m.CurrentStock, time.Now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update changes name and unit.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, unit string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE materials SET name = $2, unit = $3, updated_at = $4 WHERE id = $1`,
		id, name, unit, time.Now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AdjustStock applies a signed delta to current stock.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (Material, error) {
	m, err := scanMaterial(r.pool.QueryRow(ctx,
		`UPDATE materials SET current_stock = current_stock + $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+materialColumns, id, delta, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Material{}, httpx.ErrNotFound
		}
		return Material{}, err
	}
	return m, nil
}
