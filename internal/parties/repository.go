package parties

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

const partyColumns = `id, name, kind, phone, address, created_at, updated_at`

// List returns parties, optionally filtered by kind.
func (r *Repository) List(ctx context.Context, kind Kind) ([]Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties ORDER BY name`
	args := []any{}
	if kind != "" {
		query = `SELECT ` + partyColumns + ` FROM parties WHERE kind = $1 ORDER BY name`
		args = append(args, kind)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Get returns a single party.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Party, error) {
	var p Party
	err := r.pool.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Kind, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, httpx.ErrNotFound
		}
		return Party{}, err
	}
	return p, nil
}

// Create inserts a party.
func (r *Repository) Create(ctx context.Context, p Party) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO parties (id, name, kind, phone, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		p.ID, p.Name, p.Kind, p.Phone, p.Address, time.Now().UTC())
	return err
}

// Update rewrites the mutable fields of a party.
func (r *Repository) Update(ctx context.Context, p Party) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE parties SET name = $2, kind = $3, phone = $4, address = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Name, p.Kind, p.Phone, p.Address, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
