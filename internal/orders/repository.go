package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

const orderColumns = `id, order_number, party_id, order_date, status, notes, created_at, updated_at`

// ListWithDeductions returns all orders ascending by order date, each with its
// deduction lines. Ledger backfill depends on this ordering.
func (r *Repository) ListWithDeductions(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY order_date ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Order
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.PartyID, &o.OrderDate, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(result)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dedRows, err := r.pool.Query(ctx,
		`SELECT d.id, d.order_id, d.material_name, d.quantity, d.rate, d.amount
		 FROM order_deductions d
		 JOIN orders o ON o.id = d.order_id
		 ORDER BY o.order_date ASC, d.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer dedRows.Close()

	for dedRows.Next() {
		var d Deduction
		if err := dedRows.Scan(&d.ID, &d.OrderID, &d.MaterialName, &d.Quantity, &d.Rate, &d.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[d.OrderID]; ok {
			result[i].Deductions = append(result[i].Deductions, d)
		}
	}
	return result, dedRows.Err()
}

// Get returns one order with its deductions.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.PartyID, &o.OrderDate, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, httpx.ErrNotFound
		}
		return Order{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, material_name, quantity, rate, amount
		 FROM order_deductions WHERE order_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var d Deduction
		if err := rows.Scan(&d.ID, &d.OrderID, &d.MaterialName, &d.Quantity, &d.Rate, &d.Amount); err != nil {
			return Order{}, err
		}
		o.Deductions = append(o.Deductions, d)
	}
	return o, rows.Err()
}

// GenerateNumber produces the next sequential order number for the year of
// the order date, e.g. MV-2024-0007.
func (r *Repository) GenerateNumber(ctx context.Context, orderDate time.Time) (string, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE date_trunc('year', order_date) = date_trunc('year', $1::date)`,
		orderDate).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MV-%d-%04d", orderDate.Year(), count+1), nil
}

// Create inserts the order and its deductions in one transaction. Two creates
// racing GenerateNumber into the same number lose on the order_number unique
// constraint, mapped to the conflict sentinel so callers can retry.
func (r *Repository) Create(ctx context.Context, o Order) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		_, err := tx.Exec(ctx,
			`INSERT INTO orders (id, order_number, party_id, order_date, status, notes, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			o.ID, o.OrderNumber, o.PartyID, o.OrderDate, o.Status, o.Notes, now)
		if err != nil {
			return err
		}
		for _, d := range o.Deductions {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_deductions (id, order_id, material_name, quantity, rate, amount, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				d.ID, d.OrderID, d.MaterialName, d.Quantity, d.Rate, d.Amount, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if db.IsUniqueViolation(err) {
		return httpx.ErrDuplicate
	}
	return err
}
