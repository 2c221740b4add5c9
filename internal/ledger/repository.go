package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mysticvastra/vastra-admin/internal/platform/db"
)

// Repository persists ledger entries in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txnColumns = `id, material_id, kind, quantity, txn_date, balance_after,
	order_id, order_number, party_id, rate, remarks, source, created_at`

const insertTxnSQL = `INSERT INTO stock_transactions
	(id, material_id, kind, quantity, txn_date, balance_after,
	 order_id, order_number, party_id, rate, remarks, source, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func insertTxn(ctx context.Context, tx pgx.Tx, t Transaction, now time.Time) error {
	var orderNumber *string
	if t.OrderNumber != "" {
		orderNumber = &t.OrderNumber
	}
	_, err := tx.Exec(ctx, insertTxnSQL,
		t.ID, t.MaterialID, t.Kind, t.Quantity, t.TxnDate, t.BalanceAfter,
		t.OrderID, orderNumber, t.PartyID, t.Rate, t.Remarks, t.Source, now)
	return err
}

// CountTransactions returns the total number of ledger rows.
func (r *Repository) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_transactions`).Scan(&count)
	return count, err
}

// InsertOpening writes the opening snapshot. The row-count check and the
// batch insert run in one repeatable-read transaction, and the partial unique
// index on (material_id) WHERE source = 'opening_stock' backstops the race
// the original check-then-insert left open: a concurrent initializer loses
// with a unique violation, reported here as already initialized.
func (r *Repository) InsertOpening(ctx context.Context, txns []Transaction) (int, bool, error) {
	inserted := 0
	already := false
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var count int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM stock_transactions`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			already = true
			return nil
		}
		now := time.Now().UTC()
		for _, t := range txns {
			if err := insertTxn(ctx, tx, t, now); err != nil {
				return err
			}
		}
		inserted = len(txns)
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return inserted, already, nil
}

// LinkedOrderIDs returns the set of order ids that already have at least one
// ledger row. Backfill excludes those orders entirely.
func (r *Repository) LinkedOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT order_id FROM stock_transactions WHERE order_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	linked := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		linked[id] = struct{}{}
	}
	return linked, rows.Err()
}

// InsertBatch appends rows in one transaction, all or nothing.
func (r *Repository) InsertBatch(ctx context.Context, txns []Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, t := range txns {
			if err := insertTxn(ctx, tx, t, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByMaterial returns a material's ledger in balance-computation order.
func (r *Repository) ListByMaterial(ctx context.Context, materialID uuid.UUID) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnColumns+`
		 FROM stock_transactions
		 WHERE material_id = $1
		 ORDER BY txn_date ASC, created_at ASC, id ASC`, materialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		var t Transaction
		var orderNumber *string
		if err := rows.Scan(&t.ID, &t.MaterialID, &t.Kind, &t.Quantity, &t.TxnDate, &t.BalanceAfter,
			&t.OrderID, &orderNumber, &t.PartyID, &t.Rate, &t.Remarks, &t.Source, &t.CreatedAt); err != nil {
			return nil, err
		}
		if orderNumber != nil {
			t.OrderNumber = *orderNumber
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
