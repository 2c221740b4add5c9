// Package ledger maintains the append-only stock-transaction log and the
// reconciliation procedures that backfill it from material snapshots and
// historical order deductions.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind enumerates ledger movement directions.
type Kind string

const (
	// KindAdd is an inbound movement.
	KindAdd Kind = "add"
	// KindOut is an outbound movement.
	KindOut Kind = "out"
)

// Source tags why a ledger entry exists.
type Source string

const (
	// SourceOpeningStock marks the one-time opening snapshot.
	SourceOpeningStock Source = "opening_stock"
	// SourceUsedInOrder marks consumption backfilled from an order.
	SourceUsedInOrder Source = "used_in_order"
	// SourceManual marks an operator adjustment.
	SourceManual Source = "manual"
)

// OpeningStockDate is the sentinel date stamped on opening-balance rows. It
// predates any real business date so opening rows always sort first.
var OpeningStockDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Transaction is one ledger entry. Rows are append-only: once written they
// are never updated or deleted. Ordering for balance computation is txn date
// ascending with ties broken by insertion order.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	Kind         Kind            `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	TxnDate      time.Time       `json:"txn_date"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	OrderNumber  string          `json:"order_number,omitempty"`
	PartyID      *uuid.UUID      `json:"party_id,omitempty"`
	Rate         decimal.Decimal `json:"rate,omitempty"`
	Remarks      string          `json:"remarks,omitempty"`
	Source       Source          `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SignedQuantity returns the quantity with the sign implied by the kind.
func (t Transaction) SignedQuantity() decimal.Decimal {
	if t.Kind == KindOut {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// ValidateRunningBalance checks that balance_after values equal the
// cumulative signed quantities starting from the balance prior to the first
// entry. The slice must already be in ledger order for one material.
func ValidateRunningBalance(txns []Transaction, prior decimal.Decimal) error {
	balance := prior
	for i, t := range txns {
		balance = balance.Add(t.SignedQuantity())
		if !balance.Equal(t.BalanceAfter) {
			return fmt.Errorf("ledger: entry %d has balance_after %s, running balance is %s",
				i, t.BalanceAfter, balance)
		}
	}
	return nil
}
