// Package orders manages customer orders and the raw-material deductions
// recorded against them.
package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of an order.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order is a customer order.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	OrderNumber string      `json:"order_number"`
	PartyID     uuid.UUID   `json:"party_id"`
	OrderDate   time.Time   `json:"order_date"`
	Status      Status      `json:"status"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Deductions  []Deduction `json:"deductions,omitempty"`
}

// Deduction records material consumed by an order. The material is referenced
// by name, not id; resolution against the materials table is case-insensitive
// and happens at ledger-sync time.
type Deduction struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
}
