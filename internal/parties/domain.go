// Package parties manages customers and suppliers.
package parties

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes customer and supplier records.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// Valid reports whether the kind is a known value.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

// Party is a customer or supplier the business trades with.
type Party struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
