// Package materials manages the raw-material catalogue and its on-hand stock.
package materials

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Material is a raw material tracked by the inventory.
type Material struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var nameFolder = cases.Fold()

// NormalizeName trims and case-folds a material name. Order deductions refer
// to materials by name rather than id, so every lookup goes through the same
// normalization.
func NormalizeName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}
