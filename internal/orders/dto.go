package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	PartyID   string               `json:"party_id" validate:"required,uuid"`
	OrderDate time.Time            `json:"order_date" validate:"required"`
	Notes     string               `json:"notes" validate:"max=1000"`
	Lines     []CreateDeductionReq `json:"deductions" validate:"dive"`
}

type CreateDeductionReq struct {
	MaterialName string          `json:"material_name" validate:"required,max=200"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Rate         decimal.Decimal `json:"rate"`
}
