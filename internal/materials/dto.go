package materials

import "github.com/shopspring/decimal"

type CreateMaterialRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Unit         string          `json:"unit" validate:"max=20"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

type UpdateMaterialRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Unit string `json:"unit" validate:"max=20"`
}

type AdjustStockRequest struct {
	Delta   decimal.Decimal `json:"delta" validate:"required"`
	Remarks string          `json:"remarks,omitempty" validate:"max=500"`
}
