package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked supply. Its display status (low stock, expired,
// and so on) is classified at read time and never stored.
type InventoryItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	MinimumStock int             `json:"minimum_stock"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InventoryItemInput is the create payload from the add-item dialog.
type InventoryItemInput struct {
	Name         string          `json:"name" validate:"required,min=2"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	Unit         string          `json:"unit,omitempty"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	MinimumStock int             `json:"minimum_stock" validate:"gte=0"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
}

// InventoryItemPatch carries only the fields being changed.
type InventoryItemPatch struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=2"`
	Category     *string          `json:"category,omitempty"`
	Quantity     *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit         *string          `json:"unit,omitempty"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	MinimumStock *int             `json:"minimum_stock,omitempty" validate:"omitempty,gte=0"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
}
