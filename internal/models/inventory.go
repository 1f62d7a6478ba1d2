package models

import "time"

// Inventory stock statuses, derived from quantity versus minimum.
const (
	StockStatusIn  = "In Stock"
	StockStatusLow = "Low"
	StockStatusOut = "Out"
)

// InventoryItem is a tracked stock line for a business.
type InventoryItem struct {
	ID            string    `db:"id" json:"id"`
	BusinessID    string    `db:"business_id" json:"business_id"`
	Name          string    `db:"name" json:"name"`
	Quantity      int       `db:"quantity" json:"quantity"`
	MinQuantity   int       `db:"min_quantity" json:"min_quantity"`
	Unit          string    `db:"unit" json:"unit,omitempty"`
	InstacartLink string    `db:"instacart_link" json:"instacart_link,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Status string `db:"-" json:"status"`
}

// StockStatus derives the display status from current versus minimum
// quantity. Zero is always Out, at-or-below minimum is Low.
func (i InventoryItem) StockStatus() string {
	switch {
	case i.Quantity <= 0:
		return StockStatusOut
	case i.Quantity <= i.MinQuantity:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// CreateInventoryItemRequest payload for adding a stock line.
type CreateInventoryItemRequest struct {
	Name          string `json:"name" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	MinQuantity   int    `json:"min_quantity" validate:"gte=0"`
	Unit          string `json:"unit"`
	InstacartLink string `json:"instacart_link" validate:"omitempty,url"`
}

// UpdateInventoryItemRequest payload for partial updates.
type UpdateInventoryItemRequest struct {
	Name          *string `json:"name,omitempty"`
	Quantity      *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	MinQuantity   *int    `json:"min_quantity,omitempty" validate:"omitempty,gte=0"`
	Unit          *string `json:"unit,omitempty"`
	InstacartLink *string `json:"instacart_link,omitempty" validate:"omitempty,url"`
}
