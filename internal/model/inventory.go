package model

type StockStatus string

const (
	StockStatusOut      StockStatus = "out_of_stock"
	StockStatusCritical StockStatus = "critical"
	StockStatusLow      StockStatus = "low_stock"
	StockStatusInStock  StockStatus = "in_stock"
)

type InventoryItem struct {
	Base
	Name         string  `db:"name" json:"name"`
	Category     *string `db:"category" json:"category,omitempty"`
	CurrentStock int     `db:"current_stock" json:"current_stock"`
	MinimumStock int     `db:"minimum_stock" json:"minimum_stock"`
	Unit         *string `db:"unit" json:"unit,omitempty"`
	UnitCost     float64 `db:"unit_cost" json:"unit_cost"`
	Supplier     *string `db:"supplier" json:"supplier,omitempty"`

	// computed at read time, never stored
	Status StockStatus `db:"-" json:"status"`
}

// StockStatus derives the item's status from current vs minimum stock.
func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.CurrentStock <= 0:
		return StockStatusOut
	case float64(i.CurrentStock) <= 0.5*float64(i.MinimumStock):
		return StockStatusCritical
	case i.CurrentStock <= i.MinimumStock:
		return StockStatusLow
	default:
		return StockStatusInStock
	}
}

type CreateInventoryItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     *string `json:"category"`
	CurrentStock int     `json:"current_stock" binding:"min=0"`
	MinimumStock int     `json:"minimum_stock" binding:"min=0"`
	Unit         *string `json:"unit"`
	UnitCost     float64 `json:"unit_cost" binding:"min=0"`
	Supplier     *string `json:"supplier"`
}

type UpdateInventoryItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     *string `json:"category"`
	CurrentStock int     `json:"current_stock" binding:"min=0"`
	MinimumStock int     `json:"minimum_stock" binding:"min=0"`
	Unit         *string `json:"unit"`
	UnitCost     float64 `json:"unit_cost" binding:"min=0"`
	Supplier     *string `json:"supplier"`
}
