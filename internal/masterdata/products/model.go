package products

import (
	"time"
)

// Product represents an inventory product.
type Product struct {
	ID                 string    `json:"id"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	UOM                string    `json:"uom"`
	DefaultWarehouseID *string   `json:"default_warehouse_id"`
	DefaultLocationID  *string   `json:"default_location_id"`
	MinStock           float64   `json:"min_stock"`
	OpeningStockQty    float64   `json:"opening_stock_qty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Joined on list reads.
	DefaultWarehouseName *string `json:"default_warehouse_name,omitempty"`
	DefaultLocationName  *string `json:"default_location_name,omitempty"`
}
