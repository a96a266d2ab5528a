package stock

import "time"

// Balance is one current_stock row enriched with display names.
type Balance struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	LocationID  string    `json:"location_id"`
	Quantity    float64   `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`

	ProductName   string `json:"product_name"`
	ProductSKU    string `json:"product_sku"`
	Category      string `json:"category"`
	WarehouseName string `json:"warehouse_name"`
	LocationName  string `json:"location_name"`
}

// Movement is one stock_movements row enriched with display names and
// the originating document's type and status.
type Movement struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	LocationID     string    `json:"location_id"`
	DocumentID     string    `json:"document_id"`
	DocumentLineID *string   `json:"document_line_id"`
	MovementDate   time.Time `json:"movement_date"`
	QtyChange      float64   `json:"qty_change"`
	CreatedAt      time.Time `json:"created_at"`

	ProductName   string `json:"product_name"`
	ProductSKU    string `json:"product_sku"`
	WarehouseName string `json:"warehouse_name"`
	LocationName  string `json:"location_name"`
	DocType       string `json:"doc_type"`
	DocStatus     string `json:"status,omitempty"`
}

// BalanceFilter narrows a stock listing. Empty fields match everything.
type BalanceFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	Category    string
}

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	DocType     string
	DateFrom    *time.Time
	DateTo      *time.Time
}
