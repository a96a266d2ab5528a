package reports

import "time"

// LedgerEntry is one movement of a product, annotated with the running
// balance after that movement was applied.
type LedgerEntry struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	LocationID     string    `json:"location_id"`
	DocumentID     string    `json:"document_id"`
	MovementDate   time.Time `json:"movement_date"`
	QtyChange      float64   `json:"qty_change"`
	CreatedAt      time.Time `json:"created_at"`
	RunningBalance float64   `json:"running_balance"`

	DocType          string  `json:"doc_type"`
	WarehouseName    string  `json:"warehouse_name"`
	LocationName     string  `json:"location_name"`
	FromLocationName *string `json:"from_location_name"`
	ToLocationName   *string `json:"to_location_name"`
}

// LedgerFilter selects the movements to run the ledger over. ProductID
// is mandatory; the rest narrow the view.
type LedgerFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
}

// LowStockRow is a product/warehouse pair whose summed stock is below
// the product's minimum.
type LowStockRow struct {
	ProductID     string  `json:"id"`
	ProductName   string  `json:"name"`
	ProductSKU    string  `json:"sku"`
	MinStock      float64 `json:"min_stock"`
	WarehouseID   string  `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	CurrentStock  float64 `json:"current_stock"`
}
