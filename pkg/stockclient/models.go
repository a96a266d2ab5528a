package stockclient

import "time"

// Identifiable is implemented by every cached entity so the optimistic
// helpers can match entries by id.
type Identifiable interface {
	EntityID() string
}

// Warehouse mirrors the server's warehouse payload.
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w Warehouse) EntityID() string { return w.ID }

// Location mirrors the server's location payload.
type Location struct {
	ID            string    `json:"id"`
	WarehouseID   string    `json:"warehouse_id"`
	Name          string    `json:"name"`
	WarehouseName string    `json:"warehouse_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (l Location) EntityID() string { return l.ID }

// Product mirrors the server's product payload.
type Product struct {
	ID                   string    `json:"id"`
	SKU                  string    `json:"sku"`
	Name                 string    `json:"name"`
	Category             string    `json:"category"`
	UOM                  string    `json:"uom"`
	DefaultWarehouseID   *string   `json:"default_warehouse_id"`
	DefaultLocationID    *string   `json:"default_location_id"`
	MinStock             float64   `json:"min_stock"`
	OpeningStockQty      float64   `json:"opening_stock_qty"`
	DefaultWarehouseName *string   `json:"default_warehouse_name"`
	DefaultLocationName  *string   `json:"default_location_name"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (p Product) EntityID() string { return p.ID }

// User mirrors the server's user payload.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u User) EntityID() string { return u.ID }

// Document statuses.
const (
	StatusDraft     = "DRAFT"
	StatusConfirmed = "CONFIRMED"
)

// Document mirrors a server document header, plus lines when fetched
// individually. List responses omit lines.
type Document struct {
	ID                string         `json:"id"`
	DocType           string         `json:"doc_type"`
	Status            string         `json:"status"`
	Date              time.Time      `json:"date"`
	WarehouseID       *string        `json:"warehouse_id"`
	FromWarehouseID   *string        `json:"from_warehouse_id"`
	ToWarehouseID     *string        `json:"to_warehouse_id"`
	SupplierName      *string        `json:"supplier_name"`
	CustomerName      *string        `json:"customer_name"`
	Reason            *string        `json:"reason"`
	CreatedByUserID   string         `json:"created_by_user_id"`
	ConfirmedByUserID *string        `json:"confirmed_by_user_id"`
	WarehouseName     *string        `json:"warehouse_name,omitempty"`
	FromWarehouseName *string        `json:"from_warehouse_name,omitempty"`
	ToWarehouseName   *string        `json:"to_warehouse_name,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Lines             []DocumentLine `json:"lines,omitempty"`
}

func (d Document) EntityID() string { return d.ID }

// DocumentLine is one product row on a document.
type DocumentLine struct {
	ID             string  `json:"id"`
	DocumentID     string  `json:"document_id"`
	ProductID      string  `json:"product_id"`
	FromLocationID *string `json:"from_location_id"`
	ToLocationID   *string `json:"to_location_id"`
	Quantity       float64 `json:"quantity"`
	ProductName    string  `json:"product_name,omitempty"`
	ProductSKU     string  `json:"product_sku,omitempty"`
}

// DocumentDraft is the create/update request body for any document type.
type DocumentDraft struct {
	Date            time.Time           `json:"date"`
	WarehouseID     *string             `json:"warehouse_id,omitempty"`
	FromWarehouseID *string             `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *string             `json:"to_warehouse_id,omitempty"`
	SupplierName    *string             `json:"supplier_name,omitempty"`
	CustomerName    *string             `json:"customer_name,omitempty"`
	Reason          *string             `json:"reason,omitempty"`
	Lines           []DocumentDraftLine `json:"lines"`
}

// DocumentDraftLine is one line of a draft request.
type DocumentDraftLine struct {
	ProductID      string  `json:"product_id"`
	FromLocationID *string `json:"from_location_id,omitempty"`
	ToLocationID   *string `json:"to_location_id,omitempty"`
	Quantity       float64 `json:"quantity"`
}

// StockRow is one current-stock balance.
type StockRow struct {
	ProductID     string  `json:"product_id"`
	WarehouseID   string  `json:"warehouse_id"`
	LocationID    string  `json:"location_id"`
	Quantity      float64 `json:"quantity"`
	ProductName   string  `json:"product_name"`
	ProductSKU    string  `json:"product_sku"`
	Category      string  `json:"category"`
	WarehouseName string  `json:"warehouse_name"`
	LocationName  string  `json:"location_name"`
}

// MovementRow is one stock movement.
type MovementRow struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	LocationID    string    `json:"location_id"`
	DocumentID    string    `json:"document_id"`
	MovementDate  time.Time `json:"movement_date"`
	QtyChange     float64   `json:"qty_change"`
	ProductName   string    `json:"product_name"`
	ProductSKU    string    `json:"product_sku"`
	WarehouseName string    `json:"warehouse_name"`
	LocationName  string    `json:"location_name"`
	DocType       string    `json:"doc_type"`
}

// LedgerEntry is a movement with the running balance after it.
type LedgerEntry struct {
	ID             string    `json:"id"`
	MovementDate   time.Time `json:"movement_date"`
	QtyChange      float64   `json:"qty_change"`
	RunningBalance float64   `json:"running_balance"`
	DocType        string    `json:"doc_type"`
	WarehouseName  string    `json:"warehouse_name"`
	LocationName   string    `json:"location_name"`
}

// LowStockRow is a product/warehouse pair below minimum stock.
type LowStockRow struct {
	ProductID     string  `json:"id"`
	ProductName   string  `json:"name"`
	ProductSKU    string  `json:"sku"`
	MinStock      float64 `json:"min_stock"`
	WarehouseID   string  `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	CurrentStock  float64 `json:"current_stock"`
}

// Summary is the dashboard landing payload.
type Summary struct {
	TotalProducts          int           `json:"total_products"`
	LowStockCount          int           `json:"low_stock_count"`
	PendingReceiptsCount   int           `json:"pending_receipts_count"`
	PendingDeliveriesCount int           `json:"pending_deliveries_count"`
	PendingTransfersCount  int           `json:"pending_transfers_count"`
	LastMovements          []MovementRow `json:"last_10_movements"`
}

// RiskAlert is a product projected to run out of stock within a week.
type RiskAlert struct {
	ProductID    string  `json:"id"`
	ProductName  string  `json:"name"`
	ProductSKU   string  `json:"sku"`
	CurrentStock float64 `json:"current_stock"`
	AvgDailyOut  float64 `json:"avg_daily_out"`
	DaysToZero   float64 `json:"days_to_zero"`
}

// Suggestion is the search box navigation intent.
type Suggestion struct {
	Type        string `json:"type"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// LoginResult is the login response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
