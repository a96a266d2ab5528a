package dashboard

import "github.com/stocktrace/stocktrace/internal/stock"

// Summary is the landing page payload: document counts waiting for
// confirmation, products in trouble, and the most recent movements.
type Summary struct {
	TotalProducts          int              `json:"total_products"`
	LowStockCount          int              `json:"low_stock_count"`
	PendingReceiptsCount   int              `json:"pending_receipts_count"`
	PendingDeliveriesCount int              `json:"pending_deliveries_count"`
	PendingTransfersCount  int              `json:"pending_transfers_count"`
	LastMovements          []stock.Movement `json:"last_10_movements"`
}

// RiskAlert flags a product whose stock will run out within a week at
// its recent outflow rate.
type RiskAlert struct {
	ProductID    string  `json:"id"`
	ProductName  string  `json:"name"`
	ProductSKU   string  `json:"sku"`
	CurrentStock float64 `json:"current_stock"`
	AvgDailyOut  float64 `json:"avg_daily_out"`
	DaysToZero   float64 `json:"days_to_zero"`
}
