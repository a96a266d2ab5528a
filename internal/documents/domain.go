package documents

import "time"

// Type discriminates the four stock document kinds that share one table.
type Type string

const (
	TypeReceipt    Type = "RECEIPT"
	TypeDelivery   Type = "DELIVERY"
	TypeTransfer   Type = "TRANSFER"
	TypeAdjustment Type = "ADJUSTMENT"
)

// Status is the document lifecycle state. The transition is one-way:
// a document starts as DRAFT and, once CONFIRMED, can never be edited
// or confirmed again.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
)

// Label is the human-facing noun for a document type, used in error details.
func (t Type) Label() string {
	switch t {
	case TypeReceipt:
		return "Receipt"
	case TypeDelivery:
		return "Delivery"
	case TypeTransfer:
		return "Transfer"
	case TypeAdjustment:
		return "Adjustment"
	}
	return "Document"
}

// Document is a stock document header. Which of the optional fields are
// populated depends on the type: receipts and deliveries carry a single
// warehouse plus a counterparty name, transfers carry a source and a
// destination warehouse, adjustments carry a warehouse and a reason.
type Document struct {
	ID                string    `json:"id"`
	DocType           Type      `json:"doc_type"`
	Status            Status    `json:"status"`
	Date              time.Time `json:"date"`
	WarehouseID       *string   `json:"warehouse_id"`
	FromWarehouseID   *string   `json:"from_warehouse_id"`
	ToWarehouseID     *string   `json:"to_warehouse_id"`
	SupplierName      *string   `json:"supplier_name"`
	CustomerName      *string   `json:"customer_name"`
	Reason            *string   `json:"reason"`
	CreatedByUserID   string    `json:"created_by_user_id"`
	ConfirmedByUserID *string   `json:"confirmed_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	CreatedByName     *string `json:"created_by_name,omitempty"`
	ConfirmedByName   *string `json:"confirmed_by_name,omitempty"`
	WarehouseName     *string `json:"warehouse_name,omitempty"`
	FromWarehouseName *string `json:"from_warehouse_name,omitempty"`
	ToWarehouseName   *string `json:"to_warehouse_name,omitempty"`

	Lines []Line `json:"lines,omitempty"`
}

// Line is one product row on a document.
type Line struct {
	ID             string  `json:"id"`
	DocumentID     string  `json:"document_id"`
	ProductID      string  `json:"product_id"`
	FromLocationID *string `json:"from_location_id"`
	ToLocationID   *string `json:"to_location_id"`
	Quantity       float64 `json:"quantity"`

	ProductName      string  `json:"product_name,omitempty"`
	ProductSKU       string  `json:"product_sku,omitempty"`
	FromLocationName *string `json:"from_location_name,omitempty"`
	ToLocationName   *string `json:"to_location_name,omitempty"`
}

// Posting is one signed stock change produced by confirming a document.
// Each posting becomes a stock_movements row and an increment of the
// matching current_stock balance.
type Posting struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	LineID      string
	QtyChange   float64
}

// Postings derives the stock changes a confirmation must apply:
// receipts add at the destination, deliveries subtract at the source,
// transfers do both across warehouses, and adjustments apply the signed
// line quantity directly.
func Postings(doc Document, lines []Line) []Posting {
	var out []Posting
	for _, line := range lines {
		switch doc.DocType {
		case TypeReceipt:
			out = append(out, Posting{
				ProductID:   line.ProductID,
				WarehouseID: deref(doc.WarehouseID),
				LocationID:  deref(line.ToLocationID),
				LineID:      line.ID,
				QtyChange:   line.Quantity,
			})
		case TypeDelivery:
			out = append(out, Posting{
				ProductID:   line.ProductID,
				WarehouseID: deref(doc.WarehouseID),
				LocationID:  deref(line.FromLocationID),
				LineID:      line.ID,
				QtyChange:   -line.Quantity,
			})
		case TypeTransfer:
			out = append(out,
				Posting{
					ProductID:   line.ProductID,
					WarehouseID: deref(doc.FromWarehouseID),
					LocationID:  deref(line.FromLocationID),
					LineID:      line.ID,
					QtyChange:   -line.Quantity,
				},
				Posting{
					ProductID:   line.ProductID,
					WarehouseID: deref(doc.ToWarehouseID),
					LocationID:  deref(line.ToLocationID),
					LineID:      line.ID,
					QtyChange:   line.Quantity,
				})
		case TypeAdjustment:
			out = append(out, Posting{
				ProductID:   line.ProductID,
				WarehouseID: deref(doc.WarehouseID),
				LocationID:  deref(line.ToLocationID),
				LineID:      line.ID,
				QtyChange:   line.Quantity,
			})
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
