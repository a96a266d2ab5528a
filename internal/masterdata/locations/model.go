package locations

import (
	"time"
)

// Location represents a storage location inside a warehouse.
type Location struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	Name        string    `json:"name"`
	Code        *string   `json:"code"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// WarehouseName is joined on list reads, empty otherwise.
	WarehouseName string `json:"warehouse_name,omitempty"`
}
