package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the raw data the reports are computed from.
type Repository interface {
	// LedgerMovements returns a product's movements in posting order:
	// movement date ascending, insertion order breaking ties.
	LedgerMovements(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, error)
	LowStock(ctx context.Context, warehouseID string) ([]LowStockRow, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) LedgerMovements(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, error) {
	query := `SELECT sm.id, sm.product_id, sm.warehouse_id, sm.location_id, sm.document_id,
		sm.movement_date, sm.qty_change, sm.created_at,
		d.doc_type, w.name, l1.name, l2.name, l3.name
	FROM stock_movements sm
	JOIN documents d ON sm.document_id = d.id
	JOIN warehouses w ON sm.warehouse_id = w.id
	JOIN locations l1 ON sm.location_id = l1.id
	LEFT JOIN document_lines dl ON sm.document_line_id = dl.id
	LEFT JOIN locations l2 ON dl.from_location_id = l2.id
	LEFT JOIN locations l3 ON dl.to_location_id = l3.id
	WHERE sm.product_id = $1`
	args := []any{filter.ProductID}

	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		query += fmt.Sprintf(" AND sm.warehouse_id = $%d", len(args))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += fmt.Sprintf(" AND sm.location_id = $%d", len(args))
	}
	query += " ORDER BY sm.movement_date ASC, sm.created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.LocationID, &e.DocumentID,
			&e.MovementDate, &e.QtyChange, &e.CreatedAt,
			&e.DocType, &e.WarehouseName, &e.LocationName,
			&e.FromLocationName, &e.ToLocationName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) LowStock(ctx context.Context, warehouseID string) ([]LowStockRow, error) {
	query := `SELECT p.id, p.name, p.sku, p.min_stock,
		w.id, w.name, COALESCE(SUM(cs.quantity), 0) AS current_stock
	FROM products p
	CROSS JOIN warehouses w
	LEFT JOIN current_stock cs ON p.id = cs.product_id AND w.id = cs.warehouse_id`
	var args []any

	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " WHERE w.id = $1"
	}
	query += `
	GROUP BY p.id, p.name, p.sku, p.min_stock, w.id, w.name
	HAVING COALESCE(SUM(cs.quantity), 0) < p.min_stock
	ORDER BY p.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LowStockRow
	for rows.Next() {
		var row LowStockRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.ProductSKU, &row.MinStock,
			&row.WarehouseID, &row.WarehouseName, &row.CurrentStock); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
