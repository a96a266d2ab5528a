package stock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads stock balances and the movement log. Both tables are
// written only by document confirmation, never directly.
type Repository interface {
	Balances(ctx context.Context, filter BalanceFilter) ([]Balance, error)
	Movements(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Balances(ctx context.Context, filter BalanceFilter) ([]Balance, error) {
	query := `SELECT cs.product_id, cs.warehouse_id, cs.location_id, cs.quantity, cs.updated_at,
		p.name, p.sku, p.category, w.name, l.name
	FROM current_stock cs
	JOIN products p ON cs.product_id = p.id
	JOIN warehouses w ON cs.warehouse_id = w.id
	JOIN locations l ON cs.location_id = l.id
	WHERE 1=1`
	var args []any

	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND cs.product_id = $%d", len(args))
	}
	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		query += fmt.Sprintf(" AND cs.warehouse_id = $%d", len(args))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += fmt.Sprintf(" AND cs.location_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	query += " ORDER BY p.name, w.name, l.name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
			&b.ProductName, &b.ProductSKU, &b.Category, &b.WarehouseName, &b.LocationName); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *repository) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	query := `SELECT sm.id, sm.product_id, sm.warehouse_id, sm.location_id, sm.document_id,
		sm.document_line_id, sm.movement_date, sm.qty_change, sm.created_at,
		p.name, p.sku, w.name, l.name, d.doc_type, d.status
	FROM stock_movements sm
	JOIN products p ON sm.product_id = p.id
	JOIN warehouses w ON sm.warehouse_id = w.id
	JOIN locations l ON sm.location_id = l.id
	JOIN documents d ON sm.document_id = d.id
	WHERE 1=1`
	var args []any

	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND sm.product_id = $%d", len(args))
	}
	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		query += fmt.Sprintf(" AND sm.warehouse_id = $%d", len(args))
	}
	if filter.DocType != "" {
		args = append(args, filter.DocType)
		query += fmt.Sprintf(" AND d.doc_type = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND sm.movement_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND sm.movement_date <= $%d", len(args))
	}
	query += " ORDER BY sm.movement_date DESC, sm.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.LocationID, &m.DocumentID,
			&m.DocumentLineID, &m.MovementDate, &m.QtyChange, &m.CreatedAt,
			&m.ProductName, &m.ProductSKU, &m.WarehouseName, &m.LocationName,
			&m.DocType, &m.DocStatus); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
