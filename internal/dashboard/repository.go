package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/stock"
)

// Repository computes the dashboard aggregates.
type Repository interface {
	Summary(ctx context.Context) (Summary, error)
	RiskAlerts(ctx context.Context) ([]RiskAlert, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Summary(ctx context.Context) (Summary, error) {
	var s Summary

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&s.TotalProducts)
	if err != nil {
		return Summary{}, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT p.id)
		FROM products p
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS total_qty
			FROM current_stock
			GROUP BY product_id
		) cs ON p.id = cs.product_id
		WHERE COALESCE(cs.total_qty, 0) < p.min_stock`).Scan(&s.LowStockCount)
	if err != nil {
		return Summary{}, err
	}

	pending := map[string]*int{
		"RECEIPT":  &s.PendingReceiptsCount,
		"DELIVERY": &s.PendingDeliveriesCount,
		"TRANSFER": &s.PendingTransfersCount,
	}
	for docType, dst := range pending {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM documents WHERE doc_type = $1 AND status = 'DRAFT'`,
			docType).Scan(dst)
		if err != nil {
			return Summary{}, err
		}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT sm.id, sm.product_id, sm.warehouse_id, sm.location_id, sm.document_id,
		       sm.document_line_id, sm.movement_date, sm.qty_change, sm.created_at,
		       p.name, p.sku, w.name, l.name, d.doc_type
		FROM stock_movements sm
		JOIN products p ON sm.product_id = p.id
		JOIN warehouses w ON sm.warehouse_id = w.id
		JOIN locations l ON sm.location_id = l.id
		JOIN documents d ON sm.document_id = d.id
		ORDER BY sm.created_at DESC
		LIMIT 10`)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	s.LastMovements = []stock.Movement{}
	for rows.Next() {
		var m stock.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.LocationID, &m.DocumentID,
			&m.DocumentLineID, &m.MovementDate, &m.QtyChange, &m.CreatedAt,
			&m.ProductName, &m.ProductSKU, &m.WarehouseName, &m.LocationName, &m.DocType); err != nil {
			return Summary{}, err
		}
		s.LastMovements = append(s.LastMovements, m)
	}
	return s, rows.Err()
}

func (r *repository) RiskAlerts(ctx context.Context) ([]RiskAlert, error) {
	rows, err := r.pool.Query(ctx, `
		WITH product_outflows AS (
			SELECT product_id, AVG(ABS(qty_change)) AS avg_daily_out
			FROM stock_movements
			WHERE qty_change < 0
			  AND movement_date >= CURRENT_DATE - INTERVAL '30 days'
			GROUP BY product_id
			HAVING AVG(ABS(qty_change)) > 0
		),
		current_totals AS (
			SELECT product_id, SUM(quantity) AS total_stock
			FROM current_stock
			GROUP BY product_id
		)
		SELECT p.id, p.name, p.sku,
		       COALESCE(ct.total_stock, 0),
		       po.avg_daily_out,
		       COALESCE(ct.total_stock, 0) / po.avg_daily_out AS days_to_zero
		FROM products p
		LEFT JOIN current_totals ct ON p.id = ct.product_id
		JOIN product_outflows po ON p.id = po.product_id
		WHERE COALESCE(ct.total_stock, 0) / po.avg_daily_out <= 7
		ORDER BY days_to_zero ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []RiskAlert
	for rows.Next() {
		var a RiskAlert
		if err := rows.Scan(&a.ProductID, &a.ProductName, &a.ProductSKU,
			&a.CurrentStock, &a.AvgDailyOut, &a.DaysToZero); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
