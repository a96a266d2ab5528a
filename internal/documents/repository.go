package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/platform/db"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// ListFilter narrows a document listing.
type ListFilter struct {
	Status      string
	WarehouseID string
}

// Repository defines persistence operations for stock documents.
type Repository interface {
	List(ctx context.Context, docType Type, filter ListFilter) ([]Document, error)
	Get(ctx context.Context, docType Type, id string) (Document, error)
	Create(ctx context.Context, doc Document, lines []Line) (Document, error)
	UpdateDraft(ctx context.Context, docType Type, id string, doc Document, lines []Line) (Document, error)
	Confirm(ctx context.Context, docType Type, id, confirmedBy string) (Document, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const headerColumns = `d.id, d.doc_type, d.status, d.date, d.warehouse_id, d.from_warehouse_id,
	d.to_warehouse_id, d.supplier_name, d.customer_name, d.reason,
	d.created_by_user_id, d.confirmed_by_user_id, d.created_at, d.updated_at`

func scanHeader(row pgx.Row, docType Type) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.DocType, &d.Status, &d.Date, &d.WarehouseID, &d.FromWarehouseID,
		&d.ToWarehouseID, &d.SupplierName, &d.CustomerName, &d.Reason,
		&d.CreatedByUserID, &d.ConfirmedByUserID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, httpx.Errorf(httpx.ErrNotFound, "%s not found", docType.Label())
	}
	return d, err
}

// List returns the documents of one type, newest first, with the joined
// user and warehouse names the listing views display.
func (r *repository) List(ctx context.Context, docType Type, filter ListFilter) ([]Document, error) {
	query := `SELECT ` + headerColumns + `,
		u1.name AS created_by_name,
		u2.name AS confirmed_by_name,
		w1.name AS warehouse_name,
		w2.name AS from_warehouse_name,
		w3.name AS to_warehouse_name
	FROM documents d
	LEFT JOIN users u1 ON d.created_by_user_id = u1.id
	LEFT JOIN users u2 ON d.confirmed_by_user_id = u2.id
	LEFT JOIN warehouses w1 ON d.warehouse_id = w1.id
	LEFT JOIN warehouses w2 ON d.from_warehouse_id = w2.id
	LEFT JOIN warehouses w3 ON d.to_warehouse_id = w3.id
	WHERE d.doc_type = $1`
	args := []any{docType}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND d.status = $%d", len(args))
	}
	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		n := len(args)
		query += fmt.Sprintf(" AND (d.warehouse_id = $%d OR d.from_warehouse_id = $%d OR d.to_warehouse_id = $%d)", n, n, n)
	}
	query += " ORDER BY d.date DESC, d.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.DocType, &d.Status, &d.Date, &d.WarehouseID, &d.FromWarehouseID,
			&d.ToWarehouseID, &d.SupplierName, &d.CustomerName, &d.Reason,
			&d.CreatedByUserID, &d.ConfirmedByUserID, &d.CreatedAt, &d.UpdatedAt,
			&d.CreatedByName, &d.ConfirmedByName,
			&d.WarehouseName, &d.FromWarehouseName, &d.ToWarehouseName); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Get returns one document with its lines, product names and SKUs joined.
func (r *repository) Get(ctx context.Context, docType Type, id string) (Document, error) {
	doc, err := scanHeader(r.pool.QueryRow(ctx,
		`SELECT `+headerColumns+` FROM documents d
		 WHERE d.id = $1 AND d.doc_type = $2`, id, docType), docType)
	if err != nil {
		return Document{}, err
	}
	err = r.pool.QueryRow(ctx,
		`SELECT w1.name, w2.name, w3.name
		 FROM documents d
		 LEFT JOIN warehouses w1 ON d.warehouse_id = w1.id
		 LEFT JOIN warehouses w2 ON d.from_warehouse_id = w2.id
		 LEFT JOIN warehouses w3 ON d.to_warehouse_id = w3.id
		 WHERE d.id = $1`, id).Scan(&doc.WarehouseName, &doc.FromWarehouseName, &doc.ToWarehouseName)
	if err != nil {
		return Document{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT dl.id, dl.document_id, dl.product_id, dl.from_location_id, dl.to_location_id, dl.quantity,
		        p.name, p.sku, l1.name, l2.name
		 FROM document_lines dl
		 JOIN products p ON dl.product_id = p.id
		 LEFT JOIN locations l1 ON dl.from_location_id = l1.id
		 LEFT JOIN locations l2 ON dl.to_location_id = l2.id
		 WHERE dl.document_id = $1
		 ORDER BY p.name`, id)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()

	doc.Lines = []Line{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.DocumentID, &line.ProductID,
			&line.FromLocationID, &line.ToLocationID, &line.Quantity,
			&line.ProductName, &line.ProductSKU,
			&line.FromLocationName, &line.ToLocationName); err != nil {
			return Document{}, err
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, rows.Err()
}

// Create inserts a draft header and its lines in one transaction.
func (r *repository) Create(ctx context.Context, doc Document, lines []Line) (Document, error) {
	var created Document
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		var err error
		created, err = scanHeader(tx.QueryRow(ctx,
			`INSERT INTO documents
			 (id, doc_type, status, date, warehouse_id, from_warehouse_id, to_warehouse_id,
			  supplier_name, customer_name, reason, created_by_user_id, created_at, updated_at)
			 VALUES ($1, $2, 'DRAFT', $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			 RETURNING `+headerColumns,
			uuid.New().String(), doc.DocType, doc.Date,
			doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID,
			doc.SupplierName, doc.CustomerName, doc.Reason, doc.CreatedByUserID, now), doc.DocType)
		if err != nil {
			return err
		}
		return insertLines(ctx, tx, created.ID, lines)
	})
	return created, err
}

// UpdateDraft rewrites a draft header and replaces its lines wholesale.
// The caller must have verified the document is still a draft.
func (r *repository) UpdateDraft(ctx context.Context, docType Type, id string, doc Document, lines []Line) (Document, error) {
	var updated Document
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		updated, err = scanHeader(tx.QueryRow(ctx,
			`UPDATE documents SET
			 date = $1, warehouse_id = $2, from_warehouse_id = $3, to_warehouse_id = $4,
			 supplier_name = $5, customer_name = $6, reason = $7, updated_at = NOW()
			 WHERE id = $8 AND doc_type = $9 RETURNING `+headerColumns,
			doc.Date, doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID,
			doc.SupplierName, doc.CustomerName, doc.Reason, id, docType), docType)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, id); err != nil {
			return err
		}
		return insertLines(ctx, tx, id, lines)
	})
	return updated, err
}

func insertLines(ctx context.Context, tx pgx.Tx, docID string, lines []Line) error {
	for _, line := range lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO document_lines (id, document_id, product_id, from_location_id, to_location_id, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), docID, line.ProductID,
			line.FromLocationID, line.ToLocationID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Confirm flips a draft to CONFIRMED and posts its stock effects. The
// status check, movement inserts and balance upserts run in a single
// transaction with the header row locked, so a document can never be
// posted twice and balances never drift from the movement log.
func (r *repository) Confirm(ctx context.Context, docType Type, id, confirmedBy string) (Document, error) {
	var confirmed Document
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		doc, err := scanHeader(tx.QueryRow(ctx,
			`SELECT `+headerColumns+` FROM documents d
			 WHERE d.id = $1 AND d.doc_type = $2 FOR UPDATE`, id, docType), docType)
		if err != nil {
			return err
		}
		if doc.Status == StatusConfirmed {
			return httpx.Errorf(httpx.ErrValidation, "Already confirmed")
		}

		rows, err := tx.Query(ctx,
			`SELECT dl.id, dl.document_id, dl.product_id, dl.from_location_id, dl.to_location_id, dl.quantity, p.sku
			 FROM document_lines dl
			 JOIN products p ON dl.product_id = p.id
			 WHERE dl.document_id = $1`, id)
		if err != nil {
			return err
		}
		var lines []Line
		skuByProduct := map[string]string{}
		for rows.Next() {
			var line Line
			if err := rows.Scan(&line.ID, &line.DocumentID, &line.ProductID,
				&line.FromLocationID, &line.ToLocationID, &line.Quantity, &line.ProductSKU); err != nil {
				rows.Close()
				return err
			}
			skuByProduct[line.ProductID] = line.ProductSKU
			lines = append(lines, line)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, p := range Postings(doc, lines) {
			if p.QtyChange < 0 {
				var available float64
				err := tx.QueryRow(ctx,
					`SELECT COALESCE(SUM(quantity), 0) FROM current_stock
					 WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3`,
					p.ProductID, p.WarehouseID, p.LocationID).Scan(&available)
				if err != nil {
					return err
				}
				if available+p.QtyChange < 0 {
					return httpx.Errorf(httpx.ErrValidation,
						"Insufficient stock for product %s. Available: %g, required: %g",
						skuByProduct[p.ProductID], available, -p.QtyChange)
				}
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO stock_movements
				 (id, product_id, warehouse_id, location_id, document_id, document_line_id, movement_date, qty_change, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
				uuid.New().String(), p.ProductID, p.WarehouseID, p.LocationID,
				id, p.LineID, doc.Date, p.QtyChange); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO current_stock (product_id, warehouse_id, location_id, quantity)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (product_id, warehouse_id, location_id)
				 DO UPDATE SET quantity = current_stock.quantity + EXCLUDED.quantity, updated_at = NOW()`,
				p.ProductID, p.WarehouseID, p.LocationID, p.QtyChange); err != nil {
				return err
			}
		}

		confirmed, err = scanHeader(tx.QueryRow(ctx,
			`UPDATE documents SET status = 'CONFIRMED', confirmed_by_user_id = $1, updated_at = NOW()
			 WHERE id = $2 RETURNING `+headerColumns, confirmedBy, id), docType)
		return err
	})
	return confirmed, err
}
