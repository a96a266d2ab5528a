package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id string, product Product) (Product, error)
	Delete(ctx context.Context, id string) (string, error)
	CountStockedLocations(ctx context.Context, productID string) (int, error)
	CountDocumentLines(ctx context.Context, productID string) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, sku, name, category, uom, default_warehouse_id, default_location_id,
	min_stock, opening_stock_qty, created_at, updated_at`

func scan(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.UOM,
		&p.DefaultWarehouseID, &p.DefaultLocationID, &p.MinStock, &p.OpeningStockQty,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.Errorf(httpx.ErrNotFound, "Product not found")
	}
	return p, err
}

// List returns all products with their default warehouse/location names joined.
func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.sku, p.name, p.category, p.uom, p.default_warehouse_id, p.default_location_id,
		        p.min_stock, p.opening_stock_qty, p.created_at, p.updated_at,
		        w.name AS default_warehouse_name, l.name AS default_location_name
		 FROM products p
		 LEFT JOIN warehouses w ON p.default_warehouse_id = w.id
		 LEFT JOIN locations l ON p.default_location_id = l.id
		 ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.UOM,
			&p.DefaultWarehouseID, &p.DefaultLocationID, &p.MinStock, &p.OpeningStockQty,
			&p.CreatedAt, &p.UpdatedAt, &p.DefaultWarehouseName, &p.DefaultLocationName); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	return scan(r.pool.QueryRow(ctx,
		`INSERT INTO products
		 (id, sku, name, category, uom, default_warehouse_id, default_location_id,
		  min_stock, opening_stock_qty, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING `+columns,
		uuid.New().String(), product.SKU, product.Name, product.Category, product.UOM,
		product.DefaultWarehouseID, product.DefaultLocationID,
		product.MinStock, product.OpeningStockQty, now))
}

func (r *repository) Update(ctx context.Context, id string, product Product) (Product, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE products SET
		 sku = $1, name = $2, category = $3, uom = $4,
		 default_warehouse_id = $5, default_location_id = $6,
		 min_stock = $7, opening_stock_qty = $8, updated_at = NOW()
		 WHERE id = $9 RETURNING `+columns,
		product.SKU, product.Name, product.Category, product.UOM,
		product.DefaultWarehouseID, product.DefaultLocationID,
		product.MinStock, product.OpeningStockQty, id))
}

func (r *repository) Delete(ctx context.Context, id string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM products WHERE id = $1 RETURNING name`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", httpx.Errorf(httpx.ErrNotFound, "Product not found")
	}
	return name, err
}

func (r *repository) CountStockedLocations(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM current_stock WHERE product_id = $1 AND quantity > 0`,
		productID).Scan(&count)
	return count, err
}

func (r *repository) CountDocumentLines(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM document_lines WHERE product_id = $1`, productID).Scan(&count)
	return count, err
}
