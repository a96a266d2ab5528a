package warehouses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Repository defines persistence operations for warehouses.
type Repository interface {
	List(ctx context.Context) ([]Warehouse, error)
	Get(ctx context.Context, id string) (Warehouse, error)
	Create(ctx context.Context, warehouse Warehouse) (Warehouse, error)
	Update(ctx context.Context, id string, warehouse Warehouse) (Warehouse, error)
	Delete(ctx context.Context, id string) (string, error)
	CountLocations(ctx context.Context, warehouseID string) (int, error)
	CountStockedLocations(ctx context.Context, warehouseID string) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, address, created_at, updated_at`

func scan(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, httpx.Errorf(httpx.ErrNotFound, "Warehouse not found")
	}
	return w, err
}

func (r *repository) List(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Warehouse, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM warehouses WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	now := time.Now().UTC()
	return scan(r.pool.QueryRow(ctx,
		`INSERT INTO warehouses (id, name, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4) RETURNING `+columns,
		uuid.New().String(), warehouse.Name, warehouse.Address, now))
}

func (r *repository) Update(ctx context.Context, id string, warehouse Warehouse) (Warehouse, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE warehouses SET name = $1, address = $2, updated_at = NOW()
		 WHERE id = $3 RETURNING `+columns,
		warehouse.Name, warehouse.Address, id))
}

func (r *repository) Delete(ctx context.Context, id string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM warehouses WHERE id = $1 RETURNING name`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", httpx.Errorf(httpx.ErrNotFound, "Warehouse not found")
	}
	return name, err
}

func (r *repository) CountLocations(ctx context.Context, warehouseID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM locations WHERE warehouse_id = $1`, warehouseID).Scan(&count)
	return count, err
}

func (r *repository) CountStockedLocations(ctx context.Context, warehouseID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM current_stock cs
		 JOIN locations l ON cs.location_id = l.id
		 WHERE l.warehouse_id = $1 AND cs.quantity > 0`, warehouseID).Scan(&count)
	return count, err
}
