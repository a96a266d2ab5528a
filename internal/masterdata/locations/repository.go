package locations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Repository defines persistence operations for locations.
type Repository interface {
	List(ctx context.Context, warehouseID string) ([]Location, error)
	Create(ctx context.Context, location Location) (Location, error)
	Update(ctx context.Context, id string, location Location) (Location, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, warehouse_id, name, code, description, created_at, updated_at`

func scan(row pgx.Row) (Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.WarehouseID, &l.Name, &l.Code, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, httpx.Errorf(httpx.ErrNotFound, "Location not found")
	}
	return l, err
}

// List returns locations joined with their warehouse name, optionally
// filtered by warehouse.
func (r *repository) List(ctx context.Context, warehouseID string) ([]Location, error) {
	query := `SELECT l.id, l.warehouse_id, l.name, l.code, l.description, l.created_at, l.updated_at,
	                 w.name AS warehouse_name
	          FROM locations l
	          JOIN warehouses w ON l.warehouse_id = w.id`
	args := []any{}
	if warehouseID != "" {
		query += ` WHERE l.warehouse_id = $1 ORDER BY l.name`
		args = append(args, warehouseID)
	} else {
		query += ` ORDER BY w.name, l.name`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Name, &l.Code, &l.Description,
			&l.CreatedAt, &l.UpdatedAt, &l.WarehouseName); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *repository) Create(ctx context.Context, location Location) (Location, error) {
	now := time.Now().UTC()
	return scan(r.pool.QueryRow(ctx,
		`INSERT INTO locations (id, warehouse_id, name, code, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING `+columns,
		uuid.New().String(), location.WarehouseID, location.Name, location.Code, location.Description, now))
}

func (r *repository) Update(ctx context.Context, id string, location Location) (Location, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE locations SET warehouse_id = $1, name = $2, code = $3, description = $4, updated_at = NOW()
		 WHERE id = $5 RETURNING `+columns,
		location.WarehouseID, location.Name, location.Code, location.Description, id))
}
