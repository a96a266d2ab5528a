package search

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed product finder.
func NewRepository(pool *pgxpool.Pool) ProductFinder {
	return &repository{pool: pool}
}

func (r *repository) FindProduct(ctx context.Context, fragment string) (string, string, bool, error) {
	var id, name string
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM products
		 WHERE LOWER(name) LIKE $1 OR LOWER(sku) LIKE $1
		 LIMIT 1`, "%"+fragment+"%").Scan(&id, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return id, name, true, nil
}
