package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Repository defines persistence operations for user administration.
type Repository interface {
	List(ctx context.Context) ([]auth.User, error)
	Create(ctx context.Context, user auth.User) (auth.User, error)
	Update(ctx context.Context, id, name string, role auth.Role) (auth.User, error)
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) (auth.User, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, email, password_hash, role, is_approved, default_warehouse_id, created_at, updated_at`

func scan(row pgx.Row) (auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsApproved,
		&u.DefaultWarehouseID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, httpx.Errorf(httpx.ErrNotFound, "User not found")
	}
	return u, err
}

func (r *repository) List(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsApproved,
			&u.DefaultWarehouseID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	now := time.Now().UTC()
	created, err := scan(r.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_approved, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING `+columns,
		uuid.New().String(), user.Name, user.Email, user.PasswordHash, user.Role, user.IsApproved, now))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return auth.User{}, httpx.Errorf(httpx.ErrValidation, "Email already registered")
	}
	return created, err
}

func (r *repository) Update(ctx context.Context, id, name string, role auth.Role) (auth.User, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE users SET name = $1, role = $2, updated_at = NOW()
		 WHERE id = $3 RETURNING `+columns,
		name, role, id))
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errorf(httpx.ErrNotFound, "User not found")
	}
	return nil
}

func (r *repository) SetApproved(ctx context.Context, id string, approved bool) (auth.User, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE users SET is_approved = $1, updated_at = NOW()
		 WHERE id = $2 RETURNING `+columns,
		approved, id))
}
