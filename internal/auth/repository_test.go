package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

func TestMapUserInsertError(t *testing.T) {
	dup := mapUserInsertError(fmt.Errorf("insert users: %w", &pgconn.PgError{Code: "23505"}))
	require.ErrorIs(t, dup, httpx.ErrValidation)
	require.Equal(t, "Email already registered", dup.Error())

	other := errors.New("connection reset")
	require.Equal(t, other, mapUserInsertError(other))

	otherPG := mapUserInsertError(&pgconn.PgError{Code: "23503"})
	require.NotErrorIs(t, otherPG, httpx.ErrValidation)
}
