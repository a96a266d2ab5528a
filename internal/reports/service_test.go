package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type memoryRepo struct {
	entries []LedgerEntry
	low     []LowStockRow
}

func (r *memoryRepo) LedgerMovements(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, error) {
	var out []LedgerEntry
	for _, e := range r.entries {
		if e.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && e.WarehouseID != filter.WarehouseID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryRepo) LowStock(ctx context.Context, warehouseID string) ([]LowStockRow, error) {
	return r.low, nil
}

func day(n int) time.Time {
	return time.Date(2026, time.March, n, 0, 0, 0, 0, time.UTC)
}

func TestLedgerRunningBalance(t *testing.T) {
	repo := &memoryRepo{entries: []LedgerEntry{
		{ID: "m1", ProductID: "p1", WarehouseID: "wh-1", MovementDate: day(1), QtyChange: 10},
		{ID: "m2", ProductID: "p1", WarehouseID: "wh-1", MovementDate: day(2), QtyChange: -4},
		{ID: "m3", ProductID: "p1", WarehouseID: "wh-1", MovementDate: day(2), QtyChange: -1.5},
		{ID: "m4", ProductID: "p1", WarehouseID: "wh-1", MovementDate: day(5), QtyChange: 2},
	}}
	svc := NewService(repo)

	entries, err := svc.Ledger(context.Background(), LedgerFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, 10.0, entries[0].RunningBalance)
	require.Equal(t, 6.0, entries[1].RunningBalance)
	require.Equal(t, 4.5, entries[2].RunningBalance)
	require.Equal(t, 6.5, entries[3].RunningBalance)

	// each balance is the previous balance plus the entry's own change
	for i := 1; i < len(entries); i++ {
		require.Equal(t, entries[i-1].RunningBalance+entries[i].QtyChange, entries[i].RunningBalance)
	}
}

func TestLedgerRequiresProduct(t *testing.T) {
	svc := NewService(&memoryRepo{})
	_, err := svc.Ledger(context.Background(), LedgerFilter{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestLedgerEmptyProduct(t *testing.T) {
	svc := NewService(&memoryRepo{})
	entries, err := svc.Ledger(context.Background(), LedgerFilter{ProductID: "p-unknown"})
	require.NoError(t, err)
	require.Empty(t, entries)
}
