package reports

import (
	"context"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Service computes the stock reports.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ledger returns a product's movement history with running balances.
// Each entry's balance equals the previous entry's balance plus its own
// quantity change; the first entry starts from zero.
func (s *Service) Ledger(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, error) {
	if filter.ProductID == "" {
		return nil, httpx.Errorf(httpx.ErrValidation, "product_id is required")
	}
	entries, err := s.repo.LedgerMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	return RunBalance(entries), nil
}

// RunBalance annotates ordered ledger entries with their running balance.
func RunBalance(entries []LedgerEntry) []LedgerEntry {
	balance := 0.0
	for i := range entries {
		balance += entries[i].QtyChange
		entries[i].RunningBalance = balance
	}
	return entries
}

// LowStock lists product/warehouse pairs under their minimum stock,
// optionally for a single warehouse.
func (s *Service) LowStock(ctx context.Context, warehouseID string) ([]LowStockRow, error) {
	return s.repo.LowStock(ctx, warehouseID)
}
