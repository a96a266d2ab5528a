package warehouses

import (
	"context"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Service handles warehouse business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all warehouses ordered by name.
func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	return s.repo.List(ctx)
}

// Get fetches one warehouse.
func (s *Service) Get(ctx context.Context, id string) (Warehouse, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new warehouse.
func (s *Service) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	if err := s.validate(warehouse); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Create(ctx, warehouse)
}

// Update replaces a warehouse's fields.
func (s *Service) Update(ctx context.Context, id string, warehouse Warehouse) (Warehouse, error) {
	if err := s.validate(warehouse); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Update(ctx, id, warehouse)
}

// Delete removes a warehouse after checking it holds no locations or stock.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	locationCount, err := s.repo.CountLocations(ctx, id)
	if err != nil {
		return "", err
	}
	if locationCount > 0 {
		return "", httpx.Errorf(httpx.ErrValidation,
			"Cannot delete warehouse. It has %d location(s). Please delete or reassign locations first.", locationCount)
	}
	stockCount, err := s.repo.CountStockedLocations(ctx, id)
	if err != nil {
		return "", err
	}
	if stockCount > 0 {
		return "", httpx.Errorf(httpx.ErrValidation,
			"Cannot delete warehouse. It has stock in %d location(s). Please clear stock first.", stockCount)
	}
	return s.repo.Delete(ctx, id)
}
