package locations

import (
	"context"
	"strings"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Service handles location business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns locations, optionally scoped to one warehouse.
func (s *Service) List(ctx context.Context, warehouseID string) ([]Location, error) {
	return s.repo.List(ctx, warehouseID)
}

// Create stores a new location.
func (s *Service) Create(ctx context.Context, location Location) (Location, error) {
	if err := validate(location); err != nil {
		return Location{}, err
	}
	return s.repo.Create(ctx, location)
}

// Update replaces a location's fields.
func (s *Service) Update(ctx context.Context, id string, location Location) (Location, error) {
	if err := validate(location); err != nil {
		return Location{}, err
	}
	return s.repo.Update(ctx, id, location)
}

func validate(l Location) error {
	if l.WarehouseID == "" {
		return httpx.Errorf(httpx.ErrValidation, "warehouse is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return httpx.Errorf(httpx.ErrValidation, "location name is required")
	}
	return nil
}
