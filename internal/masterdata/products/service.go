package products

import (
	"context"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Service handles product business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all products ordered by name.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new product.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

// Update replaces a product's fields.
func (s *Service) Update(ctx context.Context, id string, product Product) (Product, error) {
	if err := validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, product)
}

// Delete removes a product after checking it has no stock and no document history.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	stockCount, err := s.repo.CountStockedLocations(ctx, id)
	if err != nil {
		return "", err
	}
	if stockCount > 0 {
		return "", httpx.Errorf(httpx.ErrValidation,
			"Cannot delete product. It has stock in %d location(s). Please clear stock first.", stockCount)
	}
	lineCount, err := s.repo.CountDocumentLines(ctx, id)
	if err != nil {
		return "", err
	}
	if lineCount > 0 {
		return "", httpx.Errorf(httpx.ErrValidation,
			"Cannot delete product. It is referenced in %d document line(s). This product has transaction history.", lineCount)
	}
	return s.repo.Delete(ctx, id)
}
