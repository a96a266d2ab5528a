package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type memoryRepo struct {
	products map[string]Product
	stocked  map[string]int
	lines    map[string]int
	nextID   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products: make(map[string]Product),
		stocked:  make(map[string]int),
		lines:    make(map[string]int),
	}
}

func (r *memoryRepo) List(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return Product{}, httpx.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, p Product) (Product, error) {
	r.nextID++
	p.ID = fmt.Sprintf("prod-%d", r.nextID)
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, p Product) (Product, error) {
	if _, ok := r.products[id]; !ok {
		return Product{}, httpx.ErrNotFound
	}
	p.ID = id
	r.products[id] = p
	return p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) (string, error) {
	p, ok := r.products[id]
	if !ok {
		return "", httpx.ErrNotFound
	}
	delete(r.products, id)
	return p.Name, nil
}

func (r *memoryRepo) CountStockedLocations(ctx context.Context, productID string) (int, error) {
	return r.stocked[productID], nil
}

func (r *memoryRepo) CountDocumentLines(ctx context.Context, productID string) (int, error) {
	return r.lines[productID], nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Name: "Widget"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Product{SKU: "WID-1", Name: "Widget", MinStock: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.Create(ctx, Product{SKU: "WID-1", Name: "Widget", UOM: "pcs"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}

func TestDeleteGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{SKU: "WID-1", Name: "Widget", UOM: "pcs"})
	require.NoError(t, err)

	repo.stocked[created.ID] = 2
	_, err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "stock in 2 location(s)")

	repo.stocked[created.ID] = 0
	repo.lines[created.ID] = 4
	_, err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "4 document line(s)")

	repo.lines[created.ID] = 0
	name, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget", name)
}
