package warehouses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type memoryRepo struct {
	warehouses map[string]Warehouse
	locations  map[string]int
	stocked    map[string]int
	nextID     int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		warehouses: make(map[string]Warehouse),
		locations:  make(map[string]int),
		stocked:    make(map[string]int),
	}
}

func (r *memoryRepo) List(ctx context.Context) ([]Warehouse, error) {
	var out []Warehouse
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		return w, nil
	}
	return Warehouse{}, httpx.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, w Warehouse) (Warehouse, error) {
	r.nextID++
	w.ID = "wh-" + string(rune('0'+r.nextID))
	r.warehouses[w.ID] = w
	return w, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, w Warehouse) (Warehouse, error) {
	if _, ok := r.warehouses[id]; !ok {
		return Warehouse{}, httpx.ErrNotFound
	}
	w.ID = id
	r.warehouses[id] = w
	return w, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) (string, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return "", httpx.ErrNotFound
	}
	delete(r.warehouses, id)
	return w.Name, nil
}

func (r *memoryRepo) CountLocations(ctx context.Context, warehouseID string) (int, error) {
	return r.locations[warehouseID], nil
}

func (r *memoryRepo) CountStockedLocations(ctx context.Context, warehouseID string) (int, error) {
	return r.stocked[warehouseID], nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Warehouse{Name: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.Create(context.Background(), Warehouse{Name: "Main"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}

func TestDeleteGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Warehouse{Name: "Main"})
	require.NoError(t, err)

	repo.locations[created.ID] = 3
	_, err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "3 location(s)")

	repo.locations[created.ID] = 0
	repo.stocked[created.ID] = 2
	_, err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "stock in 2 location(s)")

	repo.stocked[created.ID] = 0
	name, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Main", name)
}
