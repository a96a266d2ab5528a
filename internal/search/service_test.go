package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	products map[string]string // fragment -> "id|name"
}

func (f *fakeFinder) FindProduct(ctx context.Context, fragment string) (string, string, bool, error) {
	for needle, v := range f.products {
		if strings.Contains(needle, fragment) {
			id, name, _ := strings.Cut(v, "|")
			return id, name, true, nil
		}
	}
	return "", "", false, nil
}

func newTestService() *Service {
	return NewService(&fakeFinder{products: map[string]string{
		"steel bolts": "p1|Steel Bolts",
	}})
}

func TestSuggestLowStock(t *testing.T) {
	svc := newTestService()

	for _, q := range []string{"low stock", "  LOW STOCK  ", "Low Stock"} {
		got, err := svc.Suggest(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, IntentLowStock, got.Type, "query %q", q)
	}
}

func TestSuggestStockOfProduct(t *testing.T) {
	svc := newTestService()

	got, err := svc.Suggest(context.Background(), "stock of Steel")
	require.NoError(t, err)
	require.Equal(t, IntentStock, got.Type)
	require.Equal(t, "p1", got.ProductID)
	require.Equal(t, "Steel Bolts", got.ProductName)
}

func TestSuggestMovementsOfProduct(t *testing.T) {
	svc := newTestService()

	got, err := svc.Suggest(context.Background(), "movements of bolts")
	require.NoError(t, err)
	require.Equal(t, IntentMovements, got.Type)
	require.Equal(t, "p1", got.ProductID)
}

func TestSuggestNoMatch(t *testing.T) {
	svc := newTestService()

	for _, q := range []string{"", "bolts", "stock of ", "stock of widgets", "delete everything"} {
		got, err := svc.Suggest(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, IntentNoMatch, got.Type, "query %q", q)
	}
}
