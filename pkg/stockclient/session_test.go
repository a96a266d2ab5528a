package stockclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBackend serves receipts and products with call counters, enough
// to exercise the session's caching and rollback behavior end to end.
type fakeBackend struct {
	mu           sync.Mutex
	receipts     []Document
	products     []Product
	receiptLists atomic.Int64
	productLists atomic.Int64
	failUpdates  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		receipts: []Document{
			{ID: "r1", DocType: "RECEIPT", Status: StatusDraft},
			{ID: "r2", DocType: "RECEIPT", Status: StatusConfirmed},
		},
		products: []Product{{ID: "p1", SKU: "BOLT-M8", Name: "Steel Bolts"}},
	}
}

func (b *fakeBackend) lock() func() {
	b.mu.Lock()
	return b.mu.Unlock
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /receipts", func(w http.ResponseWriter, r *http.Request) {
		defer b.lock()()
		b.receiptLists.Add(1)
		writeJSON(w, http.StatusOK, b.receipts)
	})
	mux.HandleFunc("GET /receipts/{id}", func(w http.ResponseWriter, r *http.Request) {
		defer b.lock()()
		for _, d := range b.receipts {
			if d.ID == r.PathValue("id") {
				d.Lines = []DocumentLine{{ID: "l1", ProductID: "p1", Quantity: 5}}
				writeJSON(w, http.StatusOK, d)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Receipt not found"})
	})
	mux.HandleFunc("POST /receipts/{id}/confirm", func(w http.ResponseWriter, r *http.Request) {
		defer b.lock()()
		for i, d := range b.receipts {
			if d.ID != r.PathValue("id") {
				continue
			}
			if d.Status == StatusConfirmed {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Already confirmed"})
				return
			}
			b.receipts[i].Status = StatusConfirmed
			writeJSON(w, http.StatusOK, b.receipts[i])
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Receipt not found"})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		defer b.lock()()
		b.productLists.Add(1)
		writeJSON(w, http.StatusOK, b.products)
	})
	mux.HandleFunc("PUT /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		defer b.lock()()
		if b.failUpdates {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "sku is invalid"})
			return
		}
		var p Product
		_ = json.NewDecoder(r.Body).Decode(&p)
		p.ID = r.PathValue("id")
		for i := range b.products {
			if b.products[i].ID == p.ID {
				b.products[i] = p
			}
		}
		writeJSON(w, http.StatusOK, p)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestSession(t *testing.T) (*Session, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewSession(NewClient(server.URL, WithToken("test-token"))), backend
}

func TestDocumentsCachesUnfilteredList(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	all, err := session.Documents(ctx, KeyReceipts, "", false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// both filtered views come from the same cached unfiltered unit
	drafts, err := session.Documents(ctx, KeyReceipts, StatusDraft, false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, "r1", drafts[0].ID)

	confirmed, err := session.Documents(ctx, KeyReceipts, StatusConfirmed, false)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)

	require.Equal(t, int64(1), backend.receiptLists.Load())
}

func TestDocumentDetailBypassesCache(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	_, err := session.Documents(ctx, KeyReceipts, "", false)
	require.NoError(t, err)

	doc, err := session.Document(ctx, KeyReceipts, "r1")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	// the detail call did not count as a list fetch
	require.Equal(t, int64(1), backend.receiptLists.Load())
}

func TestConfirmInvalidatesAndRefetches(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	drafts, err := session.Documents(ctx, KeyReceipts, StatusDraft, false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	confirmed, err := session.ConfirmDocument(ctx, KeyReceipts, "r1")
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)

	// the cached list was dropped and refetched with the new status
	require.Equal(t, int64(2), backend.receiptLists.Load())

	drafts, err = session.Documents(ctx, KeyReceipts, StatusDraft, false)
	require.NoError(t, err)
	require.Empty(t, drafts)
	require.Equal(t, int64(2), backend.receiptLists.Load())
}

func TestConfirmIsTerminal(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := context.Background()

	_, err := session.ConfirmDocument(ctx, KeyReceipts, "r2")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Already confirmed", apiErr.Error())
}

func TestFailedUpdateRollsBackOptimisticState(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	products, err := session.Products(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "Steel Bolts", products[0].Name)

	backend.failUpdates = true
	_, err = session.UpdateProduct(ctx, "p1", Product{SKU: "", Name: "Renamed"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "sku is invalid", apiErr.Error())

	// rollback refetched the slot, so the optimistic rename is gone
	products, err = session.Products(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "Steel Bolts", products[0].Name)
	require.Equal(t, int64(2), backend.productLists.Load())
}

func TestSuccessfulUpdateKeepsOptimisticState(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	_, err := session.Products(ctx, false)
	require.NoError(t, err)

	updated, err := session.UpdateProduct(ctx, "p1", Product{SKU: "BOLT-M8", Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	products, err := session.Products(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "Renamed", products[0].Name)
	// no extra list fetch: the cache was patched in place
	require.Equal(t, int64(1), backend.productLists.Load())
}

func TestErrorDetailSurfacedVerbatim(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.Document(context.Background(), KeyReceipts, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Receipt not found", err.Error())
}

func TestLogoutClearsCache(t *testing.T) {
	session, backend := newTestSession(t)
	ctx := context.Background()

	_, err := session.Products(ctx, false)
	require.NoError(t, err)

	session.Logout()

	_, err = session.Products(ctx, false)
	require.NoError(t, err)
	require.Equal(t, int64(2), backend.productLists.Load())
}

func TestAuthorizationHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []Warehouse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("secret-token"))
	_, err := client.Warehouses(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	require.Equal(t, "Bearer secret-token", gotAuth)
}
