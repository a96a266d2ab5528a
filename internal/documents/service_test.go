package documents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// memoryRepo mirrors the PostgreSQL confirmation semantics: the status
// guard, the insufficient-stock guard and the balance upserts.
type memoryRepo struct {
	docs     map[string]Document
	lines    map[string][]Line
	balances map[string]float64
	nextID   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		docs:     make(map[string]Document),
		lines:    make(map[string][]Line),
		balances: make(map[string]float64),
	}
}

func balanceKey(p Posting) string {
	return p.ProductID + "/" + p.WarehouseID + "/" + p.LocationID
}

func (r *memoryRepo) List(ctx context.Context, docType Type, filter ListFilter) ([]Document, error) {
	var out []Document
	for _, d := range r.docs {
		if d.DocType != docType {
			continue
		}
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, docType Type, id string) (Document, error) {
	d, ok := r.docs[id]
	if !ok || d.DocType != docType {
		return Document{}, httpx.Errorf(httpx.ErrNotFound, "%s not found", docType.Label())
	}
	d.Lines = r.lines[id]
	return d, nil
}

func (r *memoryRepo) Create(ctx context.Context, doc Document, lines []Line) (Document, error) {
	r.nextID++
	doc.ID = fmt.Sprintf("doc-%d", r.nextID)
	doc.Status = StatusDraft
	r.docs[doc.ID] = doc
	for i := range lines {
		lines[i].ID = fmt.Sprintf("%s-l%d", doc.ID, i)
		lines[i].DocumentID = doc.ID
	}
	r.lines[doc.ID] = lines
	return doc, nil
}

func (r *memoryRepo) UpdateDraft(ctx context.Context, docType Type, id string, doc Document, lines []Line) (Document, error) {
	existing, ok := r.docs[id]
	if !ok {
		return Document{}, httpx.Errorf(httpx.ErrNotFound, "%s not found", docType.Label())
	}
	doc.ID = id
	doc.DocType = docType
	doc.Status = existing.Status
	r.docs[id] = doc
	r.lines[id] = lines
	return doc, nil
}

func (r *memoryRepo) Confirm(ctx context.Context, docType Type, id, confirmedBy string) (Document, error) {
	doc, ok := r.docs[id]
	if !ok || doc.DocType != docType {
		return Document{}, httpx.Errorf(httpx.ErrNotFound, "%s not found", docType.Label())
	}
	if doc.Status == StatusConfirmed {
		return Document{}, httpx.Errorf(httpx.ErrValidation, "Already confirmed")
	}
	postings := Postings(doc, r.lines[id])
	for _, p := range postings {
		if p.QtyChange < 0 && r.balances[balanceKey(p)]+p.QtyChange < 0 {
			return Document{}, httpx.Errorf(httpx.ErrValidation,
				"Insufficient stock for product %s. Available: %g, required: %g",
				p.ProductID, r.balances[balanceKey(p)], -p.QtyChange)
		}
	}
	for _, p := range postings {
		r.balances[balanceKey(p)] += p.QtyChange
	}
	doc.Status = StatusConfirmed
	doc.ConfirmedByUserID = &confirmedBy
	r.docs[id] = doc
	return doc, nil
}

type recordingListener struct {
	confirmed []Document
}

func (l *recordingListener) DocumentConfirmed(ctx context.Context, doc Document) {
	l.confirmed = append(l.confirmed, doc)
}

func draftReceipt(t *testing.T, svc *Service, qty float64) Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), Document{
		DocType:         TypeReceipt,
		Date:            time.Now(),
		WarehouseID:     strptr("wh-1"),
		CreatedByUserID: "user-1",
	}, []Line{{ProductID: "p1", ToLocationID: strptr("loc-1"), Quantity: qty}})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, doc.Status)
	return doc
}

func TestConfirmIsTerminal(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doc := draftReceipt(t, svc, 10)

	confirmed, err := svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)
	require.Equal(t, "admin-1", *confirmed.ConfirmedByUserID)

	_, err = svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Already confirmed", err.Error())

	_, err = svc.Update(ctx, TypeReceipt, doc.ID, Document{Date: time.Now()}, nil)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Cannot edit confirmed document", err.Error())
}

func TestConfirmUpdatesBalances(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doc := draftReceipt(t, svc, 10)
	_, err := svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, 10.0, repo.balances["p1/wh-1/loc-1"])

	delivery, err := svc.Create(ctx, Document{
		DocType:         TypeDelivery,
		Date:            time.Now(),
		WarehouseID:     strptr("wh-1"),
		CreatedByUserID: "user-1",
	}, []Line{{ProductID: "p1", FromLocationID: strptr("loc-1"), Quantity: 4}})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, TypeDelivery, delivery.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, 6.0, repo.balances["p1/wh-1/loc-1"])
}

func TestConfirmRejectsInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doc := draftReceipt(t, svc, 3)
	_, err := svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.NoError(t, err)

	delivery, err := svc.Create(ctx, Document{
		DocType:         TypeDelivery,
		Date:            time.Now(),
		WarehouseID:     strptr("wh-1"),
		CreatedByUserID: "user-1",
	}, []Line{{ProductID: "p1", FromLocationID: strptr("loc-1"), Quantity: 5}})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, TypeDelivery, delivery.ID, "admin-1")
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "Insufficient stock")
	require.Equal(t, 3.0, repo.balances["p1/wh-1/loc-1"])
}

func TestConfirmNotifiesListeners(t *testing.T) {
	repo := newMemoryRepo()
	listener := &recordingListener{}
	svc := NewService(repo, listener)
	ctx := context.Background()

	doc := draftReceipt(t, svc, 1)
	_, err := svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.NoError(t, err)
	require.Len(t, listener.confirmed, 1)
	require.Equal(t, doc.ID, listener.confirmed[0].ID)

	// a failed confirmation must not notify
	_, err = svc.Confirm(ctx, TypeReceipt, doc.ID, "admin-1")
	require.Error(t, err)
	require.Len(t, listener.confirmed, 1)
}

func TestCreateValidatesLines(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Document{DocType: TypeReceipt, WarehouseID: strptr("wh-1")},
		[]Line{{ProductID: "p1", Quantity: 0}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Document{DocType: TypeAdjustment, WarehouseID: strptr("wh-1")},
		[]Line{{ProductID: "p1", ToLocationID: strptr("loc-1"), Quantity: -2}})
	require.NoError(t, err)
}
