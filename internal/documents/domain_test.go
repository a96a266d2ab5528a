package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestPostingsReceipt(t *testing.T) {
	doc := Document{DocType: TypeReceipt, WarehouseID: strptr("wh-1"), Date: time.Now()}
	lines := []Line{
		{ID: "l1", ProductID: "p1", ToLocationID: strptr("loc-1"), Quantity: 5},
		{ID: "l2", ProductID: "p2", ToLocationID: strptr("loc-2"), Quantity: 3},
	}

	got := Postings(doc, lines)
	require.Len(t, got, 2)
	require.Equal(t, Posting{ProductID: "p1", WarehouseID: "wh-1", LocationID: "loc-1", LineID: "l1", QtyChange: 5}, got[0])
	require.Equal(t, Posting{ProductID: "p2", WarehouseID: "wh-1", LocationID: "loc-2", LineID: "l2", QtyChange: 3}, got[1])
}

func TestPostingsDelivery(t *testing.T) {
	doc := Document{DocType: TypeDelivery, WarehouseID: strptr("wh-1")}
	lines := []Line{{ID: "l1", ProductID: "p1", FromLocationID: strptr("loc-1"), Quantity: 4}}

	got := Postings(doc, lines)
	require.Len(t, got, 1)
	require.Equal(t, -4.0, got[0].QtyChange)
	require.Equal(t, "loc-1", got[0].LocationID)
}

func TestPostingsTransferProducesPair(t *testing.T) {
	doc := Document{
		DocType:         TypeTransfer,
		FromWarehouseID: strptr("wh-1"),
		ToWarehouseID:   strptr("wh-2"),
	}
	lines := []Line{{
		ID: "l1", ProductID: "p1",
		FromLocationID: strptr("loc-a"), ToLocationID: strptr("loc-b"),
		Quantity: 7,
	}}

	got := Postings(doc, lines)
	require.Len(t, got, 2)

	require.Equal(t, -7.0, got[0].QtyChange)
	require.Equal(t, "wh-1", got[0].WarehouseID)
	require.Equal(t, "loc-a", got[0].LocationID)

	require.Equal(t, 7.0, got[1].QtyChange)
	require.Equal(t, "wh-2", got[1].WarehouseID)
	require.Equal(t, "loc-b", got[1].LocationID)

	// net effect of a transfer is zero
	require.Zero(t, got[0].QtyChange+got[1].QtyChange)
}

func TestPostingsAdjustmentKeepsSign(t *testing.T) {
	doc := Document{DocType: TypeAdjustment, WarehouseID: strptr("wh-1")}
	lines := []Line{
		{ID: "l1", ProductID: "p1", ToLocationID: strptr("loc-1"), Quantity: -2.5},
		{ID: "l2", ProductID: "p2", ToLocationID: strptr("loc-1"), Quantity: 1},
	}

	got := Postings(doc, lines)
	require.Len(t, got, 2)
	require.Equal(t, -2.5, got[0].QtyChange)
	require.Equal(t, 1.0, got[1].QtyChange)
}
