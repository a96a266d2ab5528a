package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/documents"
)

type countingRepo struct {
	calls   atomic.Int64
	release chan struct{}
}

func (r *countingRepo) Summary(ctx context.Context) (Summary, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	return Summary{TotalProducts: 42}, nil
}

func (r *countingRepo) RiskAlerts(ctx context.Context) ([]RiskAlert, error) {
	return nil, nil
}

func TestSummaryIsCached(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		summary, err := svc.Summary(ctx)
		require.NoError(t, err)
		require.Equal(t, 42, summary.TotalProducts)
	}
	require.Equal(t, int64(1), repo.calls.Load())
}

func TestSummaryConcurrentRequestsShareOneComputation(t *testing.T) {
	repo := &countingRepo{release: make(chan struct{})}
	svc := NewService(repo)

	const n = 8
	var wg, started sync.WaitGroup
	results := make([]Summary, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i], errs[i] = svc.Summary(context.Background())
		}(i)
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond) // let every request join the in-flight computation
	close(repo.release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, 42, results[i].TotalProducts)
	}
	require.Equal(t, int64(1), repo.calls.Load())
}

func TestConfirmBustsSummaryCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), repo.calls.Load())

	svc.DocumentConfirmed(ctx, documents.Document{ID: "doc-1"})

	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), repo.calls.Load())
}
