package dashboard

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/stocktrace/stocktrace/internal/documents"
)

const summaryKey = "dashboard:summary"

// Service serves the dashboard aggregates. The summary is expensive to
// compute, so results are cached and concurrent requests for a cold
// cache share a single computation.
type Service struct {
	repo  Repository
	cache *responseCache
	group singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		cache: newResponseCache(summaryTTL),
	}
}

// Summary returns the cached dashboard summary, computing it at most
// once per TTL window regardless of request concurrency.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if cached, ok := s.cache.Get(summaryKey); ok {
		return cached.(Summary), nil
	}

	resultChan := s.group.DoChan(summaryKey, func() (interface{}, error) {
		summary, err := s.repo.Summary(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.Set(summaryKey, summary)
		return summary, nil
	})

	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Summary{}, res.Err
		}
		return res.Val.(Summary), nil
	}
}

// RiskAlerts lists products projected to run dry within a week.
func (s *Service) RiskAlerts(ctx context.Context) ([]RiskAlert, error) {
	return s.repo.RiskAlerts(ctx)
}

// DocumentConfirmed busts the cached summary so the next request sees
// the freshly posted balances. Implements documents.Confirmer.
func (s *Service) DocumentConfirmed(ctx context.Context, doc documents.Document) {
	s.cache.Bust()
}
