package documents

import (
	"context"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Confirmer is notified after a document is confirmed. The dashboard
// uses this to drop its cached summary so fresh balances show up
// without waiting out the cache TTL.
type Confirmer interface {
	DocumentConfirmed(ctx context.Context, doc Document)
}

// Service handles the stock document lifecycle.
type Service struct {
	repo      Repository
	listeners []Confirmer
}

// NewService constructs a Service.
func NewService(repo Repository, listeners ...Confirmer) *Service {
	return &Service{repo: repo, listeners: listeners}
}

// List returns documents of one type, optionally filtered by status and
// warehouse.
func (s *Service) List(ctx context.Context, docType Type, filter ListFilter) ([]Document, error) {
	return s.repo.List(ctx, docType, filter)
}

// Get returns one document with its lines.
func (s *Service) Get(ctx context.Context, docType Type, id string) (Document, error) {
	return s.repo.Get(ctx, docType, id)
}

// Create stores a new draft document.
func (s *Service) Create(ctx context.Context, doc Document, lines []Line) (Document, error) {
	if err := validateLines(doc.DocType, lines); err != nil {
		return Document{}, err
	}
	doc.Status = StatusDraft
	return s.repo.Create(ctx, doc, lines)
}

// Update rewrites a draft document. Confirmed documents are immutable.
func (s *Service) Update(ctx context.Context, docType Type, id string, doc Document, lines []Line) (Document, error) {
	existing, err := s.repo.Get(ctx, docType, id)
	if err != nil {
		return Document{}, err
	}
	if existing.Status == StatusConfirmed {
		return Document{}, httpx.Errorf(httpx.ErrValidation, "Cannot edit confirmed document")
	}
	if err := validateLines(docType, lines); err != nil {
		return Document{}, err
	}
	return s.repo.UpdateDraft(ctx, docType, id, doc, lines)
}

// Confirm posts a draft document's stock effects and seals it.
func (s *Service) Confirm(ctx context.Context, docType Type, id, confirmedBy string) (Document, error) {
	confirmed, err := s.repo.Confirm(ctx, docType, id, confirmedBy)
	if err != nil {
		return Document{}, err
	}
	for _, l := range s.listeners {
		l.DocumentConfirmed(ctx, confirmed)
	}
	return confirmed, nil
}

func validateLines(docType Type, lines []Line) error {
	for _, line := range lines {
		if line.ProductID == "" {
			return httpx.Errorf(httpx.ErrValidation, "every line needs a product")
		}
		switch docType {
		case TypeAdjustment:
			if line.Quantity == 0 {
				return httpx.Errorf(httpx.ErrValidation, "adjustment quantity must not be zero")
			}
		default:
			if line.Quantity <= 0 {
				return httpx.Errorf(httpx.ErrValidation, "quantity must be positive")
			}
		}
	}
	return nil
}
