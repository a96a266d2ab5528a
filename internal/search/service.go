package search

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Suggestion is the outcome of parsing a search phrase: either a
// navigation intent with an optional resolved product, or no match.
type Suggestion struct {
	Type        string `json:"type"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// Intent types the search box understands.
const (
	IntentLowStock  = "NAVIGATE_LOW_STOCK"
	IntentStock     = "NAVIGATE_STOCK"
	IntentMovements = "NAVIGATE_MOVEMENTS"
	IntentNoMatch   = "NO_MATCH"
)

// ProductFinder resolves a free-text fragment to a product by name or
// SKU substring.
type ProductFinder interface {
	FindProduct(ctx context.Context, fragment string) (id, name string, ok bool, err error)
}

// Service parses search phrases into navigation intents.
type Service struct {
	products ProductFinder
	folder   cases.Caser
}

// NewService constructs a Service.
func NewService(products ProductFinder) *Service {
	return &Service{products: products, folder: cases.Fold()}
}

// Suggest classifies a query. "low stock" jumps to the low stock
// report; "stock of X" and "movements of X" resolve X to a product and
// jump to its stock or movement view. Anything else is NO_MATCH.
func (s *Service) Suggest(ctx context.Context, query string) (Suggestion, error) {
	q := strings.TrimSpace(s.folder.String(query))

	if q == "low stock" {
		return Suggestion{Type: IntentLowStock}, nil
	}
	if fragment, ok := strings.CutPrefix(q, "stock of "); ok {
		return s.resolveProduct(ctx, IntentStock, fragment)
	}
	if fragment, ok := strings.CutPrefix(q, "movements of "); ok {
		return s.resolveProduct(ctx, IntentMovements, fragment)
	}
	return Suggestion{Type: IntentNoMatch}, nil
}

func (s *Service) resolveProduct(ctx context.Context, intent, fragment string) (Suggestion, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return Suggestion{Type: IntentNoMatch}, nil
	}
	id, name, ok, err := s.products.FindProduct(ctx, fragment)
	if err != nil {
		return Suggestion{}, err
	}
	if !ok {
		return Suggestion{Type: IntentNoMatch}, nil
	}
	return Suggestion{Type: intent, ProductID: id, ProductName: name}, nil
}
