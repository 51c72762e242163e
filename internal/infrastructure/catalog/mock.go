// Package catalog provides the product source used by the recommender.
// Listings are generated deterministically; no store is contacted over the network.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stylesphere/backend/internal/domain"
)

// DefaultMaxResults bounds the listings returned per store.
const DefaultMaxResults = 20

type generator func(query string, i int) domain.Product

type store struct {
	name            string
	defaultCategory string
	generate        generator
}

// MockCatalog generates synthetic listings for the supported stores.
type MockCatalog struct {
	maxResults int
	stores     map[string]store
	order      []string
}

// NewMockCatalog returns a catalog serving myntra and amazon listings,
// at most maxResults per store.
func NewMockCatalog(maxResults int) *MockCatalog {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	c := &MockCatalog{maxResults: maxResults, stores: make(map[string]store)}
	c.register(store{name: "myntra", defaultCategory: "top", generate: myntraListing})
	c.register(store{name: "amazon", defaultCategory: "dress", generate: amazonListing})
	return c
}

func (c *MockCatalog) register(s store) {
	c.stores[s.name] = s
	c.order = append(c.order, s.name)
}

// Stores lists the supported store identifiers.
func (c *MockCatalog) Stores() []string {
	return append([]string(nil), c.order...)
}

// FetchProducts returns listings from each store named in the intent, in intent order.
// An intent without stores queries every supported store.
func (c *MockCatalog) FetchProducts(ctx context.Context, intent *domain.ShoppingIntent) ([]domain.Product, error) {
	if intent == nil {
		return nil, domain.NewValidationError("shopping_intent", "is required")
	}

	names := intent.Stores
	if len(names) == 0 {
		names = c.order
	}

	seen := make(map[string]bool, len(names))
	products := make([]domain.Product, 0, len(names)*c.maxResults)
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			continue
		}
		seen[name] = true

		s, ok := c.stores[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStore, raw)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		category := strings.ToLower(strings.TrimSpace(intent.Category))
		if category == "" {
			category = s.defaultCategory
		}
		for i := 0; i < c.maxResults; i++ {
			p := s.generate(category, i)
			p.Category = category
			products = append(products, p)
		}
	}
	return products, nil
}

func myntraListing(query string, i int) domain.Product {
	tags := []string{"casual", "minimalist", "trendy"}
	return domain.Product{
		Store:          "myntra",
		ProductID:      fmt.Sprintf("myntra_%d", i),
		Title:          fmt.Sprintf("Women's %s - Style %d", query, i),
		Brand:          "Brand X",
		Price:          domain.Float64(float64(500 + i*200)),
		ImageURL:       fmt.Sprintf("https://via.placeholder.com/300x400/ec4899/ffffff?text=%s+%d", url.QueryEscape(query), i),
		ProductURL:     fmt.Sprintf("https://www.myntra.com/%s-%d", url.PathEscape(query), i),
		Color:          []string{"pink", "white", "black"}[i%3],
		StyleTags:      append([]string(nil), tags[:i%3+1]...),
		FormalityLevel: 3,
		Seasonality:    []string{"all-season"},
	}
}

func amazonListing(query string, i int) domain.Product {
	tags := []string{"classic", "formal", "elegant"}
	return domain.Product{
		Store:          "amazon",
		ProductID:      fmt.Sprintf("amazon_%d", i),
		Title:          fmt.Sprintf("Amazon Fashion %s - Option %d", query, i),
		Brand:          "Brand Y",
		Price:          domain.Float64(float64(300 + i*150)),
		ImageURL:       fmt.Sprintf("https://via.placeholder.com/300x400/3b82f6/ffffff?text=Amazon+%s+%d", url.QueryEscape(query), i),
		ProductURL:     fmt.Sprintf("https://www.amazon.in/%s-%d", url.PathEscape(query), i),
		Color:          []string{"blue", "red", "green"}[i%3],
		StyleTags:      append([]string(nil), tags[:i%3+1]...),
		FormalityLevel: 7,
		Seasonality:    []string{[]string{"winter", "summer"}[i%2]},
	}
}
