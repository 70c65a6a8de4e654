package catalog

import (
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	AllCategories   = "all"
	DefaultCategory = "General"
)

// Filter keeps products whose title contains query (case-insensitive) and
// whose category equals category. An empty category or "all" matches any.
func (s *Store) Filter(query, category string) []models.Product {
	return FilterProducts(s.Products(), query, category)
}

func FilterProducts(products []models.Product, query, category string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists "all" followed by each distinct category in first-seen
// order. Products without a category count as "General".
func (s *Store) Categories() []string {
	products := s.Products()
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategories}
	for _, p := range products {
		c := p.Category
		if c == "" {
			c = DefaultCategory
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
