package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestStore_Filter(t *testing.T) {
	s := New(&stubSource{products: seed()}, nil)
	require.NoError(t, s.Refresh(context.Background()))

	tests := []struct {
		name     string
		query    string
		category string
		wantIDs  []int
	}{
		{name: "everything", query: "", category: "all", wantIDs: []int{1, 2, 7}},
		{name: "empty category means all", query: "", category: "", wantIDs: []int{1, 2, 7}},
		{name: "case-insensitive title", query: "SHIRT", category: "all", wantIDs: []int{2}},
		{name: "category only", query: "", category: "jewelery", wantIDs: []int{7}},
		{name: "query and category", query: "ring", category: "men's clothing", wantIDs: []int{}},
		{name: "description is not searched", query: "perfect", category: "all", wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(tt.query, tt.category)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStore_Categories(t *testing.T) {
	s := New(&stubSource{products: append(seed(), models.Product{ID: 9, Title: "Mystery"})}, nil)
	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, []string{"all", "men's clothing", "jewelery", "General"}, s.Categories())
}
