package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestDraft_ForCreateDefaults(t *testing.T) {
	in, err := Draft{Title: "  Leather Backpack ", Price: 599}.ForCreate()

	require.NoError(t, err)
	assert.Equal(t, "Leather Backpack", in.Title)
	assert.Equal(t, 599.0, in.Price)
	assert.Equal(t, DefaultCategory, in.Category)
	assert.Equal(t, DefaultImage, in.Image)
	assert.Equal(t, DefaultDescription, in.Description)
	require.NotNil(t, in.Rating)
	assert.Equal(t, models.Rating{}, *in.Rating)
}

func TestDraft_ForCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
	}{
		{name: "blank title", draft: Draft{Title: "   ", Price: 1}},
		{name: "negative price", draft: Draft{Title: "X", Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.ForCreate()
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDraft_ForUpdateFallsBackToCurrent(t *testing.T) {
	current := models.Product{
		ID: 3, Title: "Old", Price: 5, Category: "electronics",
		Image: "https://img/old.png", Description: "old desc",
		Rating: models.Rating{Rate: 4.5, Count: 10},
	}
	d := DraftOf(current)
	d.Title = " "
	d.Description = ""
	d.Image = ""
	d.Price = 7

	u, err := d.ForUpdate(current)
	require.NoError(t, err)

	got := u.Apply(current)
	assert.Equal(t, "Old", got.Title)
	assert.Equal(t, 7.0, got.Price)
	assert.Equal(t, "electronics", got.Category)
	assert.Equal(t, "https://img/old.png", got.Image)
	assert.Equal(t, "old desc", got.Description)
	assert.Equal(t, current.Rating, got.Rating)
}

func TestDraft_ForUpdateDefaultImage(t *testing.T) {
	current := models.Product{ID: 1, Title: "No image"}

	u, err := Draft{Title: "New title"}.ForUpdate(current)
	require.NoError(t, err)

	got := u.Apply(current)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, DefaultImage, got.Image)
}
