package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
)

func TestParseBundleSubtype(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Water bundle 12x1L", SubtypeBundle12x1L},
		{"12X1 liter crate", SubtypeBundle12x1L},
		{"Water bundle 24x0.5L", SubtypeBundle24x05L},
		{"bundle 24x500ml", SubtypeBundle24x05L},
		{"Water bundle 8x1.5L", SubtypeBundle8x15L},
		{"mystery crate", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBundleSubtype(tt.description), "description: %q", tt.description)
	}
}

func TestNewItemValidation(t *testing.T) {
	shopID := id.New()

	item, err := NewItem(shopID, CategoryBottle, "20L")
	require.NoError(t, err)
	assert.Equal(t, "piece", item.Unit)
	assert.Equal(t, 200, item.Threshold)
	assert.Equal(t, 300, item.ReorderPoint)

	_, err = NewItem(shopID, CategoryCap, "20L")
	require.Error(t, err, "caps only come in the shared 10/20L subtype")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = NewItem(shopID, CategoryLabel, "1L")
	require.Error(t, err, "labels only exist for 5/10/20L")

	_, err = NewItem(shopID, Category("Crate"), "12x1L")
	require.Error(t, err, "unknown category")

	_, err = NewItem(id.Nil(), CategoryBottle, "1L")
	require.Error(t, err, "shop is required")
}

func TestSubtypesSorted(t *testing.T) {
	assert.Equal(t, []string{"12x1L", "24x0.5L", "8x1.5L"}, Subtypes(CategoryWaterBundle),
		"same order on every call")
	assert.Equal(t, []string{"10L", "20L", "5L"}, Subtypes(CategoryLabel))
	assert.Empty(t, Subtypes(Category("Crate")))
}

func TestRecipeFor(t *testing.T) {
	r, ok := RecipeFor(SubtypeBundle12x1L)
	require.True(t, ok)
	assert.Equal(t, 12, r.BottlesPerBundle)
	assert.Equal(t, "1L", r.BottleSubtype)

	r, ok = RecipeFor(SubtypeBundle24x05L)
	require.True(t, ok)
	assert.Equal(t, 24, r.BottlesPerBundle)
	assert.Equal(t, "0.5L", r.BottleSubtype)

	r, ok = RecipeFor(SubtypeBundle8x15L)
	require.True(t, ok)
	assert.Equal(t, 8, r.BottlesPerBundle)
	assert.Equal(t, "1.5L", r.BottleSubtype)

	_, ok = RecipeFor("6x2L")
	assert.False(t, ok)
}
