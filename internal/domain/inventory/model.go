// Package inventory provides per-shop inventory items, the append-only
// stock ledger, and the deduction engine that cascades sale/refill/bundle
// events into ledger movements.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
)

// Category is a closed set of inventory item categories.
type Category string

const (
	CategoryBottle      Category = "Bottle"
	CategoryCap         Category = "Cap"
	CategoryLabel       Category = "Label"
	CategoryShrinkWrap  Category = "Shrink Wrap"
	CategoryWaterBundle Category = "Water Bundle"
)

// Subtype constants for the well-known items the deduction engine targets.
const (
	SubtypeBottle20LHard = "20L Hard"
	SubtypeCap1020L      = "10/20L"

	SubtypeBundle12x1L   = "12x1L"
	SubtypeBundle24x05L  = "24x0.5L"
	SubtypeBundle8x15L   = "8x1.5L"
)

// validSubtypes maps each category to its allowed subtypes.
// Invalid (category, subtype) pairs are unrepresentable at construction time.
var validSubtypes = map[Category]map[string]struct{}{
	CategoryBottle: {
		"0.5L": {}, "1L": {}, "1.5L": {}, "2L": {},
		"5L": {}, "10L": {}, "20L": {}, SubtypeBottle20LHard: {},
	},
	CategoryCap: {
		SubtypeCap1020L: {},
	},
	CategoryLabel: {
		"5L": {}, "10L": {}, "20L": {},
	},
	CategoryShrinkWrap: {
		SubtypeBundle12x1L: {}, SubtypeBundle24x05L: {}, SubtypeBundle8x15L: {},
	},
	CategoryWaterBundle: {
		SubtypeBundle12x1L: {}, SubtypeBundle24x05L: {}, SubtypeBundle8x15L: {},
	},
}

// ValidSubtype reports whether subtype belongs to category.
func ValidSubtype(category Category, subtype string) bool {
	set, ok := validSubtypes[category]
	if !ok {
		return false
	}
	_, ok = set[subtype]
	return ok
}

// Subtypes returns the allowed subtypes for a category, sorted for
// stable error details.
func Subtypes(category Category) []string {
	set := validSubtypes[category]
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Item defines a stockable item for a shop: (shop, category, subtype) is
// unique. The current quantity is never stored on the item; it is derived
// by summing the item's ledger entries.
type Item struct {
	ID     id.ID `db:"id" json:"id"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	Category Category `db:"category" json:"category"`
	Subtype  string   `db:"subtype" json:"subtype"`

	// Unit of measure if not implied by category (e.g. 'piece', 'roll')
	Unit string `db:"unit" json:"unit"`

	// Threshold for low stock warning (when to reorder)
	Threshold int `db:"threshold" json:"threshold"`

	// ReorderPoint is the level at which replenishment is recommended
	ReorderPoint int `db:"reorder_point" json:"reorderPoint"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewItem creates a validated inventory item.
func NewItem(shopID id.ID, category Category, subtype string) (*Item, error) {
	if id.IsNil(shopID) {
		return nil, apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}

	if !ValidSubtype(category, subtype) {
		return nil, apperror.NewValidation(
			fmt.Sprintf("invalid subtype for category %s", category)).
			WithDetail("category", string(category)).
			WithDetail("subtype", subtype).
			WithDetail("allowed", Subtypes(category))
	}

	return &Item{
		ID:           id.New(),
		ShopID:       shopID,
		Category:     category,
		Subtype:      subtype,
		Unit:         "piece",
		Threshold:    200,
		ReorderPoint: 300,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if id.IsNil(i.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}
	if !ValidSubtype(i.Category, i.Subtype) {
		return apperror.NewValidation(
			fmt.Sprintf("invalid subtype for category %s", i.Category)).
			WithDetail("category", string(i.Category)).
			WithDetail("subtype", i.Subtype)
	}
	return nil
}

// LedgerEntry records one signed change to an item's quantity.
// Entries are immutable: they are appended, never updated or deleted.
type LedgerEntry struct {
	ID     id.ID `db:"id" json:"id"`
	ItemID id.ID `db:"item_id" json:"itemId"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	// QuantityChange is positive for additions, negative for removals/usage.
	QuantityChange int `db:"quantity_change" json:"quantityChange"`

	Note      string    `db:"note" json:"note,omitempty"`
	ActorName string    `db:"actor_name" json:"actorName"`
	LoggedAt  time.Time `db:"logged_at" json:"loggedAt"`
}

// NewLedgerEntry creates a ledger entry for an item.
func NewLedgerEntry(item *Item, delta int, note, actor string) LedgerEntry {
	return LedgerEntry{
		ID:             id.New(),
		ItemID:         item.ID,
		ShopID:         item.ShopID,
		QuantityChange: delta,
		Note:           note,
		ActorName:      actor,
		LoggedAt:       time.Now().UTC(),
	}
}

// --- Bundle recipes ---

// BundleRecipe describes what one water bundle consumes when manufactured.
// Each bundle uses BottlesPerBundle bottles of BottleSubtype plus one
// shrink wrap whose subtype matches the bundle subtype.
type BundleRecipe struct {
	BottlesPerBundle int
	BottleSubtype    string
}

var bundleRecipes = map[string]BundleRecipe{
	SubtypeBundle12x1L:  {BottlesPerBundle: 12, BottleSubtype: "1L"},
	SubtypeBundle24x05L: {BottlesPerBundle: 24, BottleSubtype: "0.5L"},
	SubtypeBundle8x15L:  {BottlesPerBundle: 8, BottleSubtype: "1.5L"},
}

// RecipeFor returns the manufacturing recipe for a bundle subtype.
func RecipeFor(bundleSubtype string) (BundleRecipe, bool) {
	r, ok := bundleRecipes[bundleSubtype]
	return r, ok
}

// ParseBundleSubtype identifies a bundle subtype from a package description
// by substring match. Returns "" when no known pattern is present.
func ParseBundleSubtype(description string) string {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "12x1"):
		return SubtypeBundle12x1L
	case strings.Contains(d, "24x0.5"), strings.Contains(d, "24x500"):
		return SubtypeBundle24x05L
	case strings.Contains(d, "8x1.5"):
		return SubtypeBundle8x15L
	default:
		return ""
	}
}
