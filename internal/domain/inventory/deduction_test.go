package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/packages"
)

// fakeRepo is an in-memory inventory.Repository for engine and service
// tests.
type fakeRepo struct {
	items   map[string]*Item
	entries []LedgerEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Item)}
}

func itemKey(shopID id.ID, category Category, subtype string) string {
	return fmt.Sprintf("%s/%s/%s", shopID, category, subtype)
}

func (f *fakeRepo) addItem(t *testing.T, shopID id.ID, category Category, subtype string) *Item {
	t.Helper()
	item, err := NewItem(shopID, category, subtype)
	require.NoError(t, err)
	f.items[itemKey(shopID, category, subtype)] = item
	return item
}

func (f *fakeRepo) stock(item *Item, quantity int) {
	f.entries = append(f.entries, NewLedgerEntry(item, quantity, "opening stock", "test"))
}

func (f *fakeRepo) CreateItem(ctx context.Context, item *Item) error {
	f.items[itemKey(item.ShopID, item.Category, item.Subtype)] = item
	return nil
}

func (f *fakeRepo) GetItemByID(ctx context.Context, itemID id.ID) (*Item, error) {
	for _, item := range f.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("inventory item", itemID)
}

func (f *fakeRepo) FindItem(ctx context.Context, shopID id.ID, category Category, subtype string) (*Item, error) {
	if item, ok := f.items[itemKey(shopID, category, subtype)]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("inventory item", fmt.Sprintf("%s/%s", category, subtype))
}

func (f *fakeRepo) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	var out []*Item
	for _, item := range f.items {
		if filter.ShopID != nil && item.ShopID != *filter.ShopID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) UpdateItem(ctx context.Context, item *Item) error { return nil }

func (f *fakeRepo) DeleteItem(ctx context.Context, itemID id.ID) error { return nil }

func (f *fakeRepo) AppendEntries(ctx context.Context, entries []LedgerEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeRepo) CurrentLevel(ctx context.Context, itemID id.ID) (int, error) {
	level := 0
	for _, e := range f.entries {
		if e.ItemID == itemID {
			level += e.QuantityChange
		}
	}
	return level, nil
}

func (f *fakeRepo) CurrentLevelForUpdate(ctx context.Context, itemID id.ID) (int, error) {
	return f.CurrentLevel(ctx, itemID)
}

func (f *fakeRepo) ListEntries(ctx context.Context, filter EntryFilter) ([]*LedgerEntry, error) {
	var out []*LedgerEntry
	for i := range f.entries {
		e := f.entries[i]
		if filter.ItemID != nil && e.ItemID != *filter.ItemID {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

// deductionsFor returns the negative entries appended for an item.
func (f *fakeRepo) deductionsFor(item *Item) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range f.entries {
		if e.ItemID == item.ID && e.QuantityChange < 0 {
			out = append(out, e)
		}
	}
	return out
}

func refillPackage(shopID id.ID, liters string) *packages.Package {
	return packages.NewPackage(shopID, packages.SaleTypeRefill,
		types.MustLiters(liters), types.MustMoney("70"))
}

func salePackage(shopID id.ID, liters string, bottleType packages.BottleType, description string) *packages.Package {
	p := packages.NewPackage(shopID, packages.SaleTypeSale,
		types.MustLiters(liters), types.MustMoney("100"))
	p.BottleType = &bottleType
	p.Description = description
	return p
}

func TestDeductForRefillTwentyLiters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	cap10 := repo.addItem(t, shopID, CategoryCap, SubtypeCap1020L)
	label20 := repo.addItem(t, shopID, CategoryLabel, "20L")

	engine := NewEngine(repo)
	entries, warnings, err := engine.DeductForRefill(ctx, refillPackage(shopID, "20"), 3, "alice")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 2)

	require.Len(t, repo.deductionsFor(cap10), 1)
	assert.Equal(t, -3, repo.deductionsFor(cap10)[0].QuantityChange)

	require.Len(t, repo.deductionsFor(label20), 1)
	assert.Equal(t, -3, repo.deductionsFor(label20)[0].QuantityChange)
}

func TestDeductForRefillFiveLitersLabelOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	repo.addItem(t, shopID, CategoryCap, SubtypeCap1020L)
	label5 := repo.addItem(t, shopID, CategoryLabel, "5L")

	engine := NewEngine(repo)
	entries, warnings, err := engine.DeductForRefill(ctx, refillPackage(shopID, "5"), 1, "alice")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, label5.ID, entries[0].ItemID)
}

func TestDeductForRefillNonStandardSizeNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	engine := NewEngine(repo)
	entries, warnings, err := engine.DeductForRefill(ctx, refillPackage(shopID, "2"), 1, "alice")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, entries)
}

func TestDeductForRefillMissingItemsWarns(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	// Shop stocks neither caps nor labels.
	engine := NewEngine(repo)
	entries, warnings, err := engine.DeductForRefill(ctx, refillPackage(shopID, "10"), 2, "alice")

	require.NoError(t, err)
	assert.Empty(t, entries)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, "UNRESOLVED_INVENTORY", w.Code)
	}
}

func TestDeductForSaleHardTwentyLiter(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	hard := repo.addItem(t, shopID, CategoryBottle, SubtypeBottle20LHard)
	soft := repo.addItem(t, shopID, CategoryBottle, "20L")
	label := repo.addItem(t, shopID, CategoryLabel, "20L")

	engine := NewEngine(repo)
	p := salePackage(shopID, "20", packages.BottleHard, "20L hard bottle")
	entries, warnings, err := engine.DeductForSale(ctx, p, 1, "bob")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 2)

	assert.Len(t, repo.deductionsFor(hard), 1, "hard bottle deducted")
	assert.Empty(t, repo.deductionsFor(soft), "regular 20L untouched")
	assert.Len(t, repo.deductionsFor(label), 1)
}

func TestDeductForSaleSmallBottleNoLabel(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bottle := repo.addItem(t, shopID, CategoryBottle, "0.5L")

	engine := NewEngine(repo)
	p := salePackage(shopID, "0.5", packages.BottleDisposable, "0.5L bottled water")
	entries, warnings, err := engine.DeductForSale(ctx, p, 10, "bob")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, bottle.ID, entries[0].ItemID)
	assert.Equal(t, -10, entries[0].QuantityChange)
}

func TestDeductForSaleBundle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle24x05L)

	engine := NewEngine(repo)
	p := salePackage(shopID, "12", packages.BottleBundle, "Water bundle 24x500ml")
	entries, warnings, err := engine.DeductForSale(ctx, p, 2, "bob")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, bundle.ID, entries[0].ItemID)
	assert.Equal(t, -2, entries[0].QuantityChange)
}

func TestDeductForSaleUnknownBundleNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	engine := NewEngine(repo)
	p := salePackage(shopID, "12", packages.BottleBundle, "mystery crate")
	entries, warnings, err := engine.DeductForSale(ctx, p, 1, "bob")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, entries)
}

func TestExpandBundleCreation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle12x1L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")
	wraps := repo.addItem(t, shopID, CategoryShrinkWrap, SubtypeBundle12x1L)
	repo.stock(bottles, 100)
	repo.stock(wraps, 10)

	engine := NewEngine(repo)
	entries, err := engine.ExpandBundleCreation(ctx, bundle, 2, "carol")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -24, entries[0].QuantityChange)
	assert.Equal(t, bottles.ID, entries[0].ItemID)
	assert.Equal(t, -2, entries[1].QuantityChange)
	assert.Equal(t, wraps.ID, entries[1].ItemID)

	for _, e := range entries {
		assert.True(t, strings.Contains(e.Note, "Auto-deducted for Water Bundle creation"), "note: %s", e.Note)
		assert.True(t, strings.Contains(e.Note, "12x1L x2"), "note: %s", e.Note)
		assert.Equal(t, "carol", e.ActorName)
	}
}

func TestExpandBundleCreationInsufficientBottles(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle8x15L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "1.5L")
	wraps := repo.addItem(t, shopID, CategoryShrinkWrap, SubtypeBundle8x15L)
	repo.stock(bottles, 7) // one bundle needs 8
	repo.stock(wraps, 10)

	engine := NewEngine(repo)
	entries, err := engine.ExpandBundleCreation(ctx, bundle, 1, "carol")

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, entries)
	assert.Empty(t, repo.deductionsFor(bottles), "no partial deduction")
	assert.Empty(t, repo.deductionsFor(wraps))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 8, appErr.Details["requested"])
	assert.Equal(t, 7, appErr.Details["available"])
}

func TestExpandBundleCreationMissingComponent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle12x1L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")
	repo.stock(bottles, 100)
	// No shrink wrap item stocked.

	engine := NewEngine(repo)
	_, err := engine.ExpandBundleCreation(ctx, bundle, 1, "carol")

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, repo.deductionsFor(bottles), "bottles untouched when wrap missing")
}
