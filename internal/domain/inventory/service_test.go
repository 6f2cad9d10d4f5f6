package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
)

// passthroughTxm runs the function directly; transaction semantics are the
// database's concern and are not exercised here.
type passthroughTxm struct{}

func (passthroughTxm) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryCache struct {
	levels      map[id.ID]int
	invalidated []id.ID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{levels: make(map[id.ID]int)}
}

func (c *memoryCache) GetLevel(ctx context.Context, itemID id.ID) (int, bool) {
	level, ok := c.levels[itemID]
	return level, ok
}

func (c *memoryCache) SetLevel(ctx context.Context, itemID id.ID, level int) {
	c.levels[itemID] = level
}

func (c *memoryCache) Invalidate(ctx context.Context, itemID id.ID) {
	delete(c.levels, itemID)
	c.invalidated = append(c.invalidated, itemID)
}

func newTestService(repo *fakeRepo, cache LevelCache) *Service {
	return NewService(repo, passthroughTxm{}, NewEngine(repo), cache)
}

func TestRecordMovementZeroDelta(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), id.New(), 0, "", "alice")

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.entries)
}

func TestRecordMovementPlainItem(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")

	svc := newTestService(repo, nil)
	result, err := svc.RecordMovement(ctx, bottles.ID, 500, "delivery", "alice")

	require.NoError(t, err)
	assert.Equal(t, 500, result.Entry.QuantityChange)
	assert.Empty(t, result.SideEffects)

	level, err := svc.CurrentLevel(ctx, bottles.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, level)
}

func TestRecordMovementBundleCreationCascades(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle12x1L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")
	wraps := repo.addItem(t, shopID, CategoryShrinkWrap, SubtypeBundle12x1L)
	repo.stock(bottles, 60)
	repo.stock(wraps, 5)

	svc := newTestService(repo, nil)
	result, err := svc.RecordMovement(ctx, bundle.ID, 3, "made bundles", "alice")

	require.NoError(t, err)
	require.Len(t, result.SideEffects, 2)

	bundleLevel, _ := svc.CurrentLevel(ctx, bundle.ID)
	bottleLevel, _ := svc.CurrentLevel(ctx, bottles.ID)
	wrapLevel, _ := svc.CurrentLevel(ctx, wraps.ID)
	assert.Equal(t, 3, bundleLevel)
	assert.Equal(t, 60-36, bottleLevel)
	assert.Equal(t, 5-3, wrapLevel)
}

func TestRecordMovementBundleShortageFails(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle24x05L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "0.5L")
	repo.addItem(t, shopID, CategoryShrinkWrap, SubtypeBundle24x05L)
	repo.stock(bottles, 23) // one bundle needs 24

	svc := newTestService(repo, nil)
	_, err := svc.RecordMovement(ctx, bundle.ID, 1, "", "alice")

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

// Negative bundle movements (selling finished stock) never trigger the
// component cascade.
func TestRecordMovementBundleRemovalNoCascade(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle12x1L)
	repo.stock(bundle, 10)

	svc := newTestService(repo, nil)
	result, err := svc.RecordMovement(ctx, bundle.ID, -4, "sold", "alice")

	require.NoError(t, err)
	assert.Empty(t, result.SideEffects)

	level, _ := svc.CurrentLevel(ctx, bundle.ID)
	assert.Equal(t, 6, level)
}

func TestCurrentLevelUsesCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")
	repo.stock(bottles, 42)

	cache := newMemoryCache()
	svc := newTestService(repo, cache)

	level, err := svc.CurrentLevel(ctx, bottles.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, level)
	assert.Equal(t, 42, cache.levels[bottles.ID], "level cached after miss")

	// A stale cache value is served as-is until invalidated.
	cache.levels[bottles.ID] = 7
	level, err = svc.CurrentLevel(ctx, bottles.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, level)
}

func TestRecordMovementInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	bundle := repo.addItem(t, shopID, CategoryWaterBundle, SubtypeBundle12x1L)
	bottles := repo.addItem(t, shopID, CategoryBottle, "1L")
	wraps := repo.addItem(t, shopID, CategoryShrinkWrap, SubtypeBundle12x1L)
	repo.stock(bottles, 100)
	repo.stock(wraps, 10)

	cache := newMemoryCache()
	cache.levels[bundle.ID] = 0
	cache.levels[bottles.ID] = 100
	cache.levels[wraps.ID] = 10

	svc := newTestService(repo, cache)
	_, err := svc.RecordMovement(ctx, bundle.ID, 2, "", "alice")
	require.NoError(t, err)

	assert.Empty(t, cache.levels, "all touched levels dropped")
	assert.ElementsMatch(t, []id.ID{bundle.ID, bottles.ID, wraps.ID}, cache.invalidated)
}

func TestUpdateItemRejectsCategoryChange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()
	item := repo.addItem(t, shopID, CategoryBottle, "1L")

	svc := newTestService(repo, nil)

	changed := *item
	changed.Subtype = "2L"
	err := svc.UpdateItem(ctx, &changed)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLowStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	shopID := id.New()

	low := repo.addItem(t, shopID, CategoryBottle, "1L")
	ok := repo.addItem(t, shopID, CategoryBottle, "0.5L")
	repo.stock(low, 150) // threshold defaults to 200
	repo.stock(ok, 900)

	svc := newTestService(repo, nil)
	items, err := svc.LowStock(ctx, shopID)

	require.NoError(t, err)
	require.Len(t, items, 1)

	byID := make(map[id.ID]int)
	for _, iwl := range items {
		byID[iwl.Item.ID] = iwl.Level
	}
	assert.Equal(t, 150, byID[low.ID])
	assert.NotContains(t, byID, ok.ID)
}
