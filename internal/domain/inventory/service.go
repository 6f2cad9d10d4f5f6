package inventory

import (
	"context"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/tx"
	"hamu/pkg/logger"
)

// LevelCache caches computed stock levels. Implementations must be safe
// for concurrent use; a nil cache disables caching.
type LevelCache interface {
	GetLevel(ctx context.Context, itemID id.ID) (int, bool)
	SetLevel(ctx context.Context, itemID id.ID, level int)
	Invalidate(ctx context.Context, itemID id.ID)
}

// ItemWithLevel pairs an item with its computed stock level.
type ItemWithLevel struct {
	Item  *Item `json:"item"`
	Level int   `json:"level"`
}

// MovementResult is the outcome of recording one manual stock movement.
// SideEffects holds component deductions triggered by bundle creation.
type MovementResult struct {
	Entry       LedgerEntry   `json:"entry"`
	SideEffects []LedgerEntry `json:"sideEffects,omitempty"`
}

// Service provides inventory operations: item management, the append-only
// stock ledger, derived levels, and low stock reporting.
type Service struct {
	repo   Repository
	txm    tx.Manager
	engine *Engine
	cache  LevelCache
}

// NewService creates an inventory service. cache may be nil.
func NewService(repo Repository, txm tx.Manager, engine *Engine, cache LevelCache) *Service {
	return &Service{
		repo:   repo,
		txm:    txm,
		engine: engine,
		cache:  cache,
	}
}

// CreateItem validates and persists a new inventory item.
func (s *Service) CreateItem(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(item.ID) {
		item.ID = id.New()
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return err
	}

	logger.Info(ctx, "inventory item created",
		"id", item.ID,
		"shop_id", item.ShopID,
		"category", item.Category,
		"subtype", item.Subtype,
	)
	return nil
}

// GetItem retrieves one item.
func (s *Service) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetItemByID(ctx, itemID)
}

// ListItems retrieves items with filtering.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// UpdateItem persists threshold/unit changes. Category and subtype are
// immutable once the item exists.
func (s *Service) UpdateItem(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetItemByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing.Category != item.Category || existing.Subtype != item.Subtype {
		return apperror.NewValidation("category and subtype cannot change").
			WithDetail("field", "category")
	}

	return s.repo.UpdateItem(ctx, item)
}

// DeleteItem removes an item with no ledger history.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, itemID)
	}
	return nil
}

// CurrentLevel returns the item's stock level: the sum of all its ledger
// entries, cached until the next movement. Levels can be negative.
func (s *Service) CurrentLevel(ctx context.Context, itemID id.ID) (int, error) {
	if s.cache != nil {
		if level, ok := s.cache.GetLevel(ctx, itemID); ok {
			return level, nil
		}
	}

	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return 0, err
	}

	level, err := s.repo.CurrentLevel(ctx, itemID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.SetLevel(ctx, itemID, level)
	}
	return level, nil
}

// RecordMovement appends one signed ledger entry for an item.
//
// A positive movement on a Water Bundle item means bundles were
// manufactured: the engine deducts the recipe's bottles and shrink wrap in
// the same transaction, and the entire movement fails if components are
// missing or short.
func (s *Service) RecordMovement(ctx context.Context, itemID id.ID, delta int, note, actor string) (*MovementResult, error) {
	if delta == 0 {
		return nil, apperror.NewValidation("quantity change cannot be zero").
			WithDetail("field", "quantityChange")
	}

	var result MovementResult

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetItemByID(ctx, itemID)
		if err != nil {
			return err
		}

		entry := NewLedgerEntry(item, delta, note, actor)
		if err := s.repo.AppendEntries(ctx, []LedgerEntry{entry}); err != nil {
			return err
		}
		result.Entry = entry

		if item.Category == CategoryWaterBundle && delta > 0 {
			side, err := s.engine.ExpandBundleCreation(ctx, item, delta, actor)
			if err != nil {
				return err
			}
			result.SideEffects = side
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFor(ctx, result)

	logger.Info(ctx, "stock movement recorded",
		"item_id", itemID,
		"quantity_change", delta,
		"side_effects", len(result.SideEffects),
	)
	return &result, nil
}

// invalidateFor drops cached levels for every item a movement touched.
func (s *Service) invalidateFor(ctx context.Context, result MovementResult) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, result.Entry.ItemID)
	for _, e := range result.SideEffects {
		s.cache.Invalidate(ctx, e.ItemID)
	}
}

// InvalidateLevels drops cached levels for the given items. Callers that
// append entries outside RecordMovement (the sale/refill orchestrators)
// use this after commit.
func (s *Service) InvalidateLevels(ctx context.Context, entries []LedgerEntry) {
	if s.cache == nil {
		return
	}
	seen := make(map[id.ID]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ItemID]; ok {
			continue
		}
		seen[e.ItemID] = struct{}{}
		s.cache.Invalidate(ctx, e.ItemID)
	}
}

// Movements lists ledger entries, newest first.
func (s *Service) Movements(ctx context.Context, filter EntryFilter) ([]*LedgerEntry, error) {
	return s.repo.ListEntries(ctx, filter)
}

// LowStock returns every item in a shop whose level is at or below its
// threshold. Levels are computed fresh, bypassing the cache.
func (s *Service) LowStock(ctx context.Context, shopID id.ID) ([]ItemWithLevel, error) {
	items, err := s.repo.ListItems(ctx, ItemFilter{ShopID: &shopID})
	if err != nil {
		return nil, err
	}

	var low []ItemWithLevel
	for _, item := range items {
		level, err := s.repo.CurrentLevel(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if level <= item.Threshold {
			low = append(low, ItemWithLevel{Item: item, Level: level})
		}
	}
	return low, nil
}

// ShopStock returns all of a shop's items with computed levels.
func (s *Service) ShopStock(ctx context.Context, shopID id.ID) ([]ItemWithLevel, error) {
	items, err := s.repo.ListItems(ctx, ItemFilter{ShopID: &shopID})
	if err != nil {
		return nil, err
	}

	out := make([]ItemWithLevel, 0, len(items))
	for _, item := range items {
		level, err := s.CurrentLevel(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ItemWithLevel{Item: item, Level: level})
	}
	return out, nil
}
