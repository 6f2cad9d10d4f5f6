package inventory_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/inventory"
)

var ledgerColumns = []string{
	"id", "item_id", "shop_id", "quantity_change",
	"note", "actor_name", "logged_at",
}

// AppendEntries inserts ledger entries in one statement.
func (r *Repo) AppendEntries(ctx context.Context, entries []inventory.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	q := r.builder.Insert(ledgerTable).Columns(ledgerColumns...)
	for _, e := range entries {
		q = q.Values(e.ID, e.ItemID, e.ShopID, e.QuantityChange,
			e.Note, e.ActorName, e.LoggedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert ledger entries: %w", err))
	}
	return nil
}

// CurrentLevel sums the ledger for an item. Zero when no entries exist.
func (r *Repo) CurrentLevel(ctx context.Context, itemID id.ID) (int, error) {
	sql := `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM stock_ledger
		WHERE item_id = $1
	`

	var level int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID).Scan(&level)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewDatabase(fmt.Errorf("sum ledger: %w", err))
	}
	return level, nil
}

// CurrentLevelForUpdate locks the item row, then sums the ledger.
// Concurrent callers on the same item serialize on the row lock, so a
// check-then-deduct sequence cannot race another. Must run inside a
// transaction.
func (r *Repo) CurrentLevelForUpdate(ctx context.Context, itemID id.ID) (int, error) {
	lockSQL := `SELECT id FROM inventory_items WHERE id = $1 FOR UPDATE`

	var locked id.ID
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, lockSQL, itemID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("inventory item", itemID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("lock item: %w", err))
	}

	return r.CurrentLevel(ctx, itemID)
}

// ListEntries retrieves ledger entries, newest first.
func (r *Repo) ListEntries(ctx context.Context, filter inventory.EntryFilter) ([]*inventory.LedgerEntry, error) {
	q := r.builder.Select(ledgerColumns...).From(ledgerTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}

	q = q.OrderBy("logged_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*inventory.LedgerEntry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select ledger entries: %w", err))
	}
	return entries, nil
}
