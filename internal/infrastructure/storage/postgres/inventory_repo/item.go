// Package inventory_repo provides the PostgreSQL implementation of the
// inventory repository: item definitions and the append-only stock ledger.
package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/inventory"
	"hamu/internal/infrastructure/storage/postgres"
)

const (
	itemsTable  = "inventory_items"
	ledgerTable = "stock_ledger"
)

var itemColumns = []string{
	"id", "shop_id", "category", "subtype",
	"unit", "threshold", "reorder_point", "created_at",
}

// Repo implements inventory.Repository.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a new inventory repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateItem inserts an inventory item. (shop, category, subtype) is
// unique.
func (r *Repo) CreateItem(ctx context.Context, item *inventory.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(item.ID, item.ShopID, item.Category, item.Subtype,
			item.Unit, item.Threshold, item.ReorderPoint, item.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("inventory item", "category/subtype",
				fmt.Sprintf("%s/%s", item.Category, item.Subtype))
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("shop", item.ShopID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert item: %w", err))
	}
	return nil
}

// GetItemByID retrieves an item by ID.
func (r *Repo) GetItemByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get item: %w", err))
	}
	return &item, nil
}

// FindItem looks up the unique item for (shop, category, subtype).
func (r *Repo) FindItem(ctx context.Context, shopID id.ID, category inventory.Category, subtype string) (*inventory.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{
			"shop_id":  shopID,
			"category": category,
			"subtype":  subtype,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item",
				fmt.Sprintf("%s/%s", category, subtype))
		}
		return nil, apperror.NewDatabase(fmt.Errorf("find item: %w", err))
	}
	return &item, nil
}

// ListItems retrieves items with filtering.
func (r *Repo) ListItems(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	q := r.builder.Select(itemColumns...).From(itemsTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}

	q = q.OrderBy("category", "subtype")
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

	var items []*inventory.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select items: %w", err))
	}
	return items, nil
}

// UpdateItem persists unit/threshold changes.
func (r *Repo) UpdateItem(ctx context.Context, item *inventory.Item) error {
	q := r.builder.Update(itemsTable).
		Set("unit", item.Unit).
		Set("threshold", item.Threshold).
		Set("reorder_point", item.ReorderPoint).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update item: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", item.ID)
	}
	return nil
}

// DeleteItem removes an item with no ledger history.
func (r *Repo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.builder.Delete(itemsTable).Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewProtected("inventory item", itemID)
		}
		return apperror.NewDatabase(fmt.Errorf("delete item: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID)
	}
	return nil
}

// Ensure interface compliance.
var _ inventory.Repository = (*Repo)(nil)
