// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/infrastructure/storage/postgres"
)

const shopsTable = "shops"

var shopColumns = []string{"id", "name", "free_refill_interval", "phone_number"}

// ShopRepo implements shop.Repository.
type ShopRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewShopRepo creates a new shop repository.
func NewShopRepo(txm *postgres.TxManager) *ShopRepo {
	return &ShopRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a shop.
func (r *ShopRepo) Create(ctx context.Context, s *shop.Shop) error {
	q := r.builder.Insert(shopsTable).
		Columns(shopColumns...).
		Values(s.ID, s.Name, s.FreeRefillInterval, s.PhoneNumber)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("shop", "name", s.Name)
		}
		return apperror.NewDatabase(fmt.Errorf("insert shop: %w", err))
	}
	return nil
}

// GetByID retrieves a shop by ID.
func (r *ShopRepo) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	q := r.builder.Select(shopColumns...).
		From(shopsTable).
		Where(squirrel.Eq{"id": shopID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s shop.Shop
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shop", shopID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get shop: %w", err))
	}
	return &s, nil
}

// List retrieves all shops ordered by name.
func (r *ShopRepo) List(ctx context.Context) ([]*shop.Shop, error) {
	q := r.builder.Select(shopColumns...).
		From(shopsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var shops []*shop.Shop
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &shops, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select shops: %w", err))
	}
	return shops, nil
}

// Update persists shop changes.
func (r *ShopRepo) Update(ctx context.Context, s *shop.Shop) error {
	q := r.builder.Update(shopsTable).
		Set("name", s.Name).
		Set("free_refill_interval", s.FreeRefillInterval).
		Set("phone_number", s.PhoneNumber).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("shop", "name", s.Name)
		}
		return apperror.NewDatabase(fmt.Errorf("update shop: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shop", s.ID)
	}
	return nil
}

// Delete removes a shop. Referenced shops cannot be deleted.
func (r *ShopRepo) Delete(ctx context.Context, shopID id.ID) error {
	q := r.builder.Delete(shopsTable).Where(squirrel.Eq{"id": shopID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewProtected("shop", shopID)
		}
		return apperror.NewDatabase(fmt.Errorf("delete shop: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shop", shopID)
	}
	return nil
}

// Ensure interface compliance.
var _ shop.Repository = (*ShopRepo)(nil)
