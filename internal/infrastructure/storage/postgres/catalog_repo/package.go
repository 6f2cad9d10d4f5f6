package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/infrastructure/storage/postgres"
)

const packagesTable = "packages"

var packageColumns = []string{
	"id", "shop_id", "sale_type", "bottle_type",
	"water_amount", "description", "price",
}

// PackageRepo implements packages.Repository.
type PackageRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPackageRepo creates a new package repository.
func NewPackageRepo(txm *postgres.TxManager) *PackageRepo {
	return &PackageRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a package.
func (r *PackageRepo) Create(ctx context.Context, p *packages.Package) error {
	q := r.builder.Insert(packagesTable).
		Columns(packageColumns...).
		Values(p.ID, p.ShopID, p.SaleType, p.BottleType,
			p.WaterAmount, p.Description, p.Price)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("shop", p.ShopID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert package: %w", err))
	}
	return nil
}

// GetByID retrieves a package by ID.
func (r *PackageRepo) GetByID(ctx context.Context, packageID id.ID) (*packages.Package, error) {
	q := r.builder.Select(packageColumns...).
		From(packagesTable).
		Where(squirrel.Eq{"id": packageID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p packages.Package
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("package", packageID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get package: %w", err))
	}
	return &p, nil
}

// List retrieves packages with filtering.
func (r *PackageRepo) List(ctx context.Context, filter packages.ListFilter) ([]*packages.Package, error) {
	q := r.builder.Select(packageColumns...).From(packagesTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.SaleType != nil {
		q = q.Where(squirrel.Eq{"sale_type": *filter.SaleType})
	}

	q = q.OrderBy("sale_type", "water_amount")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var pkgs []*packages.Package
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &pkgs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select packages: %w", err))
	}
	return pkgs, nil
}

// Update persists package changes.
func (r *PackageRepo) Update(ctx context.Context, p *packages.Package) error {
	q := r.builder.Update(packagesTable).
		Set("sale_type", p.SaleType).
		Set("bottle_type", p.BottleType).
		Set("water_amount", p.WaterAmount).
		Set("description", p.Description).
		Set("price", p.Price).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update package: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("package", p.ID)
	}
	return nil
}

// Delete removes a package. Packages with transaction history cannot be
// deleted.
func (r *PackageRepo) Delete(ctx context.Context, packageID id.ID) error {
	q := r.builder.Delete(packagesTable).Where(squirrel.Eq{"id": packageID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewProtected("package", packageID)
		}
		return apperror.NewDatabase(fmt.Errorf("delete package: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("package", packageID)
	}
	return nil
}

// Ensure interface compliance.
var _ packages.Repository = (*PackageRepo)(nil)
