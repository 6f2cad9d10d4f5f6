package transaction_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/transactions/sale"
	"hamu/internal/infrastructure/storage/postgres"
)

const salesTable = "sale_transactions"

var saleColumns = []string{
	"id", "shop_id", "customer_id", "package_id",
	"quantity", "cost", "payment_mode", "delivered", "sold_by", "created_at",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale transaction repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a sale transaction.
func (r *SaleRepo) Create(ctx context.Context, t *sale.Transaction) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(t.ID, t.ShopID, t.CustomerID, t.PackageID,
			t.Quantity, t.Cost, t.PaymentMode, t.Delivered,
			t.SoldBy, t.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("referenced record", t.ID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert sale: %w", err))
	}
	return nil
}

// GetByID retrieves a sale transaction by ID.
func (r *SaleRepo) GetByID(ctx context.Context, txID id.ID) (*sale.Transaction, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t sale.Transaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale transaction", txID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get sale: %w", err))
	}
	return &t, nil
}

// List retrieves sale transactions with filtering, newest first.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Transaction, error) {
	q := r.builder.Select(saleColumns...).From(salesTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.PackageID != nil {
		q = q.Where(squirrel.Eq{"package_id": *filter.PackageID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}

	q = q.OrderBy("created_at DESC")
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

	var txs []*sale.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select sales: %w", err))
	}
	return txs, nil
}

// UpdateDelivered sets the delivery status/fee on a sale transaction.
func (r *SaleRepo) UpdateDelivered(ctx context.Context, txID id.ID, delivered int) error {
	q := r.builder.Update(salesTable).
		Set("delivered", delivered).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update sale delivery: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale transaction", txID)
	}
	return nil
}

// Ensure interface compliance.
var _ sale.Repository = (*SaleRepo)(nil)
