// Package transaction_repo provides PostgreSQL implementations for the
// refill and sale transaction repositories.
package transaction_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/loyalty"
	"hamu/internal/domain/transactions/refill"
	"hamu/internal/infrastructure/storage/postgres"
)

const refillsTable = "refill_transactions"

var refillColumns = []string{
	"id", "shop_id", "customer_id", "package_id",
	"quantity", "free_quantity", "paid_quantity", "cost",
	"payment_mode", "loyalty_refill_count", "delivered",
	"served_by", "created_at",
}

// RefillRepo implements refill.Repository.
type RefillRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRefillRepo creates a new refill transaction repository.
func NewRefillRepo(txm *postgres.TxManager) *RefillRepo {
	return &RefillRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a refill transaction.
func (r *RefillRepo) Create(ctx context.Context, t *refill.Transaction) error {
	q := r.builder.Insert(refillsTable).
		Columns(refillColumns...).
		Values(t.ID, t.ShopID, t.CustomerID, t.PackageID,
			t.Quantity, t.FreeQuantity, t.PaidQuantity, t.Cost,
			t.PaymentMode, t.LoyaltyRefillCount, t.Delivered,
			t.ServedBy, t.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("referenced record", t.ID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert refill: %w", err))
	}
	return nil
}

// GetByID retrieves a refill transaction by ID.
func (r *RefillRepo) GetByID(ctx context.Context, txID id.ID) (*refill.Transaction, error) {
	q := r.builder.Select(refillColumns...).
		From(refillsTable).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t refill.Transaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("refill transaction", txID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get refill: %w", err))
	}
	return &t, nil
}

// List retrieves refill transactions with filtering, newest first.
func (r *RefillRepo) List(ctx context.Context, filter refill.ListFilter) ([]*refill.Transaction, error) {
	q := r.builder.Select(refillColumns...).From(refillsTable)

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

	var txs []*refill.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select refills: %w", err))
	}
	return txs, nil
}

// UpdateDelivered sets the delivery status/fee on a refill transaction.
func (r *RefillRepo) UpdateDelivered(ctx context.Context, txID id.ID, delivered int) error {
	q := r.builder.Update(refillsTable).
		Set("delivered", delivered).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update refill delivery: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("refill transaction", txID)
	}
	return nil
}

// TotalRefills sums LoyaltyRefillCount for a (customer, package) pair.
// Inside a transaction the read sees that transaction's own inserts.
func (r *RefillRepo) TotalRefills(ctx context.Context, customerID, packageID id.ID) (int, error) {
	sql := `
		SELECT COALESCE(SUM(loyalty_refill_count), 0)
		FROM refill_transactions
		WHERE customer_id = $1 AND package_id = $2
	`

	var total int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, customerID, packageID).Scan(&total)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewDatabase(fmt.Errorf("sum refills: %w", err))
	}
	return total, nil
}

// RefillTotals aggregates all-time refill quantities per customer for the
// eligibility report. Joined through the customer's shop so each row
// carries the interval it is judged against; disabled-program shops are
// excluded at the source.
func (r *RefillRepo) RefillTotals(ctx context.Context, filter loyalty.EligibilityFilter) ([]loyalty.CustomerRefillTotal, error) {
	q := r.builder.Select(
		"c.id AS customer_id",
		"c.name AS customer_name",
		"c.phone_number AS phone_number",
		"s.id AS shop_id",
		"s.name AS shop_name",
		"s.free_refill_interval AS free_refill_interval",
		"SUM(t.loyalty_refill_count)::int AS total_refills",
	).
		From(refillsTable + " t").
		Join("customers c ON c.id = t.customer_id").
		Join("shops s ON s.id = c.shop_id").
		Where("t.customer_id IS NOT NULL").
		Where(squirrel.Gt{"s.free_refill_interval": 0}).
		GroupBy("c.id", "c.name", "c.phone_number",
			"s.id", "s.name", "s.free_refill_interval").
		OrderBy("s.name", "c.name")

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"c.shop_id": *filter.ShopID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"t.customer_id": *filter.CustomerID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []loyalty.CustomerRefillTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select refill totals: %w", err))
	}
	return totals, nil
}

// Ensure interface compliance.
var (
	_ refill.Repository     = (*RefillRepo)(nil)
	_ loyalty.RefillCounter = (*RefillRepo)(nil)
)
