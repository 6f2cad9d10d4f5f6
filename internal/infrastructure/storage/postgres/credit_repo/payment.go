// Package credit_repo provides the PostgreSQL implementation for the
// credit payment repository.
package credit_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/credits"
	"hamu/internal/infrastructure/storage/postgres"
)

const paymentsTable = "credit_payments"

var paymentColumns = []string{
	"id", "shop_id", "customer_id", "money_paid",
	"payment_mode", "payment_date", "agent_name", "created_at",
}

// Repo implements credits.Repository.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a new credit payment repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a credit payment.
func (r *Repo) Create(ctx context.Context, p *credits.Payment) error {
	q := r.builder.Insert(paymentsTable).
		Columns(paymentColumns...).
		Values(p.ID, p.ShopID, p.CustomerID, p.MoneyPaid,
			p.PaymentMode, p.PaymentDate, p.AgentName, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("referenced record", p.ID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert credit payment: %w", err))
	}
	return nil
}

// GetByID retrieves a credit payment by ID.
func (r *Repo) GetByID(ctx context.Context, paymentID id.ID) (*credits.Payment, error) {
	q := r.builder.Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p credits.Payment
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("credit payment", paymentID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get credit payment: %w", err))
	}
	return &p, nil
}

// List retrieves credit payments with filtering, newest payment first.
func (r *Repo) List(ctx context.Context, filter credits.ListFilter) ([]*credits.Payment, error) {
	q := r.builder.Select(paymentColumns...).From(paymentsTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	q = q.OrderBy("payment_date DESC")
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

	var payments []*credits.Payment
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &payments, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select credit payments: %w", err))
	}
	return payments, nil
}

// Balances aggregates total credit paid per customer and what each
// customer spent on CREDIT-mode refills and sales. The Balance column is
// computed by the service from the two totals.
func (r *Repo) Balances(ctx context.Context, filter credits.BalanceFilter) ([]credits.CustomerBalance, error) {
	q := r.builder.Select(
		"c.id AS customer_id",
		"c.name AS customer_name",
		"c.phone_number AS phone_number",
		"s.name AS shop_name",
		"SUM(p.money_paid) AS total_credit",
		`COALESCE((SELECT SUM(cost) FROM refill_transactions
			WHERE customer_id = c.id AND payment_mode = 'CREDIT'), 0)
		+ COALESCE((SELECT SUM(cost) FROM sale_transactions
			WHERE customer_id = c.id AND payment_mode = 'CREDIT'), 0) AS total_spent`,
	).
		From(paymentsTable + " p").
		Join("customers c ON c.id = p.customer_id").
		Join("shops s ON s.id = p.shop_id").
		GroupBy("c.id", "c.name", "c.phone_number", "s.name").
		OrderBy("s.name", "c.name")

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"p.shop_id": *filter.ShopID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"p.customer_id": *filter.CustomerID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []credits.CustomerBalance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select credit balances: %w", err))
	}
	return rows, nil
}

// Ensure interface compliance.
var _ credits.Repository = (*Repo)(nil)
