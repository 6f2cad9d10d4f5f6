package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/infrastructure/storage/postgres"
)

const customersTable = "customers"

var customerColumns = []string{
	"id", "shop_id", "name", "phone_number",
	"apartment_name", "room_number", "registered_at",
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a customer.
func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	q := r.builder.Insert(customersTable).
		Columns(customerColumns...).
		Values(c.ID, c.ShopID, c.Name, c.PhoneNumber,
			c.ApartmentName, c.RoomNumber, c.RegisteredAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("customer", "phone_number", c.PhoneNumber)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("shop", c.ShopID)
		}
		return apperror.NewDatabase(fmt.Errorf("insert customer: %w", err))
	}
	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get customer: %w", err))
	}
	return &c, nil
}

// List retrieves customers with filtering. Search matches name or phone.
func (r *CustomerRepo) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	q := r.builder.Select(customerColumns...).From(customersTable)

	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone_number": pattern},
		})
	}

	q = q.OrderBy("name")
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

	var customers []*customer.Customer
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &customers, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select customers: %w", err))
	}
	return customers, nil
}

// Update persists customer changes.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	q := r.builder.Update(customersTable).
		Set("name", c.Name).
		Set("phone_number", c.PhoneNumber).
		Set("apartment_name", c.ApartmentName).
		Set("room_number", c.RoomNumber).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("customer", "phone_number", c.PhoneNumber)
		}
		return apperror.NewDatabase(fmt.Errorf("update customer: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID)
	}
	return nil
}

// Delete removes a customer. Customers with transaction history cannot be
// deleted.
func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	q := r.builder.Delete(customersTable).Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewProtected("customer", customerID)
		}
		return apperror.NewDatabase(fmt.Errorf("delete customer: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID)
	}
	return nil
}

// Ensure interface compliance.
var _ customer.Repository = (*CustomerRepo)(nil)
