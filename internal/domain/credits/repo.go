package credits

import (
	"context"

	"hamu/internal/core/id"
	"hamu/internal/core/types"
)

// Repository defines persistence for credit payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, paymentID id.ID) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]*Payment, error)

	// Balances aggregates credit paid and credit spent per customer.
	// The Balance field on the returned rows is left for the caller.
	Balances(ctx context.Context, filter BalanceFilter) ([]CustomerBalance, error)
}

// ListFilter narrows credit payment listings. Results come back newest
// payment first.
type ListFilter struct {
	ShopID     *id.ID
	CustomerID *id.ID
	Limit      int
	Offset     int
}

// BalanceFilter narrows the balance report.
type BalanceFilter struct {
	ShopID     *id.ID
	CustomerID *id.ID
}

// CustomerBalance is one row of the balance report: everything a
// customer has paid in against everything they have spent on CREDIT
// transactions.
type CustomerBalance struct {
	CustomerID   id.ID       `db:"customer_id" json:"customerId"`
	CustomerName string      `db:"customer_name" json:"customerName"`
	PhoneNumber  string      `db:"phone_number" json:"phoneNumber"`
	ShopName     string      `db:"shop_name" json:"shopName"`
	TotalCredit  types.Money `db:"total_credit" json:"totalCredit"`
	TotalSpent   types.Money `db:"total_spent" json:"totalSpent"`
	Balance      types.Money `db:"-" json:"balance"`
}
