package refill

import (
	"context"
	"time"

	"hamu/internal/core/id"
	"hamu/internal/domain/loyalty"
)

// Repository defines persistence for refill transactions. It also serves
// the loyalty engine's cumulative counters, which are derived from the
// same rows.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// UpdateDelivered sets the delivery status/fee on a transaction.
	UpdateDelivered(ctx context.Context, txID id.ID, delivered int) error

	// TotalRefills sums LoyaltyRefillCount for a (customer, package)
	// pair. Inside a transaction the read sees uncommitted inserts from
	// the same transaction.
	TotalRefills(ctx context.Context, customerID, packageID id.ID) (int, error)

	// RefillTotals aggregates all-time refill quantities per customer
	// for the free-refill eligibility report.
	RefillTotals(ctx context.Context, filter loyalty.EligibilityFilter) ([]loyalty.CustomerRefillTotal, error)
}

// ListFilter narrows refill transaction listings. Results come back
// newest first.
type ListFilter struct {
	ShopID     *id.ID
	CustomerID *id.ID
	PackageID  *id.ID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
