package sale

import (
	"context"
	"time"

	"hamu/internal/core/id"
)

// Repository defines persistence for sale transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// UpdateDelivered sets the delivery status/fee on a transaction.
	UpdateDelivered(ctx context.Context, txID id.ID, delivered int) error
}

// ListFilter narrows sale transaction listings. Results come back newest
// first.
type ListFilter struct {
	ShopID     *id.ID
	CustomerID *id.ID
	PackageID  *id.ID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
