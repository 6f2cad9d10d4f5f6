package customer

import (
	"context"

	"hamu/internal/core/id"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
}

// ListFilter narrows customer listings.
type ListFilter struct {
	ShopID *id.ID
	Search string
	Limit  int
	Offset int
}
