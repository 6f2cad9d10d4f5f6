package packages

import (
	"context"

	"hamu/internal/core/id"
)

// Repository defines the interface for Package persistence.
type Repository interface {
	Create(ctx context.Context, p *Package) error
	GetByID(ctx context.Context, packageID id.ID) (*Package, error)
	List(ctx context.Context, filter ListFilter) ([]*Package, error)
	Update(ctx context.Context, p *Package) error
	Delete(ctx context.Context, packageID id.ID) error
}

// ListFilter narrows package listings.
type ListFilter struct {
	ShopID   *id.ID
	SaleType *SaleType
}
