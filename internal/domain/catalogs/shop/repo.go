package shop

import (
	"context"

	"hamu/internal/core/id"
)

// Repository defines the interface for Shop persistence.
type Repository interface {
	Create(ctx context.Context, s *Shop) error
	GetByID(ctx context.Context, shopID id.ID) (*Shop, error)
	List(ctx context.Context) ([]*Shop, error)
	Update(ctx context.Context, s *Shop) error
	Delete(ctx context.Context, shopID id.ID) error
}
