package customer

import (
	"context"

	"hamu/internal/core/id"
	"hamu/pkg/logger"
)

// Service provides business operations for the Customer catalog.
type Service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new customer.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(c.ID) {
		c.ID = id.New()
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}

	logger.Info(ctx, "customer created", "id", c.ID, "shop_id", c.ShopID)
	return nil
}

// GetByID retrieves a customer.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// List retrieves customers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return s.repo.List(ctx, filter)
}

// Update validates and persists customer changes.
func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.repo.Delete(ctx, customerID)
}
