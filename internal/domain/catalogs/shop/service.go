package shop

import (
	"context"

	"hamu/internal/core/id"
	"hamu/pkg/logger"
)

// Service provides business operations for the Shop catalog.
type Service struct {
	repo Repository
}

// NewService creates a new shop service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new shop.
func (s *Service) Create(ctx context.Context, sh *Shop) error {
	if err := sh.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(sh.ID) {
		sh.ID = id.New()
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return err
	}

	logger.Info(ctx, "shop created", "id", sh.ID, "name", sh.Name)
	return nil
}

// GetByID retrieves a shop.
func (s *Service) GetByID(ctx context.Context, shopID id.ID) (*Shop, error) {
	return s.repo.GetByID(ctx, shopID)
}

// List retrieves all shops.
func (s *Service) List(ctx context.Context) ([]*Shop, error) {
	return s.repo.List(ctx)
}

// Update validates and persists shop changes.
func (s *Service) Update(ctx context.Context, sh *Shop) error {
	if err := sh.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, sh)
}

// Delete removes a shop.
func (s *Service) Delete(ctx context.Context, shopID id.ID) error {
	return s.repo.Delete(ctx, shopID)
}
