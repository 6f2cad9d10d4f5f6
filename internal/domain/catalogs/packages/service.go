package packages

import (
	"context"

	"hamu/internal/core/id"
	"hamu/pkg/logger"
)

// Service provides business operations for the Package catalog.
type Service struct {
	repo Repository
}

// NewService creates a new package service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new package.
func (s *Service) Create(ctx context.Context, p *Package) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.ID) {
		p.ID = id.New()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "package created",
		"id", p.ID,
		"shop_id", p.ShopID,
		"sale_type", p.SaleType,
		"water_amount", p.WaterAmount,
	)
	return nil
}

// GetByID retrieves a package.
func (s *Service) GetByID(ctx context.Context, packageID id.ID) (*Package, error) {
	return s.repo.GetByID(ctx, packageID)
}

// List retrieves packages with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Package, error) {
	return s.repo.List(ctx, filter)
}

// Update validates and persists package changes.
func (s *Service) Update(ctx context.Context, p *Package) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Delete removes a package.
func (s *Service) Delete(ctx context.Context, packageID id.ID) error {
	return s.repo.Delete(ctx, packageID)
}
