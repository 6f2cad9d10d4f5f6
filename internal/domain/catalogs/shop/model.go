// Package shop provides the Shop catalog.
// A shop is a physical branch; every customer, package, transaction and
// inventory item belongs to exactly one shop.
package shop

import (
	"context"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
)

// Shop represents a physical shop/branch location.
type Shop struct {
	ID id.ID `db:"id" json:"id"`

	// Name must be unique across all shops
	Name string `db:"name" json:"name"`

	// FreeRefillInterval is the loyalty threshold N: every N cumulative
	// refill units for a (customer, package) pair earn one free unit.
	// Zero disables the loyalty program for this shop.
	FreeRefillInterval int `db:"free_refill_interval" json:"freeRefillInterval"`

	PhoneNumber string `db:"phone_number" json:"phoneNumber"`
}

// NewShop creates a new Shop with generated ID.
func NewShop(name string, freeRefillInterval int) *Shop {
	return &Shop{
		ID:                 id.New(),
		Name:               name,
		FreeRefillInterval: freeRefillInterval,
	}
}

// Validate checks shop invariants.
func (s *Shop) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if s.FreeRefillInterval < 0 {
		return apperror.NewValidation("free refill interval cannot be negative").
			WithDetail("field", "freeRefillInterval").
			WithDetail("value", s.FreeRefillInterval)
	}

	return nil
}

// LoyaltyEnabled reports whether the shop runs a loyalty program.
func (s *Shop) LoyaltyEnabled() bool {
	return s.FreeRefillInterval > 0
}
