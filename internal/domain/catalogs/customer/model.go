// Package customer provides the Customer catalog.
package customer

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
)

// Customer represents a customer registered with a specific shop.
type Customer struct {
	ID     id.ID `db:"id" json:"id"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	Name        string `db:"name" json:"name"`
	PhoneNumber string `db:"phone_number" json:"phoneNumber"`

	// Delivery address details (optional)
	ApartmentName string `db:"apartment_name" json:"apartmentName,omitempty"`
	RoomNumber    string `db:"room_number" json:"roomNumber,omitempty"`

	RegisteredAt time.Time `db:"registered_at" json:"registeredAt"`
}

// NewCustomer creates a new Customer with generated ID.
func NewCustomer(shopID id.ID, name, phoneNumber string) *Customer {
	return &Customer{
		ID:           id.New(),
		ShopID:       shopID,
		Name:         name,
		PhoneNumber:  phoneNumber,
		RegisteredAt: time.Now().UTC(),
	}
}

// Validate checks customer invariants.
func (c *Customer) Validate(ctx context.Context) error {
	if id.IsNil(c.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}

	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if c.PhoneNumber == "" {
		return apperror.NewValidation("phone number is required").
			WithDetail("field", "phoneNumber")
	}

	return nil
}
