// Package sale provides the sale transaction document: new bottles or
// shrink-wrapped bundles sold over the counter, with the physical goods
// deducted from stock.
package sale

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/transactions/refill"
)

// Transaction is one recorded sale.
type Transaction struct {
	ID     id.ID `db:"id" json:"id"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	// CustomerID is optional; sales never touch loyalty either way.
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	PackageID id.ID `db:"package_id" json:"packageId"`

	Quantity int         `db:"quantity" json:"quantity"`
	Cost     types.Money `db:"cost" json:"cost"`

	PaymentMode refill.PaymentMode `db:"payment_mode" json:"paymentMode"`

	// Delivered tracks home delivery: nil means not delivered, 0 means
	// delivered free of charge, a positive value is the fee charged.
	Delivered *int `db:"delivered" json:"delivered"`

	SoldBy    string    `db:"sold_by" json:"soldBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks transaction invariants.
func (t *Transaction) Validate(ctx context.Context) error {
	if id.IsNil(t.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}
	if id.IsNil(t.PackageID) {
		return apperror.NewValidation("package is required").
			WithDetail("field", "packageId")
	}
	if t.Quantity < 1 {
		return apperror.NewInvalidQuantity(t.Quantity)
	}
	if !refill.ValidPaymentMode(t.PaymentMode) || t.PaymentMode == refill.PaymentFree {
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "paymentMode").
			WithDetail("value", string(t.PaymentMode))
	}
	if t.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}
	if t.Delivered != nil && *t.Delivered < 0 {
		return apperror.NewValidation("delivery fee cannot be negative").
			WithDetail("field", "delivered").
			WithDetail("value", *t.Delivered)
	}
	return nil
}
