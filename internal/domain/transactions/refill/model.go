// Package refill provides the refill transaction document: a customer (or
// walk-in) refilling bottles, with the loyalty free/paid split applied and
// consumables deducted from stock.
package refill

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
)

// PaymentMode enumerates how a transaction was settled.
type PaymentMode string

const (
	PaymentMpesa  PaymentMode = "MPESA"
	PaymentCash   PaymentMode = "CASH"
	PaymentCredit PaymentMode = "CREDIT"

	// PaymentFree marks transactions fully covered by loyalty.
	PaymentFree PaymentMode = "FREE"
)

var validPaymentModes = map[PaymentMode]struct{}{
	PaymentMpesa:  {},
	PaymentCash:   {},
	PaymentCredit: {},
	PaymentFree:   {},
}

// ValidPaymentMode reports whether m is a known payment mode.
func ValidPaymentMode(m PaymentMode) bool {
	_, ok := validPaymentModes[m]
	return ok
}

// Transaction is one recorded refill purchase.
type Transaction struct {
	ID     id.ID `db:"id" json:"id"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	// CustomerID is nil for anonymous walk-ins; anonymous refills never
	// earn or redeem loyalty.
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	PackageID id.ID `db:"package_id" json:"packageId"`

	// Quantity is the number of refill units purchased.
	Quantity int `db:"quantity" json:"quantity"`

	FreeQuantity int `db:"free_quantity" json:"freeQuantity"`
	PaidQuantity int `db:"paid_quantity" json:"paidQuantity"`

	// Cost is what the customer actually paid (unit price x paid units).
	Cost types.Money `db:"cost" json:"cost"`

	PaymentMode PaymentMode `db:"payment_mode" json:"paymentMode"`

	// LoyaltyRefillCount is how many units this transaction adds to the
	// customer's cumulative counter. Equals Quantity: free units advance
	// the counter too.
	LoyaltyRefillCount int `db:"loyalty_refill_count" json:"loyaltyRefillCount"`

	// Delivered tracks home delivery: nil means not delivered, 0 means
	// delivered free of charge, a positive value is the fee charged.
	Delivered *int `db:"delivered" json:"delivered"`

	ServedBy  string    `db:"served_by" json:"servedBy"`
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
	if t.FreeQuantity+t.PaidQuantity != t.Quantity {
		return apperror.NewValidation("free and paid quantities must sum to quantity").
			WithDetail("quantity", t.Quantity).
			WithDetail("freeQuantity", t.FreeQuantity).
			WithDetail("paidQuantity", t.PaidQuantity)
	}
	if !ValidPaymentMode(t.PaymentMode) {
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

// IsFree reports whether every unit in the transaction was free.
func (t *Transaction) IsFree() bool {
	return t.Quantity > 0 && t.PaidQuantity == 0
}

// IsPartiallyFree reports a mixed free/paid transaction.
func (t *Transaction) IsPartiallyFree() bool {
	return t.FreeQuantity > 0 && t.PaidQuantity > 0
}
