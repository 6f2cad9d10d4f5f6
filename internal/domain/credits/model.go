// Package credits tracks prepayments customers make against their credit
// balance. Refills and sales settled with the CREDIT payment mode draw
// the balance down; payments recorded here top it up.
package credits

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/transactions/refill"
)

// Payment is one recorded credit top-up.
type Payment struct {
	ID         id.ID `db:"id" json:"id"`
	ShopID     id.ID `db:"shop_id" json:"shopId"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	MoneyPaid types.Money `db:"money_paid" json:"moneyPaid"`

	// PaymentMode is how the top-up itself was settled. Only real money
	// counts: MPESA or CASH.
	PaymentMode refill.PaymentMode `db:"payment_mode" json:"paymentMode"`

	PaymentDate time.Time `db:"payment_date" json:"paymentDate"`
	AgentName   string    `db:"agent_name" json:"agentName"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ValidTopUpMode reports whether m can settle a credit top-up.
func ValidTopUpMode(m refill.PaymentMode) bool {
	return m == refill.PaymentMpesa || m == refill.PaymentCash
}

// Validate checks payment invariants.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}
	if id.IsNil(p.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if !p.MoneyPaid.IsPositive() {
		return apperror.NewValidation("amount paid must be positive").
			WithDetail("field", "moneyPaid").
			WithDetail("value", p.MoneyPaid)
	}
	if !ValidTopUpMode(p.PaymentMode) {
		return apperror.NewValidation("credit top-ups must be paid in MPESA or CASH").
			WithDetail("field", "paymentMode").
			WithDetail("value", string(p.PaymentMode))
	}
	if p.AgentName == "" {
		return apperror.NewValidation("agent name is required").
			WithDetail("field", "agentName")
	}
	return nil
}
