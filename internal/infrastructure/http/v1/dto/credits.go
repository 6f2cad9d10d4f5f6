package dto

import (
	"time"

	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/credits"
	"hamu/internal/domain/transactions/refill"
)

// RecordCreditRequest books a credit top-up for a customer. The shop is
// derived from the customer.
type RecordCreditRequest struct {
	CustomerID  string      `json:"customerId" binding:"required,uuid"`
	MoneyPaid   types.Money `json:"moneyPaid" binding:"required"`
	PaymentMode string      `json:"paymentMode" binding:"required"`

	// PaymentDate defaults to the time of recording when omitted.
	PaymentDate *time.Time `json:"paymentDate"`

	AgentName string `json:"agentName" binding:"required"`
}

// ToInput converts the request to a service input.
func (r RecordCreditRequest) ToInput() (credits.RecordInput, error) {
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return credits.RecordInput{}, err
	}

	input := credits.RecordInput{
		CustomerID:  customerID,
		MoneyPaid:   r.MoneyPaid,
		PaymentMode: refill.PaymentMode(r.PaymentMode),
		AgentName:   r.AgentName,
	}
	if r.PaymentDate != nil {
		input.PaymentDate = *r.PaymentDate
	}
	return input, nil
}
