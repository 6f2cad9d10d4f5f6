package dto

import (
	"hamu/internal/core/id"
	"hamu/internal/domain/transactions/refill"
	"hamu/internal/domain/transactions/sale"
)

// RecordRefillRequest books a refill purchase. CustomerID empty means an
// anonymous walk-in.
type RecordRefillRequest struct {
	CustomerID  *string `json:"customerId" binding:"omitempty,uuid"`
	PackageID   string  `json:"packageId" binding:"required,uuid"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	PaymentMode string  `json:"paymentMode" binding:"required"`

	// Delivered is set when the refill was delivered at record time:
	// 0 for free delivery, a positive value for the fee charged.
	Delivered *int `json:"delivered" binding:"omitempty,min=0"`

	ServedBy string `json:"servedBy" binding:"required"`
}

// ToInput converts the request to a service input.
func (r RecordRefillRequest) ToInput() (refill.RecordInput, error) {
	packageID, err := id.Parse(r.PackageID)
	if err != nil {
		return refill.RecordInput{}, err
	}

	input := refill.RecordInput{
		PackageID:   packageID,
		Quantity:    r.Quantity,
		PaymentMode: refill.PaymentMode(r.PaymentMode),
		Delivered:   r.Delivered,
		ServedBy:    r.ServedBy,
	}
	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return refill.RecordInput{}, err
		}
		input.CustomerID = &customerID
	}
	return input, nil
}

// RecordSaleRequest books a sale of bottles or bundles.
type RecordSaleRequest struct {
	CustomerID  *string `json:"customerId" binding:"omitempty,uuid"`
	PackageID   string  `json:"packageId" binding:"required,uuid"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	PaymentMode string  `json:"paymentMode" binding:"required"`
	Delivered   *int    `json:"delivered" binding:"omitempty,min=0"`
	SoldBy      string  `json:"soldBy" binding:"required"`
}

// ToInput converts the request to a service input.
func (r RecordSaleRequest) ToInput() (sale.RecordInput, error) {
	packageID, err := id.Parse(r.PackageID)
	if err != nil {
		return sale.RecordInput{}, err
	}

	input := sale.RecordInput{
		PackageID:   packageID,
		Quantity:    r.Quantity,
		PaymentMode: refill.PaymentMode(r.PaymentMode),
		Delivered:   r.Delivered,
		SoldBy:      r.SoldBy,
	}
	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return sale.RecordInput{}, err
		}
		input.CustomerID = &customerID
	}
	return input, nil
}

// MarkDeliveredRequest flags a transaction as delivered. DeliveryFee 0
// means delivered free of charge.
type MarkDeliveredRequest struct {
	DeliveryFee *int `json:"deliveryFee" binding:"required,min=0"`
}
