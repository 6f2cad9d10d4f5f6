// Package packages provides the Package catalog: the water products and
// services a shop offers (refills of customer bottles, or sales of new
// bottles and shrink-wrapped bundles).
package packages

import (
	"context"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
)

// SaleType distinguishes refill services from new-bottle sales.
type SaleType string

const (
	SaleTypeRefill SaleType = "REFILL"
	SaleTypeSale   SaleType = "SALE"
)

// BottleType categorizes what is physically handed over on a SALE.
type BottleType string

const (
	BottleDisposable         BottleType = "DISPOSABLE"
	BottleHard               BottleType = "HARD"
	BottleRefill             BottleType = "REFILL"
	BottleLoyalCustomer      BottleType = "LOYAL_CUSTOMER"
	BottleLoyalCustomerMburu BottleType = "LOYAL_CUSTOMER_MBURU"
	BottleDirector           BottleType = "DIRECTOR"
	BottleBundle             BottleType = "BUNDLE"
)

var validBottleTypes = map[BottleType]struct{}{
	BottleDisposable:         {},
	BottleHard:               {},
	BottleRefill:             {},
	BottleLoyalCustomer:      {},
	BottleLoyalCustomerMburu: {},
	BottleDirector:           {},
	BottleBundle:             {},
}

// Package defines a water product or service offered by a shop.
type Package struct {
	ID     id.ID `db:"id" json:"id"`
	ShopID id.ID `db:"shop_id" json:"shopId"`

	SaleType SaleType `db:"sale_type" json:"saleType"`

	// BottleType is required iff SaleType is SALE; nil for REFILL.
	BottleType *BottleType `db:"bottle_type" json:"bottleType,omitempty"`

	// WaterAmount is the water volume in liters (e.g. 0.5, 10, 20).
	WaterAmount types.Liters `db:"water_amount" json:"waterAmount"`

	Description string      `db:"description" json:"description,omitempty"`
	Price       types.Money `db:"price" json:"price"`
}

// NewPackage creates a new Package with generated ID.
func NewPackage(shopID id.ID, saleType SaleType, waterAmount types.Liters, price types.Money) *Package {
	return &Package{
		ID:          id.New(),
		ShopID:      shopID,
		SaleType:    saleType,
		WaterAmount: waterAmount,
		Price:       price,
	}
}

// Validate checks package invariants: bottle type is required for SALE
// packages and cleared for REFILL packages.
func (p *Package) Validate(ctx context.Context) error {
	if id.IsNil(p.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}

	switch p.SaleType {
	case SaleTypeRefill:
		// Refill packages never carry a bottle type.
		p.BottleType = nil
	case SaleTypeSale:
		if p.BottleType == nil {
			return apperror.NewValidation("bottle type is required for sale packages").
				WithDetail("field", "bottleType")
		}
		if _, ok := validBottleTypes[*p.BottleType]; !ok {
			return apperror.NewValidation("invalid bottle type").
				WithDetail("field", "bottleType").
				WithDetail("value", string(*p.BottleType))
		}
	default:
		return apperror.NewValidation("invalid sale type").
			WithDetail("field", "saleType").
			WithDetail("value", string(p.SaleType))
	}

	if p.WaterAmount.IsNegative() {
		return apperror.NewValidation("water amount cannot be negative").
			WithDetail("field", "waterAmount")
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	return nil
}

// IsBundle reports whether this is a shrink-wrapped bundle sale package.
func (p *Package) IsBundle() bool {
	return p.SaleType == SaleTypeSale && p.BottleType != nil && *p.BottleType == BottleBundle
}

// WaterLiters returns the water amount as a whole liter count when it is
// integral, and false otherwise. Cap/label matching only applies to the
// standard whole-liter sizes.
func (p *Package) WaterLiters() (int, bool) {
	if !p.WaterAmount.IsInteger() {
		return 0, false
	}
	return int(p.WaterAmount.IntPart()), true
}
