package dto

import (
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
)

// --- Shops ---

// CreateShopRequest creates a shop.
type CreateShopRequest struct {
	Name               string `json:"name" binding:"required"`
	FreeRefillInterval int    `json:"freeRefillInterval"`
	PhoneNumber        string `json:"phoneNumber"`
}

// ToEntity converts the request to a domain shop.
func (r CreateShopRequest) ToEntity() *shop.Shop {
	s := shop.NewShop(r.Name, r.FreeRefillInterval)
	s.PhoneNumber = r.PhoneNumber
	return s
}

// UpdateShopRequest updates a shop.
type UpdateShopRequest struct {
	Name               string `json:"name" binding:"required"`
	FreeRefillInterval int    `json:"freeRefillInterval"`
	PhoneNumber        string `json:"phoneNumber"`
}

// ApplyTo copies request fields onto an existing shop.
func (r UpdateShopRequest) ApplyTo(s *shop.Shop) {
	s.Name = r.Name
	s.FreeRefillInterval = r.FreeRefillInterval
	s.PhoneNumber = r.PhoneNumber
}

// --- Customers ---

// CreateCustomerRequest registers a customer with a shop.
type CreateCustomerRequest struct {
	ShopID        string `json:"shopId" binding:"required,uuid"`
	Name          string `json:"name" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	ApartmentName string `json:"apartmentName"`
	RoomNumber    string `json:"roomNumber"`
}

// ToEntity converts the request to a domain customer.
func (r CreateCustomerRequest) ToEntity() (*customer.Customer, error) {
	shopID, err := id.Parse(r.ShopID)
	if err != nil {
		return nil, err
	}
	c := customer.NewCustomer(shopID, r.Name, r.PhoneNumber)
	c.ApartmentName = r.ApartmentName
	c.RoomNumber = r.RoomNumber
	return c, nil
}

// UpdateCustomerRequest updates customer contact details.
type UpdateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	ApartmentName string `json:"apartmentName"`
	RoomNumber    string `json:"roomNumber"`
}

// ApplyTo copies request fields onto an existing customer.
func (r UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Name = r.Name
	c.PhoneNumber = r.PhoneNumber
	c.ApartmentName = r.ApartmentName
	c.RoomNumber = r.RoomNumber
}

// --- Packages ---

// CreatePackageRequest creates a water package.
type CreatePackageRequest struct {
	ShopID      string       `json:"shopId" binding:"required,uuid"`
	SaleType    string       `json:"saleType" binding:"required"`
	BottleType  *string      `json:"bottleType"`
	WaterAmount types.Liters `json:"waterAmount"`
	Description string       `json:"description"`
	Price       types.Money  `json:"price"`
}

// ToEntity converts the request to a domain package.
func (r CreatePackageRequest) ToEntity() (*packages.Package, error) {
	shopID, err := id.Parse(r.ShopID)
	if err != nil {
		return nil, err
	}

	p := packages.NewPackage(shopID, packages.SaleType(r.SaleType), r.WaterAmount, r.Price)
	p.Description = r.Description
	if r.BottleType != nil {
		bt := packages.BottleType(*r.BottleType)
		p.BottleType = &bt
	}
	return p, nil
}

// UpdatePackageRequest updates a package.
type UpdatePackageRequest struct {
	SaleType    string       `json:"saleType" binding:"required"`
	BottleType  *string      `json:"bottleType"`
	WaterAmount types.Liters `json:"waterAmount"`
	Description string       `json:"description"`
	Price       types.Money  `json:"price"`
}

// ApplyTo copies request fields onto an existing package.
func (r UpdatePackageRequest) ApplyTo(p *packages.Package) {
	p.SaleType = packages.SaleType(r.SaleType)
	p.WaterAmount = r.WaterAmount
	p.Description = r.Description
	p.Price = r.Price
	p.BottleType = nil
	if r.BottleType != nil {
		bt := packages.BottleType(*r.BottleType)
		p.BottleType = &bt
	}
}
