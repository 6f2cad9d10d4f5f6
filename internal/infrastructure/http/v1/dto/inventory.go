package dto

import (
	"hamu/internal/core/id"
	"hamu/internal/domain/inventory"
)

// CreateItemRequest defines a new stockable item for a shop.
type CreateItemRequest struct {
	ShopID   string `json:"shopId" binding:"required,uuid"`
	Category string `json:"category" binding:"required"`
	Subtype  string `json:"subtype" binding:"required"`

	Unit         string `json:"unit"`
	Threshold    *int   `json:"threshold"`
	ReorderPoint *int   `json:"reorderPoint"`
}

// ToEntity converts the request to a domain item.
func (r CreateItemRequest) ToEntity() (*inventory.Item, error) {
	shopID, err := id.Parse(r.ShopID)
	if err != nil {
		return nil, err
	}

	item, err := inventory.NewItem(shopID, inventory.Category(r.Category), r.Subtype)
	if err != nil {
		return nil, err
	}
	if r.Unit != "" {
		item.Unit = r.Unit
	}
	if r.Threshold != nil {
		item.Threshold = *r.Threshold
	}
	if r.ReorderPoint != nil {
		item.ReorderPoint = *r.ReorderPoint
	}
	return item, nil
}

// UpdateItemRequest updates item settings. Category and subtype are
// immutable.
type UpdateItemRequest struct {
	Unit         string `json:"unit"`
	Threshold    *int   `json:"threshold"`
	ReorderPoint *int   `json:"reorderPoint"`
}

// ApplyTo copies request fields onto an existing item.
func (r UpdateItemRequest) ApplyTo(item *inventory.Item) {
	if r.Unit != "" {
		item.Unit = r.Unit
	}
	if r.Threshold != nil {
		item.Threshold = *r.Threshold
	}
	if r.ReorderPoint != nil {
		item.ReorderPoint = *r.ReorderPoint
	}
}

// RecordMovementRequest appends a signed movement to an item's ledger.
type RecordMovementRequest struct {
	ItemID         string `json:"itemId" binding:"required,uuid"`
	QuantityChange int    `json:"quantityChange" binding:"required"`
	Note           string `json:"note"`
	ActorName      string `json:"actorName" binding:"required"`
}

// LevelResponse reports the computed stock level of an item.
type LevelResponse struct {
	ItemID string `json:"itemId"`
	Level  int    `json:"level"`
}
