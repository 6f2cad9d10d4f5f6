package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/inventory"
	"hamu/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves inventory item and stock ledger endpoints.
type InventoryHandler struct {
	base    *BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{base: base, service: service}
}

// RegisterRoutes mounts inventory routes on the group.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.GET("/:id/level", h.GetLevel)
	}

	rg.POST("/movements", h.RecordMovement)
	rg.GET("/movements", h.ListMovements)
	rg.GET("/low", h.LowStock)
	rg.GET("/overview", h.ShopStock)
}

// CreateItem handles POST /stock/items.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity()
	if err != nil {
		h.base.Error(c, err)
		return
	}

	if err := h.service.CreateItem(c.Request.Context(), item); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, item.ID.String())
}

// ListItems handles GET /stock/items with shopId and category params.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}

	filter := inventory.ItemFilter{
		ShopID: shopID,
		Limit:  h.base.ParseIntQuery(c, "limit", 200),
		Offset: h.base.ParseIntQuery(c, "offset", 0),
	}
	if cat := c.Query("category"); cat != "" {
		category := inventory.Category(cat)
		filter.Category = &category
	}

	items, err := h.service.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, items)
}

// GetItem handles GET /stock/items/:id.
func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, item)
}

// UpdateItem handles PUT /stock/items/:id.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	req.ApplyTo(item)

	if err := h.service.UpdateItem(c.Request.Context(), item); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, item)
}

// DeleteItem handles DELETE /stock/items/:id.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}

// GetLevel handles GET /stock/items/:id/level.
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	level, err := h.service.CurrentLevel(c.Request.Context(), itemID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.LevelResponse{ItemID: itemID.String(), Level: level})
}

// RecordMovement handles POST /stock/movements.
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid item id").WithDetail("value", req.ItemID))
		return
	}

	result, err := h.service.RecordMovement(c.Request.Context(), itemID,
		req.QuantityChange, req.Note, req.ActorName)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, result)
}

// ListMovements handles GET /stock/movements with shopId and itemId params.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}
	itemID, ok := h.base.ParseIDQuery(c, "itemId")
	if !ok {
		return
	}

	filter := inventory.EntryFilter{
		ShopID: shopID,
		ItemID: itemID,
		Limit:  h.base.ParseIntQuery(c, "limit", 100),
		Offset: h.base.ParseIntQuery(c, "offset", 0),
	}

	entries, err := h.service.Movements(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, entries)
}

// LowStock handles GET /stock/low?shopId=...
func (h *InventoryHandler) LowStock(c *gin.Context) {
	shopID, ok := h.requireShopID(c)
	if !ok {
		return
	}

	low, err := h.service.LowStock(c.Request.Context(), shopID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, low)
}

// ShopStock handles GET /stock/overview?shopId=...
func (h *InventoryHandler) ShopStock(c *gin.Context) {
	shopID, ok := h.requireShopID(c)
	if !ok {
		return
	}

	stock, err := h.service.ShopStock(c.Request.Context(), shopID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, stock)
}

func (h *InventoryHandler) requireShopID(c *gin.Context) (id.ID, bool) {
	shopID, valid := h.base.ParseIDQuery(c, "shopId")
	if !valid {
		return id.Nil(), false
	}
	if shopID == nil {
		h.base.Error(c, apperror.NewValidation("shopId is required").WithDetail("param", "shopId"))
		return id.Nil(), false
	}
	return *shopID, true
}
