package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/infrastructure/http/v1/dto"
)

// ShopHandler serves shop catalog endpoints.
type ShopHandler struct {
	base    *BaseHandler
	service *shop.Service
}

// NewShopHandler creates a shop handler.
func NewShopHandler(base *BaseHandler, service *shop.Service) *ShopHandler {
	return &ShopHandler{base: base, service: service}
}

// RegisterRoutes mounts shop routes on the group.
func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /shops.
func (h *ShopHandler) Create(c *gin.Context) {
	var req dto.CreateShopRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	s := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), s); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, s.ID.String())
}

// List handles GET /shops.
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.service.List(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, shops)
}

// Get handles GET /shops/:id.
func (h *ShopHandler) Get(c *gin.Context) {
	shopID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), shopID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, s)
}

// Update handles PUT /shops/:id.
func (h *ShopHandler) Update(c *gin.Context) {
	shopID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateShopRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), shopID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	req.ApplyTo(s)

	if err := h.service.Update(c.Request.Context(), s); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, s)
}

// Delete handles DELETE /shops/:id.
func (h *ShopHandler) Delete(c *gin.Context) {
	shopID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), shopID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
