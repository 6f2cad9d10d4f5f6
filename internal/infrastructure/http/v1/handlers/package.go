package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/infrastructure/http/v1/dto"
)

// PackageHandler serves package catalog endpoints.
type PackageHandler struct {
	base    *BaseHandler
	service *packages.Service
}

// NewPackageHandler creates a package handler.
func NewPackageHandler(base *BaseHandler, service *packages.Service) *PackageHandler {
	return &PackageHandler{base: base, service: service}
}

// RegisterRoutes mounts package routes on the group.
func (h *PackageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /packages.
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid shop id").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, p.ID.String())
}

// List handles GET /packages with shopId and saleType query params.
func (h *PackageHandler) List(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}

	filter := packages.ListFilter{ShopID: shopID}
	if st := c.Query("saleType"); st != "" {
		saleType := packages.SaleType(st)
		filter.SaleType = &saleType
	}

	pkgs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, pkgs)
}

// Get handles GET /packages/:id.
func (h *PackageHandler) Get(c *gin.Context) {
	packageID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), packageID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}

// Update handles PUT /packages/:id.
func (h *PackageHandler) Update(c *gin.Context) {
	packageID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePackageRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), packageID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	req.ApplyTo(p)

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}

// Delete handles DELETE /packages/:id.
func (h *PackageHandler) Delete(c *gin.Context) {
	packageID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), packageID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
