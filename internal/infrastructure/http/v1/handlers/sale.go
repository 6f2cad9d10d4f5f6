package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/transactions/sale"
	"hamu/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves sale transaction endpoints.
type SaleHandler struct {
	base    *BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{base: base, service: service}
}

// RegisterRoutes mounts sale routes on the group.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/delivery", h.MarkDelivered)
}

// Record handles POST /sales.
func (h *SaleHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid id in request").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.Record(c.Request.Context(), input)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, result)
}

// List handles GET /sales with shopId, customerId, packageId, from, to
// query params.
func (h *SaleHandler) List(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}
	customerID, ok := h.base.ParseIDQuery(c, "customerId")
	if !ok {
		return
	}
	packageID, ok := h.base.ParseIDQuery(c, "packageId")
	if !ok {
		return
	}

	filter := sale.ListFilter{
		ShopID:     shopID,
		CustomerID: customerID,
		PackageID:  packageID,
		Limit:      h.base.ParseIntQuery(c, "limit", 100),
		Offset:     h.base.ParseIntQuery(c, "offset", 0),
	}

	var parseErr error
	filter.From, parseErr = parseTimeQuery(c.Query("from"))
	if parseErr != nil {
		h.base.Error(c, apperror.NewValidation("invalid from timestamp").WithDetail("value", c.Query("from")))
		return
	}
	filter.To, parseErr = parseTimeQuery(c.Query("to"))
	if parseErr != nil {
		h.base.Error(c, apperror.NewValidation("invalid to timestamp").WithDetail("value", c.Query("to")))
		return
	}

	txs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, txs)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, t)
}

// MarkDelivered handles PUT /sales/:id/delivery.
func (h *SaleHandler) MarkDelivered(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.MarkDeliveredRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	if err := h.service.MarkDelivered(c.Request.Context(), txID, *req.DeliveryFee); err != nil {
		h.base.Error(c, err)
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, t)
}
