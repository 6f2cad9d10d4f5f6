package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/transactions/refill"
	"hamu/internal/infrastructure/http/v1/dto"
)

// RefillHandler serves refill transaction endpoints.
type RefillHandler struct {
	base    *BaseHandler
	service *refill.Service
}

// NewRefillHandler creates a refill handler.
func NewRefillHandler(base *BaseHandler, service *refill.Service) *RefillHandler {
	return &RefillHandler{base: base, service: service}
}

// RegisterRoutes mounts refill routes on the group.
func (h *RefillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/delivery", h.MarkDelivered)
}

// Record handles POST /refills.
func (h *RefillHandler) Record(c *gin.Context) {
	var req dto.RecordRefillRequest
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

// List handles GET /refills with shopId, customerId, packageId, from, to
// query params (RFC 3339 timestamps).
func (h *RefillHandler) List(c *gin.Context) {
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

	filter := refill.ListFilter{
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

// Get handles GET /refills/:id.
func (h *RefillHandler) Get(c *gin.Context) {
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

// MarkDelivered handles PUT /refills/:id/delivery.
func (h *RefillHandler) MarkDelivered(c *gin.Context) {
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

// parseTimeQuery parses an optional RFC 3339 query value.
func parseTimeQuery(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
