package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/credits"
	"hamu/internal/infrastructure/http/v1/dto"
)

// CreditHandler serves credit payment endpoints.
type CreditHandler struct {
	base    *BaseHandler
	service *credits.Service
}

// NewCreditHandler creates a credit handler.
func NewCreditHandler(base *BaseHandler, service *credits.Service) *CreditHandler {
	return &CreditHandler{base: base, service: service}
}

// RegisterRoutes mounts credit routes on the group.
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/balance", h.Balances)
	rg.GET("/:id", h.Get)
}

// Record handles POST /credits.
func (h *CreditHandler) Record(c *gin.Context) {
	var req dto.RecordCreditRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid id in request").WithDetail("error", err.Error()))
		return
	}

	p, err := h.service.Record(c.Request.Context(), input)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}

// List handles GET /credits with shopId and customerId query params.
func (h *CreditHandler) List(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}
	customerID, ok := h.base.ParseIDQuery(c, "customerId")
	if !ok {
		return
	}

	filter := credits.ListFilter{
		ShopID:     shopID,
		CustomerID: customerID,
		Limit:      h.base.ParseIntQuery(c, "limit", 100),
		Offset:     h.base.ParseIntQuery(c, "offset", 0),
	}

	payments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, payments)
}

// Balances handles GET /credits/balance with optional shopId and
// customerId query params.
func (h *CreditHandler) Balances(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}
	customerID, ok := h.base.ParseIDQuery(c, "customerId")
	if !ok {
		return
	}

	rows, err := h.service.Balances(c.Request.Context(), credits.BalanceFilter{
		ShopID:     shopID,
		CustomerID: customerID,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, rows)
}

// Get handles GET /credits/:id.
func (h *CreditHandler) Get(c *gin.Context) {
	paymentID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}
