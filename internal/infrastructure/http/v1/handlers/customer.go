package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves customer catalog endpoints.
type CustomerHandler struct {
	base    *BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{base: base, service: service}
}

// RegisterRoutes mounts customer routes on the group.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	cust, err := req.ToEntity()
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid shop id").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(c.Request.Context(), cust); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, cust.ID.String())
}

// List handles GET /customers with shopId, search, limit, offset query
// params.
func (h *CustomerHandler) List(c *gin.Context) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return
	}

	filter := customer.ListFilter{
		ShopID: shopID,
		Search: c.Query("search"),
		Limit:  h.base.ParseIntQuery(c, "limit", 100),
		Offset: h.base.ParseIntQuery(c, "offset", 0),
	}

	customers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, customers)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, cust)
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	req.ApplyTo(cust)

	if err := h.service.Update(c.Request.Context(), cust); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, cust)
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), customerID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
