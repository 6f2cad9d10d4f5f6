package handlers

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/core/apperror"
	"hamu/internal/domain/loyalty"
)

// LoyaltyHandler serves loyalty program endpoints.
type LoyaltyHandler struct {
	base    *BaseHandler
	service *loyalty.Service
}

// NewLoyaltyHandler creates a loyalty handler.
func NewLoyaltyHandler(base *BaseHandler, service *loyalty.Service) *LoyaltyHandler {
	return &LoyaltyHandler{base: base, service: service}
}

// RegisterRoutes mounts loyalty routes on the group.
func (h *LoyaltyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/split", h.Split)
	rg.GET("/eligible", h.Eligible)
	rg.POST("/notify-eligible", h.NotifyEligible)
}

// Split handles GET /loyalty/split?customerId=&packageId=&quantity=.
// It previews the free/paid breakdown without recording anything.
func (h *LoyaltyHandler) Split(c *gin.Context) {
	customerID, ok := h.base.ParseIDQuery(c, "customerId")
	if !ok {
		return
	}
	packageID, ok := h.base.ParseIDQuery(c, "packageId")
	if !ok {
		return
	}
	if customerID == nil || packageID == nil {
		h.base.Error(c, apperror.NewValidation("customerId and packageId are required"))
		return
	}

	quantity := h.base.ParseIntQuery(c, "quantity", 1)

	split, err := h.service.ComputeSplitFor(c.Request.Context(), *customerID, *packageID, quantity)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, split)
}

// Eligible handles GET /loyalty/eligible with optional shopId and
// customerId query params. Without a customerId only customers who have
// already earned free refills are listed.
func (h *LoyaltyHandler) Eligible(c *gin.Context) {
	filter, ok := h.eligibilityFilter(c)
	if !ok {
		return
	}

	eligible, err := h.service.ListEligible(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, eligible)
}

// NotifyEligible handles POST /loyalty/notify-eligible with the same
// optional filters as the eligibility report.
func (h *LoyaltyHandler) NotifyEligible(c *gin.Context) {
	filter, ok := h.eligibilityFilter(c)
	if !ok {
		return
	}

	count, err := h.service.NotifyEligible(c.Request.Context(), filter)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, gin.H{"notified": count})
}

func (h *LoyaltyHandler) eligibilityFilter(c *gin.Context) (loyalty.EligibilityFilter, bool) {
	shopID, ok := h.base.ParseIDQuery(c, "shopId")
	if !ok {
		return loyalty.EligibilityFilter{}, false
	}
	customerID, ok := h.base.ParseIDQuery(c, "customerId")
	if !ok {
		return loyalty.EligibilityFilter{}, false
	}
	return loyalty.EligibilityFilter{ShopID: shopID, CustomerID: customerID}, true
}
