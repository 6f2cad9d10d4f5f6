package loyalty

import (
	"context"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/notify"
	"hamu/pkg/logger"
)

// RefillCounter supplies cumulative refill counts from the transaction
// history. Implemented by the refill repository.
type RefillCounter interface {
	// TotalRefills sums refill quantities for a (customer, package) pair
	// across all time. Free refills count toward the total.
	TotalRefills(ctx context.Context, customerID, packageID id.ID) (int, error)

	// RefillTotals aggregates all-time refill quantities per customer,
	// joined to the customer's shop for the loyalty interval. Shops with
	// a disabled program are excluded at the source.
	RefillTotals(ctx context.Context, filter EligibilityFilter) ([]CustomerRefillTotal, error)
}

// EligibilityFilter narrows the free-refill eligibility report. Both
// filters are optional; naming a customer includes them even before any
// free refill has been earned.
type EligibilityFilter struct {
	ShopID     *id.ID
	CustomerID *id.ID
}

// CustomerRefillTotal is one customer's all-time refill quantity sum with
// the shop context needed to evaluate it.
type CustomerRefillTotal struct {
	CustomerID         id.ID  `db:"customer_id" json:"customerId"`
	CustomerName       string `db:"customer_name" json:"customerName"`
	PhoneNumber        string `db:"phone_number" json:"phoneNumber"`
	ShopID             id.ID  `db:"shop_id" json:"shopId"`
	ShopName           string `db:"shop_name" json:"shopName"`
	FreeRefillInterval int    `db:"free_refill_interval" json:"freeRefillInterval"`
	TotalRefills       int    `db:"total_refills" json:"totalRefills"`
}

// EligibleCustomer is one row of the eligibility report.
type EligibleCustomer struct {
	CustomerRefillTotal

	// EarnedFreeRefills is floor(total / interval): every full interval
	// of refills earns one free unit.
	EarnedFreeRefills    int `json:"earnedFreeRefills"`
	RefillsSinceLastFree int `json:"refillsSinceLastFree"`
	RefillsUntilNextFree int `json:"refillsUntilNextFree"`
}

// eligibilityFor evaluates a customer's refill total against their shop's
// interval. Callers guarantee FreeRefillInterval > 0.
func eligibilityFor(row CustomerRefillTotal) EligibleCustomer {
	sinceLast := row.TotalRefills % row.FreeRefillInterval
	return EligibleCustomer{
		CustomerRefillTotal:  row,
		EarnedFreeRefills:    row.TotalRefills / row.FreeRefillInterval,
		RefillsSinceLastFree: sinceLast,
		RefillsUntilNextFree: row.FreeRefillInterval - sinceLast,
	}
}

// Service resolves loyalty questions against the catalogs and the refill
// history.
type Service struct {
	shops     shop.Repository
	customers customer.Repository
	packages  packages.Repository
	counter   RefillCounter
	notifier  notify.Notifier
}

// NewService creates a loyalty service.
func NewService(
	shops shop.Repository,
	customers customer.Repository,
	pkgs packages.Repository,
	counter RefillCounter,
	notifier notify.Notifier,
) *Service {
	return &Service{
		shops:     shops,
		customers: customers,
		packages:  pkgs,
		counter:   counter,
		notifier:  notifier,
	}
}

// ComputeSplitFor answers "if this customer buys quantity refills of this
// package now, how many are free and what does it cost". Read-only; the
// same calculation runs inside the refill recording transaction.
func (s *Service) ComputeSplitFor(ctx context.Context, customerID, packageID id.ID, quantity int) (*Split, error) {
	if quantity < 1 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	p, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if p.SaleType != packages.SaleTypeRefill {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"loyalty applies to refill packages only").
			WithDetail("packageId", packageID).
			WithDetail("saleType", string(p.SaleType))
	}

	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c.ShopID != p.ShopID {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"customer and package belong to different shops").
			WithDetail("customerShopId", c.ShopID).
			WithDetail("packageShopId", p.ShopID)
	}

	sh, err := s.shops.GetByID(ctx, p.ShopID)
	if err != nil {
		return nil, err
	}

	total, err := s.counter.TotalRefills(ctx, customerID, packageID)
	if err != nil {
		return nil, err
	}

	split := ComputeSplit(total, quantity, sh.FreeRefillInterval, p.Price)
	return &split, nil
}

// ListEligible builds the free-refill eligibility report: per customer,
// the all-time refill total, the free refills earned from it, and the
// distance to the next one. Customers who have earned nothing yet appear
// only when requested by name; shops with a disabled program never appear.
func (s *Service) ListEligible(ctx context.Context, filter EligibilityFilter) ([]EligibleCustomer, error) {
	if filter.ShopID != nil {
		sh, err := s.shops.GetByID(ctx, *filter.ShopID)
		if err != nil {
			return nil, err
		}
		if !sh.LoyaltyEnabled() {
			return nil, nil
		}
	}

	rows, err := s.counter.RefillTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	var eligible []EligibleCustomer
	for _, row := range rows {
		if row.FreeRefillInterval <= 0 {
			continue
		}
		e := eligibilityFor(row)
		if e.EarnedFreeRefills == 0 && filter.CustomerID == nil {
			continue
		}
		eligible = append(eligible, e)
	}
	return eligible, nil
}

// NotifyEligible sends a free-refill-available SMS to every customer in
// the report and returns the recipient count. Delivery is best-effort.
func (s *Service) NotifyEligible(ctx context.Context, filter EligibilityFilter) (int, error) {
	eligible, err := s.ListEligible(ctx, filter)
	if err != nil {
		return 0, err
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	messages := make([]notify.Message, 0, len(eligible))
	for _, e := range eligible {
		if e.PhoneNumber == "" || e.EarnedFreeRefills == 0 {
			continue
		}
		messages = append(messages, notify.Message{
			PhoneNumber: e.PhoneNumber,
			Text:        notify.FreeRefillAvailable(e.CustomerName, ""),
		})
	}

	notify.Dispatch(ctx, s.notifier, messages)

	logger.Info(ctx, "eligible customers notified",
		"count", len(messages),
	)
	return len(messages), nil
}
