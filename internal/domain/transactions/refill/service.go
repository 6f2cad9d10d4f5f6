package refill

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/tx"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/inventory"
	"hamu/internal/domain/loyalty"
	"hamu/internal/domain/notify"
	"hamu/pkg/logger"
)

// RecordInput is the request to record a refill purchase.
type RecordInput struct {
	// CustomerID nil means an anonymous walk-in: no loyalty, no SMS.
	CustomerID *id.ID
	PackageID  id.ID
	Quantity   int

	// PaymentMode is how the paid portion was settled. Overridden to
	// FREE when loyalty covers the whole purchase.
	PaymentMode PaymentMode

	// Delivered is the delivery status/fee when the refill was delivered
	// on the spot; nil for over-the-counter purchases.
	Delivered *int

	ServedBy string
}

// RecordResult is the committed outcome of a refill purchase.
type RecordResult struct {
	Transaction *Transaction        `json:"transaction"`
	Split       loyalty.Split       `json:"split"`
	Warnings    []inventory.Warning `json:"warnings,omitempty"`
}

// Service orchestrates refill recording: loyalty split, transaction
// insert, and stock deduction run in one database transaction; customer
// notifications go out after commit.
type Service struct {
	repo      Repository
	shops     shop.Repository
	customers customer.Repository
	packages  packages.Repository
	engine    *inventory.Engine
	stock     *inventory.Service
	txm       tx.Manager
	notifier  notify.Notifier
}

// NewService creates a refill service.
func NewService(
	repo Repository,
	shops shop.Repository,
	customers customer.Repository,
	pkgs packages.Repository,
	engine *inventory.Engine,
	stock *inventory.Service,
	txm tx.Manager,
	notifier notify.Notifier,
) *Service {
	return &Service{
		repo:      repo,
		shops:     shops,
		customers: customers,
		packages:  pkgs,
		engine:    engine,
		stock:     stock,
		txm:       txm,
		notifier:  notifier,
	}
}

// Record books a refill purchase.
//
// The loyalty counter is read and the transaction row written atomically,
// so two concurrent refills for the same customer cannot both claim the
// same free milestone. Deduction warnings (shop does not stock a
// consumable) are returned, not raised.
func (s *Service) Record(ctx context.Context, input RecordInput) (*RecordResult, error) {
	if input.Quantity < 1 {
		return nil, apperror.NewInvalidQuantity(input.Quantity)
	}
	if !ValidPaymentMode(input.PaymentMode) {
		return nil, apperror.NewValidation("invalid payment mode").
			WithDetail("field", "paymentMode").
			WithDetail("value", string(input.PaymentMode))
	}

	p, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}
	if p.SaleType != packages.SaleTypeRefill {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"package is not a refill package").
			WithDetail("packageId", p.ID).
			WithDetail("saleType", string(p.SaleType))
	}

	var cust *customer.Customer
	if input.CustomerID != nil {
		cust, err = s.customers.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if cust.ShopID != p.ShopID {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"customer and package belong to different shops").
				WithDetail("customerShopId", cust.ShopID).
				WithDetail("packageShopId", p.ShopID)
		}
	}

	sh, err := s.shops.GetByID(ctx, p.ShopID)
	if err != nil {
		return nil, err
	}

	var (
		result  RecordResult
		entries []inventory.LedgerEntry
	)

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		split := loyalty.ComputeSplit(0, input.Quantity, 0, p.Price)
		if cust != nil {
			total, err := s.repo.TotalRefills(ctx, cust.ID, p.ID)
			if err != nil {
				return err
			}
			split = loyalty.ComputeSplit(total, input.Quantity, sh.FreeRefillInterval, p.Price)
		}

		mode := input.PaymentMode
		if split.PaidQuantity == 0 {
			mode = PaymentFree
		}

		t := &Transaction{
			ID:                 id.New(),
			ShopID:             p.ShopID,
			CustomerID:         input.CustomerID,
			PackageID:          p.ID,
			Quantity:           input.Quantity,
			FreeQuantity:       split.FreeQuantity,
			PaidQuantity:       split.PaidQuantity,
			Cost:               split.Cost,
			PaymentMode:        mode,
			LoyaltyRefillCount: input.Quantity,
			Delivered:          input.Delivered,
			ServedBy:           input.ServedBy,
			CreatedAt:          time.Now().UTC(),
		}
		if err := t.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}

		deducted, warnings, err := s.engine.DeductForRefill(ctx, p, input.Quantity, input.ServedBy)
		if err != nil {
			return err
		}

		result = RecordResult{Transaction: t, Split: split, Warnings: warnings}
		entries = deducted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateLevels(ctx, entries)
	s.notifyAfterCommit(ctx, cust, result)

	logger.Info(ctx, "refill recorded",
		"transaction_id", result.Transaction.ID,
		"shop_id", result.Transaction.ShopID,
		"quantity", result.Transaction.Quantity,
		"free_quantity", result.Transaction.FreeQuantity,
		"cost", result.Transaction.Cost,
		"warnings", len(result.Warnings),
	)
	return &result, nil
}

// notifyAfterCommit sends the loyalty SMS for a committed refill:
// a thank-you when free units were granted, or a heads-up when the next
// refill will be free.
func (s *Service) notifyAfterCommit(ctx context.Context, cust *customer.Customer, result RecordResult) {
	if cust == nil || cust.PhoneNumber == "" {
		return
	}

	var text string
	switch {
	case result.Split.FreeQuantity > 0:
		text = notify.FreeRefillThanks(cust.Name, result.Split.FreeQuantity)
	case result.Split.RefillsUntilNextFree == 1:
		text = notify.AlmostFree(cust.Name)
	default:
		return
	}

	notify.Dispatch(ctx, s.notifier, []notify.Message{
		{PhoneNumber: cust.PhoneNumber, Text: text},
	})
}

// MarkDelivered records that the purchase reached the customer.
// deliveryFee 0 means delivered free of charge.
func (s *Service) MarkDelivered(ctx context.Context, txID id.ID, deliveryFee int) error {
	if deliveryFee < 0 {
		return apperror.NewValidation("delivery fee cannot be negative").
			WithDetail("field", "deliveryFee").
			WithDetail("value", deliveryFee)
	}
	return s.repo.UpdateDelivered(ctx, txID, deliveryFee)
}

// GetByID retrieves one refill transaction.
func (s *Service) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// List retrieves refill transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.List(ctx, filter)
}
