package sale

import (
	"context"
	"time"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/tx"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/inventory"
	"hamu/internal/domain/transactions/refill"
	"hamu/pkg/logger"
)

// RecordInput is the request to record a sale.
type RecordInput struct {
	CustomerID  *id.ID
	PackageID   id.ID
	Quantity    int
	PaymentMode refill.PaymentMode

	// Delivered is the delivery status/fee when the goods were delivered
	// on the spot; nil for over-the-counter purchases.
	Delivered *int

	SoldBy string
}

// RecordResult is the committed outcome of a sale.
type RecordResult struct {
	Transaction *Transaction        `json:"transaction"`
	Warnings    []inventory.Warning `json:"warnings,omitempty"`
}

// Service orchestrates sale recording: transaction insert and stock
// deduction run in one database transaction.
type Service struct {
	repo      Repository
	customers customer.Repository
	packages  packages.Repository
	engine    *inventory.Engine
	stock     *inventory.Service
	txm       tx.Manager
}

// NewService creates a sale service.
func NewService(
	repo Repository,
	customers customer.Repository,
	pkgs packages.Repository,
	engine *inventory.Engine,
	stock *inventory.Service,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		packages:  pkgs,
		engine:    engine,
		stock:     stock,
		txm:       txm,
	}
}

// Record books a sale. Sales never earn or redeem loyalty; the full
// quantity is charged at the package price. Missing stock items produce
// warnings, not failures.
func (s *Service) Record(ctx context.Context, input RecordInput) (*RecordResult, error) {
	if input.Quantity < 1 {
		return nil, apperror.NewInvalidQuantity(input.Quantity)
	}

	p, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}
	if p.SaleType != packages.SaleTypeSale {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"package is not a sale package").
			WithDetail("packageId", p.ID).
			WithDetail("saleType", string(p.SaleType))
	}

	if input.CustomerID != nil {
		cust, err := s.customers.GetByID(ctx, *input.CustomerID)
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

	var (
		result  RecordResult
		entries []inventory.LedgerEntry
	)

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		t := &Transaction{
			ID:          id.New(),
			ShopID:      p.ShopID,
			CustomerID:  input.CustomerID,
			PackageID:   p.ID,
			Quantity:    input.Quantity,
			Cost:        types.MulInt(p.Price, int64(input.Quantity)),
			PaymentMode: input.PaymentMode,
			Delivered:   input.Delivered,
			SoldBy:      input.SoldBy,
			CreatedAt:   time.Now().UTC(),
		}
		if err := t.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}

		deducted, warnings, err := s.engine.DeductForSale(ctx, p, input.Quantity, input.SoldBy)
		if err != nil {
			return err
		}

		result = RecordResult{Transaction: t, Warnings: warnings}
		entries = deducted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateLevels(ctx, entries)

	logger.Info(ctx, "sale recorded",
		"transaction_id", result.Transaction.ID,
		"shop_id", result.Transaction.ShopID,
		"quantity", result.Transaction.Quantity,
		"cost", result.Transaction.Cost,
		"warnings", len(result.Warnings),
	)
	return &result, nil
}

// MarkDelivered records that the goods reached the customer.
// deliveryFee 0 means delivered free of charge.
func (s *Service) MarkDelivered(ctx context.Context, txID id.ID, deliveryFee int) error {
	if deliveryFee < 0 {
		return apperror.NewValidation("delivery fee cannot be negative").
			WithDetail("field", "deliveryFee").
			WithDetail("value", deliveryFee)
	}
	return s.repo.UpdateDelivered(ctx, txID, deliveryFee)
}

// GetByID retrieves one sale transaction.
func (s *Service) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// List retrieves sale transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.List(ctx, filter)
}
