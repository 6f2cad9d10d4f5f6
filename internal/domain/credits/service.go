package credits

import (
	"context"
	"time"

	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/transactions/refill"
	"hamu/pkg/logger"
)

// RecordInput is the request to record a credit top-up. The shop is
// derived from the customer, so a payment can never land on the wrong
// shop's books.
type RecordInput struct {
	CustomerID  id.ID
	MoneyPaid   types.Money
	PaymentMode refill.PaymentMode

	// PaymentDate zero means "now".
	PaymentDate time.Time

	AgentName string
}

// Service manages credit payments and the customer balance report.
type Service struct {
	repo      Repository
	customers customer.Repository
}

// NewService creates a credits service.
func NewService(repo Repository, customers customer.Repository) *Service {
	return &Service{repo: repo, customers: customers}
}

// Record books a credit top-up for a customer.
func (s *Service) Record(ctx context.Context, input RecordInput) (*Payment, error) {
	cust, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	p := &Payment{
		ID:          id.New(),
		ShopID:      cust.ShopID,
		CustomerID:  cust.ID,
		MoneyPaid:   input.MoneyPaid,
		PaymentMode: input.PaymentMode,
		PaymentDate: paymentDate,
		AgentName:   input.AgentName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "credit payment recorded",
		"payment_id", p.ID,
		"customer_id", p.CustomerID,
		"shop_id", p.ShopID,
		"money_paid", p.MoneyPaid,
	)
	return p, nil
}

// GetByID retrieves one credit payment.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// List retrieves credit payments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return s.repo.List(ctx, filter)
}

// Balances reports each customer's remaining credit: total paid in,
// minus everything spent on refills and sales settled with the CREDIT
// payment mode. Negative balances mean the customer owes the shop.
func (s *Service) Balances(ctx context.Context, filter BalanceFilter) ([]CustomerBalance, error) {
	rows, err := s.repo.Balances(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Balance = rows[i].TotalCredit.Sub(rows[i].TotalSpent)
	}
	return rows, nil
}
