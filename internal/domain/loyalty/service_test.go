package loyalty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/notify"
)

type fakeShops struct{ shops map[id.ID]*shop.Shop }

func (f *fakeShops) Create(ctx context.Context, s *shop.Shop) error { return nil }
func (f *fakeShops) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	if s, ok := f.shops[shopID]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("shop", shopID)
}
func (f *fakeShops) List(ctx context.Context) ([]*shop.Shop, error) { return nil, nil }
func (f *fakeShops) Update(ctx context.Context, s *shop.Shop) error { return nil }
func (f *fakeShops) Delete(ctx context.Context, shopID id.ID) error { return nil }

type fakeCustomers struct{ customers map[id.ID]*customer.Customer }

func (f *fakeCustomers) Create(ctx context.Context, c *customer.Customer) error { return nil }
func (f *fakeCustomers) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	if c, ok := f.customers[customerID]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("customer", customerID)
}
func (f *fakeCustomers) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	return nil, nil
}
func (f *fakeCustomers) Update(ctx context.Context, c *customer.Customer) error { return nil }
func (f *fakeCustomers) Delete(ctx context.Context, customerID id.ID) error     { return nil }

type fakePackages struct{ pkgs map[id.ID]*packages.Package }

func (f *fakePackages) Create(ctx context.Context, p *packages.Package) error { return nil }
func (f *fakePackages) GetByID(ctx context.Context, packageID id.ID) (*packages.Package, error) {
	if p, ok := f.pkgs[packageID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("package", packageID)
}
func (f *fakePackages) List(ctx context.Context, filter packages.ListFilter) ([]*packages.Package, error) {
	return nil, nil
}
func (f *fakePackages) Update(ctx context.Context, p *packages.Package) error { return nil }
func (f *fakePackages) Delete(ctx context.Context, packageID id.ID) error     { return nil }

type fakeCounter struct {
	total int
	rows  []CustomerRefillTotal

	lastFilter EligibilityFilter
}

func (f *fakeCounter) TotalRefills(ctx context.Context, customerID, packageID id.ID) (int, error) {
	return f.total, nil
}

func (f *fakeCounter) RefillTotals(ctx context.Context, filter EligibilityFilter) ([]CustomerRefillTotal, error) {
	f.lastFilter = filter
	return f.rows, nil
}

type captureNotifier struct{ sent []notify.Message }

func (c *captureNotifier) Send(ctx context.Context, messages []notify.Message) error {
	c.sent = append(c.sent, messages...)
	return nil
}

type loyaltyFixture struct {
	svc      *Service
	counter  *fakeCounter
	notifier *captureNotifier
	shop     *shop.Shop
	cust     *customer.Customer
	pkg      *packages.Package
}

func newLoyaltyFixture(t *testing.T, interval int) *loyaltyFixture {
	t.Helper()

	sh := shop.NewShop("Test Branch", interval)
	cust := customer.NewCustomer(sh.ID, "Jane Wanjiku", "+254700111222")
	pkg := packages.NewPackage(sh.ID, packages.SaleTypeRefill,
		types.NewLiters(20), types.MustMoney("70"))
	pkg.Description = "20L refill"

	counter := &fakeCounter{}
	notifier := &captureNotifier{}

	svc := NewService(
		&fakeShops{shops: map[id.ID]*shop.Shop{sh.ID: sh}},
		&fakeCustomers{customers: map[id.ID]*customer.Customer{cust.ID: cust}},
		&fakePackages{pkgs: map[id.ID]*packages.Package{pkg.ID: pkg}},
		counter,
		notifier,
	)

	return &loyaltyFixture{svc: svc, counter: counter, notifier: notifier, shop: sh, cust: cust, pkg: pkg}
}

// totalRow builds a report input row for a customer of the fixture shop.
func (f *loyaltyFixture) totalRow(name, phone string, interval, total int) CustomerRefillTotal {
	return CustomerRefillTotal{
		CustomerID:         id.New(),
		CustomerName:       name,
		PhoneNumber:        phone,
		ShopID:             f.shop.ID,
		ShopName:           f.shop.Name,
		FreeRefillInterval: interval,
		TotalRefills:       total,
	}
}

func TestComputeSplitFor(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 10)
	f.counter.total = 9

	split, err := f.svc.ComputeSplitFor(ctx, f.cust.ID, f.pkg.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, split.FreeQuantity)
	assert.Equal(t, 0, split.PaidQuantity)
	assert.True(t, split.Cost.IsZero())
}

func TestComputeSplitForSalePackage(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 10)

	bt := packages.BottleDisposable
	salePkg := packages.NewPackage(f.shop.ID, packages.SaleTypeSale,
		types.MustLiters("1"), types.MustMoney("50"))
	salePkg.BottleType = &bt
	f.svc.packages.(*fakePackages).pkgs[salePkg.ID] = salePkg

	_, err := f.svc.ComputeSplitFor(ctx, f.cust.ID, salePkg.ID, 1)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestComputeSplitForShopMismatch(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 10)

	stranger := customer.NewCustomer(id.New(), "Bob Otieno", "+254700999888")
	f.svc.customers.(*fakeCustomers).customers[stranger.ID] = stranger

	_, err := f.svc.ComputeSplitFor(ctx, stranger.ID, f.pkg.ID, 1)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestListEligibleReportMath(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 8)
	f.counter.rows = []CustomerRefillTotal{
		f.totalRow("Jane Wanjiku", "+254700111222", 8, 10),
		f.totalRow("Bob Otieno", "+254700999888", 8, 7),
		f.totalRow("Carol Njeri", "+254700333444", 8, 16),
	}

	eligible, err := f.svc.ListEligible(ctx, EligibilityFilter{ShopID: &f.shop.ID})

	require.NoError(t, err)
	require.Len(t, eligible, 2, "earned nothing yet, not in the report")

	jane := eligible[0]
	assert.Equal(t, "Jane Wanjiku", jane.CustomerName)
	assert.Equal(t, 10, jane.TotalRefills)
	assert.Equal(t, 1, jane.EarnedFreeRefills)
	assert.Equal(t, 2, jane.RefillsSinceLastFree)
	assert.Equal(t, 6, jane.RefillsUntilNextFree)

	carol := eligible[1]
	assert.Equal(t, 2, carol.EarnedFreeRefills)
	assert.Equal(t, 0, carol.RefillsSinceLastFree)
	assert.Equal(t, 8, carol.RefillsUntilNextFree)
}

func TestListEligibleNamedCustomerBeforeFirstFree(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 8)

	row := f.totalRow("Bob Otieno", "+254700999888", 8, 7)
	f.counter.rows = []CustomerRefillTotal{row}

	eligible, err := f.svc.ListEligible(ctx, EligibilityFilter{CustomerID: &row.CustomerID})

	require.NoError(t, err)
	require.Len(t, eligible, 1, "named customers appear even with nothing earned")
	assert.Equal(t, 0, eligible[0].EarnedFreeRefills)
	assert.Equal(t, 7, eligible[0].RefillsSinceLastFree)
	assert.Equal(t, 1, eligible[0].RefillsUntilNextFree)

	require.NotNil(t, f.counter.lastFilter.CustomerID)
	assert.Equal(t, row.CustomerID, *f.counter.lastFilter.CustomerID)
}

func TestListEligibleDisabledProgram(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 0)
	f.counter.rows = []CustomerRefillTotal{f.totalRow("ghost", "", 0, 50)}

	eligible, err := f.svc.ListEligible(ctx, EligibilityFilter{ShopID: &f.shop.ID})

	require.NoError(t, err)
	assert.Empty(t, eligible, "disabled program never reports eligibility")
}

func TestListEligibleSkipsDisabledShopRows(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 8)
	f.counter.rows = []CustomerRefillTotal{
		f.totalRow("Jane Wanjiku", "+254700111222", 8, 10),
		f.totalRow("ghost", "+254700000000", 0, 50),
	}

	eligible, err := f.svc.ListEligible(ctx, EligibilityFilter{})

	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "Jane Wanjiku", eligible[0].CustomerName)
}

func TestNotifyEligible(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 8)
	f.counter.rows = []CustomerRefillTotal{
		f.totalRow("Jane Wanjiku", "+254700111222", 8, 10),
		f.totalRow("No Phone", "", 8, 9),
		f.totalRow("Carol Njeri", "+254700333444", 8, 16),
	}

	count, err := f.svc.NotifyEligible(ctx, EligibilityFilter{ShopID: &f.shop.ID})

	require.NoError(t, err)
	assert.Equal(t, 2, count, "phoneless customers skipped")
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "+254700111222", f.notifier.sent[0].PhoneNumber)
	assert.Contains(t, f.notifier.sent[0].Text, "FREE refill")
	assert.Contains(t, f.notifier.sent[1].Text, "Carol Njeri")
}

func TestNotifyEligibleNobodyDue(t *testing.T) {
	ctx := context.Background()
	f := newLoyaltyFixture(t, 8)

	count, err := f.svc.NotifyEligible(ctx, EligibilityFilter{ShopID: &f.shop.ID})

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.notifier.sent)
}
