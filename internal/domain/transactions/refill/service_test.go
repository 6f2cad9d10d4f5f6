package refill

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/inventory"
	"hamu/internal/domain/loyalty"
	"hamu/internal/domain/notify"
)

// --- fakes ---

type passthroughTxm struct{}

func (passthroughTxm) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	created []*Transaction
	// totals seeds TotalRefills per "customerID/packageID" before the
	// recorded transaction lands.
	totals map[string]int

	delivered map[id.ID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		totals:    make(map[string]int),
		delivered: make(map[id.ID]int),
	}
}

func totalsKey(customerID, packageID id.ID) string {
	return fmt.Sprintf("%s/%s", customerID, packageID)
}

func (f *fakeRepo) Create(ctx context.Context, t *Transaction) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	for _, t := range f.created {
		if t.ID == txID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("refill transaction", txID)
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return f.created, nil
}

func (f *fakeRepo) TotalRefills(ctx context.Context, customerID, packageID id.ID) (int, error) {
	return f.totals[totalsKey(customerID, packageID)], nil
}

func (f *fakeRepo) RefillTotals(ctx context.Context, filter loyalty.EligibilityFilter) ([]loyalty.CustomerRefillTotal, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateDelivered(ctx context.Context, txID id.ID, delivered int) error {
	if _, err := f.GetByID(ctx, txID); err != nil {
		return err
	}
	f.delivered[txID] = delivered
	return nil
}

type fakeShops struct{ shops map[id.ID]*shop.Shop }

func (f *fakeShops) Create(ctx context.Context, s *shop.Shop) error { return nil }
func (f *fakeShops) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	if s, ok := f.shops[shopID]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("shop", shopID)
}
func (f *fakeShops) List(ctx context.Context) ([]*shop.Shop, error)    { return nil, nil }
func (f *fakeShops) Update(ctx context.Context, s *shop.Shop) error    { return nil }
func (f *fakeShops) Delete(ctx context.Context, shopID id.ID) error    { return nil }

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

// fakeStockRepo backs the deduction engine with in-memory items.
type fakeStockRepo struct {
	items   map[string]*inventory.Item
	entries []inventory.LedgerEntry
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[string]*inventory.Item)}
}

func (f *fakeStockRepo) addItem(t *testing.T, shopID id.ID, category inventory.Category, subtype string) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(shopID, category, subtype)
	require.NoError(t, err)
	f.items[fmt.Sprintf("%s/%s/%s", shopID, category, subtype)] = item
	return item
}

func (f *fakeStockRepo) CreateItem(ctx context.Context, item *inventory.Item) error { return nil }

func (f *fakeStockRepo) GetItemByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	for _, item := range f.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("inventory item", itemID)
}

func (f *fakeStockRepo) FindItem(ctx context.Context, shopID id.ID, category inventory.Category, subtype string) (*inventory.Item, error) {
	if item, ok := f.items[fmt.Sprintf("%s/%s/%s", shopID, category, subtype)]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("inventory item", fmt.Sprintf("%s/%s", category, subtype))
}

func (f *fakeStockRepo) ListItems(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	return nil, nil
}

func (f *fakeStockRepo) UpdateItem(ctx context.Context, item *inventory.Item) error { return nil }
func (f *fakeStockRepo) DeleteItem(ctx context.Context, itemID id.ID) error         { return nil }

func (f *fakeStockRepo) AppendEntries(ctx context.Context, entries []inventory.LedgerEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeStockRepo) CurrentLevel(ctx context.Context, itemID id.ID) (int, error) {
	level := 0
	for _, e := range f.entries {
		if e.ItemID == itemID {
			level += e.QuantityChange
		}
	}
	return level, nil
}

func (f *fakeStockRepo) CurrentLevelForUpdate(ctx context.Context, itemID id.ID) (int, error) {
	return f.CurrentLevel(ctx, itemID)
}

func (f *fakeStockRepo) ListEntries(ctx context.Context, filter inventory.EntryFilter) ([]*inventory.LedgerEntry, error) {
	return nil, nil
}

type captureNotifier struct {
	sent []notify.Message
}

func (c *captureNotifier) Send(ctx context.Context, messages []notify.Message) error {
	c.sent = append(c.sent, messages...)
	return nil
}

// --- fixture ---

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	stock    *fakeStockRepo
	notifier *captureNotifier

	shop *shop.Shop
	cust *customer.Customer
	pkg  *packages.Package
}

func newFixture(t *testing.T, interval int) *fixture {
	t.Helper()

	sh := shop.NewShop("Test Branch", interval)
	cust := customer.NewCustomer(sh.ID, "Jane Wanjiku", "+254700111222")
	pkg := packages.NewPackage(sh.ID, packages.SaleTypeRefill,
		types.NewLiters(20), types.MustMoney("70"))

	repo := newFakeRepo()
	stockRepo := newFakeStockRepo()
	stockRepo.addItem(t, sh.ID, inventory.CategoryCap, inventory.SubtypeCap1020L)
	stockRepo.addItem(t, sh.ID, inventory.CategoryLabel, "20L")

	engine := inventory.NewEngine(stockRepo)
	stockSvc := inventory.NewService(stockRepo, passthroughTxm{}, engine, nil)
	notifier := &captureNotifier{}

	svc := NewService(
		repo,
		&fakeShops{shops: map[id.ID]*shop.Shop{sh.ID: sh}},
		&fakeCustomers{customers: map[id.ID]*customer.Customer{cust.ID: cust}},
		&fakePackages{pkgs: map[id.ID]*packages.Package{pkg.ID: pkg}},
		engine,
		stockSvc,
		passthroughTxm{},
		notifier,
	)

	return &fixture{
		svc:      svc,
		repo:     repo,
		stock:    stockRepo,
		notifier: notifier,
		shop:     sh,
		cust:     cust,
		pkg:      pkg,
	}
}

// --- tests ---

func TestRecordPlainPaidRefill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentMpesa,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	tx := result.Transaction
	assert.Equal(t, 1, tx.Quantity)
	assert.Equal(t, 0, tx.FreeQuantity)
	assert.Equal(t, 1, tx.PaidQuantity)
	assert.Equal(t, PaymentMpesa, tx.PaymentMode)
	assert.Equal(t, 1, tx.LoyaltyRefillCount)
	assert.True(t, tx.Cost.Equal(types.MustMoney("70")))

	assert.Empty(t, result.Warnings)
	assert.Len(t, f.stock.entries, 2, "cap and label deducted")
	assert.Empty(t, f.notifier.sent, "no milestone, no sms")
}

func TestRecordMilestoneRefillIsFree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.repo.totals[totalsKey(f.cust.ID, f.pkg.ID)] = 9

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	tx := result.Transaction
	assert.Equal(t, 1, tx.FreeQuantity)
	assert.Equal(t, 0, tx.PaidQuantity)
	assert.Equal(t, PaymentFree, tx.PaymentMode, "mode overridden when fully free")
	assert.True(t, tx.Cost.IsZero())
	assert.True(t, tx.IsFree())

	require.Len(t, f.notifier.sent, 1)
	msg := f.notifier.sent[0]
	assert.Equal(t, f.cust.PhoneNumber, msg.PhoneNumber)
	assert.Contains(t, msg.Text, "FREE")
	assert.Contains(t, msg.Text, f.cust.Name)
}

func TestRecordOneAwayFromMilestone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.repo.totals[totalsKey(f.cust.ID, f.pkg.ID)] = 7

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    2,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Split.RefillsUntilNextFree)

	require.Len(t, f.notifier.sent, 1)
	assert.True(t, strings.Contains(f.notifier.sent[0].Text, "NEXT refill"), "almost-free nudge")
}

func TestRecordBulkPartiallyFree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.repo.totals[totalsKey(f.cust.ID, f.pkg.ID)] = 7

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    5,
		PaymentMode: PaymentMpesa,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	tx := result.Transaction
	assert.Equal(t, 1, tx.FreeQuantity)
	assert.Equal(t, 4, tx.PaidQuantity)
	assert.Equal(t, PaymentMpesa, tx.PaymentMode, "mode kept when partially paid")
	assert.True(t, tx.Cost.Equal(types.MustMoney("280")))
	assert.True(t, tx.IsPartiallyFree())
}

func TestRecordAnonymousWalkIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	result, err := f.svc.Record(ctx, RecordInput{
		PackageID:   f.pkg.ID,
		Quantity:    3,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	tx := result.Transaction
	assert.Nil(t, tx.CustomerID)
	assert.Equal(t, 0, tx.FreeQuantity, "anonymous never earns loyalty")
	assert.Equal(t, 3, tx.PaidQuantity)
	assert.Empty(t, f.notifier.sent)
}

func TestRecordLoyaltyDisabledShop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	f.repo.totals[totalsKey(f.cust.ID, f.pkg.ID)] = 99

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Transaction.FreeQuantity)
	assert.Empty(t, f.notifier.sent)
}

func TestRecordRejectsSalePackage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	bt := packages.BottleDisposable
	salePkg := packages.NewPackage(f.shop.ID, packages.SaleTypeSale,
		types.MustLiters("0.5"), types.MustMoney("25"))
	salePkg.BottleType = &bt
	f.svcPackages()[salePkg.ID] = salePkg

	_, err := f.svc.Record(ctx, RecordInput{
		PackageID:   salePkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Empty(t, f.repo.created)
}

func TestRecordRejectsZeroQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	_, err := f.svc.Record(ctx, RecordInput{
		PackageID:   f.pkg.ID,
		Quantity:    0,
		PaymentMode: PaymentCash,
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
}

func TestRecordRejectsInvalidPaymentMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	_, err := f.svc.Record(ctx, RecordInput{
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentMode("BARTER"),
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordCustomerFromOtherShop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	stranger := customer.NewCustomer(id.New(), "Bob Otieno", "+254700999888")
	f.svcCustomers()[stranger.ID] = stranger

	_, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &stranger.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRecordWithDeliveryFee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	fee := 50
	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentMpesa,
		Delivered:   &fee,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	require.NotNil(t, result.Transaction.Delivered)
	assert.Equal(t, 50, *result.Transaction.Delivered)
}

func TestRecordNotDeliveredStaysNil(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Transaction.Delivered, "over-the-counter refill has no delivery status")
}

func TestMarkDelivered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	result, err := f.svc.Record(ctx, RecordInput{
		CustomerID:  &f.cust.ID,
		PackageID:   f.pkg.ID,
		Quantity:    1,
		PaymentMode: PaymentCash,
		ServedBy:    "alice",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkDelivered(ctx, result.Transaction.ID, 0))
	assert.Equal(t, 0, f.repo.delivered[result.Transaction.ID], "zero fee means delivered free")
}

func TestMarkDeliveredRejectsNegativeFee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	err := f.svc.MarkDelivered(ctx, id.New(), -1)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// svcPackages exposes the package fixture map for extra test packages.
func (f *fixture) svcPackages() map[id.ID]*packages.Package {
	return f.svc.packages.(*fakePackages).pkgs
}

func (f *fixture) svcCustomers() map[id.ID]*customer.Customer {
	return f.svc.customers.(*fakeCustomers).customers
}
