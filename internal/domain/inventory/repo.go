package inventory

import (
	"context"

	"hamu/internal/core/id"
)

// Repository defines persistence for inventory items and the stock ledger.
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItemByID(ctx context.Context, itemID id.ID) (*Item, error)

	// FindItem looks up the unique item for (shop, category, subtype).
	// Returns apperror.NewNotFound when the shop does not stock it.
	FindItem(ctx context.Context, shopID id.ID, category Category, subtype string) (*Item, error)

	ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error

	// DeleteItem removes an item that has no ledger entries.
	// Returns apperror.NewProtected when entries reference it.
	DeleteItem(ctx context.Context, itemID id.ID) error

	// AppendEntries inserts ledger entries. Entries are immutable after insert.
	AppendEntries(ctx context.Context, entries []LedgerEntry) error

	// CurrentLevel sums the ledger for an item. The result can be negative.
	CurrentLevel(ctx context.Context, itemID id.ID) (int, error)

	// CurrentLevelForUpdate locks the item row before summing, serializing
	// concurrent check-then-deduct sequences on the same item. Must be
	// called inside a transaction.
	CurrentLevelForUpdate(ctx context.Context, itemID id.ID) (int, error)

	ListEntries(ctx context.Context, filter EntryFilter) ([]*LedgerEntry, error)
}

// ItemFilter narrows item listings.
type ItemFilter struct {
	ShopID   *id.ID
	Category *Category
	Limit    int
	Offset   int
}

// EntryFilter narrows ledger listings. Entries come back newest first.
type EntryFilter struct {
	ShopID *id.ID
	ItemID *id.ID
	Limit  int
	Offset int
}
