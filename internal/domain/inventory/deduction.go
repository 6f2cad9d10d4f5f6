package inventory

import (
	"context"
	"fmt"

	"hamu/internal/core/apperror"
	"hamu/internal/core/id"
	"hamu/internal/domain/catalogs/packages"
	"hamu/pkg/logger"
)

// Warning reports a non-fatal gap hit during deduction: the shop does not
// stock an item the engine wanted to deduct. The triggering transaction
// still commits; the warning surfaces in the API response.
type Warning struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
	Subtype  string   `json:"subtype"`
}

const warnUnresolvedInventory = "UNRESOLVED_INVENTORY"

func unresolvedWarning(category Category, subtype string) Warning {
	return Warning{
		Code:     warnUnresolvedInventory,
		Message:  fmt.Sprintf("shop does not stock %s / %s, deduction skipped", category, subtype),
		Category: category,
		Subtype:  subtype,
	}
}

// Engine translates business events into stock ledger movements.
//
// Sales and refills tolerate missing items (deduction skipped with a
// warning). Bundle creation is strict: missing components or insufficient
// stock abort the whole transaction.
type Engine struct {
	repo Repository
}

// NewEngine creates a deduction engine.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// deduct appends one negative ledger entry for (category, subtype) if the
// shop stocks it, and returns a warning otherwise.
func (e *Engine) deduct(
	ctx context.Context,
	shopID id.ID,
	category Category,
	subtype string,
	quantity int,
	note, actor string,
) (*LedgerEntry, *Warning, error) {
	item, err := e.repo.FindItem(ctx, shopID, category, subtype)
	if err != nil {
		if apperror.IsNotFound(err) {
			w := unresolvedWarning(category, subtype)
			logger.Warn(ctx, "deduction skipped, item not stocked",
				"shop_id", shopID,
				"category", category,
				"subtype", subtype,
			)
			return nil, &w, nil
		}
		return nil, nil, err
	}

	entry := NewLedgerEntry(item, -quantity, note, actor)
	if err := e.repo.AppendEntries(ctx, []LedgerEntry{entry}); err != nil {
		return nil, nil, err
	}
	return &entry, nil, nil
}

// DeductForSale deducts the physical goods handed over on a sale.
//
// Bundle packages deduct quantity finished Water Bundle units; the bundle
// subtype is parsed from the package description, and an unparseable
// description is a silent no-op. Non-bundle sales deduct bottles (the hard
// 20L variant when the package's bottle type is HARD at 20L) plus a label
// for the standard 5/10/20 liter sizes.
func (e *Engine) DeductForSale(
	ctx context.Context,
	p *packages.Package,
	quantity int,
	actor string,
) ([]LedgerEntry, []Warning, error) {
	if p.IsBundle() {
		subtype := ParseBundleSubtype(p.Description)
		if subtype == "" {
			logger.Warn(ctx, "unknown bundle description, no deduction",
				"package_id", p.ID,
				"description", p.Description,
			)
			return nil, nil, nil
		}

		note := fmt.Sprintf("Auto-deducted for Bundle Sale: %s x%d", subtype, quantity)
		entry, warning, err := e.deduct(ctx, p.ShopID, CategoryWaterBundle, subtype, quantity, note, actor)
		if err != nil {
			return nil, nil, err
		}
		if warning != nil {
			return nil, []Warning{*warning}, nil
		}
		return []LedgerEntry{*entry}, nil, nil
	}

	var (
		entries  []LedgerEntry
		warnings []Warning
	)

	bottleSubtype := fmt.Sprintf("%sL", p.WaterAmount)
	if liters, ok := p.WaterLiters(); ok && liters == 20 &&
		p.BottleType != nil && *p.BottleType == packages.BottleHard {
		bottleSubtype = SubtypeBottle20LHard
	}

	note := fmt.Sprintf("Auto-deducted for Sale: %s x%d", bottleSubtype, quantity)
	entry, warning, err := e.deduct(ctx, p.ShopID, CategoryBottle, bottleSubtype, quantity, note, actor)
	if err != nil {
		return nil, nil, err
	}
	if warning != nil {
		warnings = append(warnings, *warning)
	} else {
		entries = append(entries, *entry)
	}

	labelEntries, labelWarnings, err := e.deductLabel(ctx, p, quantity, actor)
	if err != nil {
		return nil, nil, err
	}
	entries = append(entries, labelEntries...)
	warnings = append(warnings, labelWarnings...)

	return entries, warnings, nil
}

// DeductForRefill deducts consumables used when refilling customer bottles:
// a cap for the 10/20 liter sizes and a label for the 5/10/20 liter sizes.
func (e *Engine) DeductForRefill(
	ctx context.Context,
	p *packages.Package,
	quantity int,
	actor string,
) ([]LedgerEntry, []Warning, error) {
	var (
		entries  []LedgerEntry
		warnings []Warning
	)

	if liters, ok := p.WaterLiters(); ok && (liters == 10 || liters == 20) {
		note := fmt.Sprintf("Auto-deducted for Refill: %dL cap x%d", liters, quantity)
		entry, warning, err := e.deduct(ctx, p.ShopID, CategoryCap, SubtypeCap1020L, quantity, note, actor)
		if err != nil {
			return nil, nil, err
		}
		if warning != nil {
			warnings = append(warnings, *warning)
		} else {
			entries = append(entries, *entry)
		}
	}

	labelEntries, labelWarnings, err := e.deductLabel(ctx, p, quantity, actor)
	if err != nil {
		return nil, nil, err
	}
	entries = append(entries, labelEntries...)
	warnings = append(warnings, labelWarnings...)

	return entries, warnings, nil
}

func (e *Engine) deductLabel(
	ctx context.Context,
	p *packages.Package,
	quantity int,
	actor string,
) ([]LedgerEntry, []Warning, error) {
	liters, ok := p.WaterLiters()
	if !ok || (liters != 5 && liters != 10 && liters != 20) {
		return nil, nil, nil
	}

	subtype := fmt.Sprintf("%dL", liters)
	note := fmt.Sprintf("Auto-deducted label: %s x%d", subtype, quantity)
	entry, warning, err := e.deduct(ctx, p.ShopID, CategoryLabel, subtype, quantity, note, actor)
	if err != nil {
		return nil, nil, err
	}
	if warning != nil {
		return nil, []Warning{*warning}, nil
	}
	return []LedgerEntry{*entry}, nil, nil
}

// ExpandBundleCreation consumes the components for manufacturing water
// bundles: per bundle, the recipe's bottle count plus one shrink wrap.
//
// Unlike sales and refills this path is strict. Both component items must
// exist and hold enough stock; component levels are read under row locks so
// concurrent creations cannot both pass the check. On any failure the
// caller's transaction must roll back, taking the triggering positive
// bundle entry with it.
func (e *Engine) ExpandBundleCreation(
	ctx context.Context,
	bundleItem *Item,
	quantity int,
	actor string,
) ([]LedgerEntry, error) {
	recipe, ok := RecipeFor(bundleItem.Subtype)
	if !ok {
		return nil, nil
	}

	bottlesNeeded := recipe.BottlesPerBundle * quantity
	wrapsNeeded := quantity

	bottleItem, err := e.requireComponent(ctx, bundleItem.ShopID,
		CategoryBottle, recipe.BottleSubtype, bottlesNeeded)
	if err != nil {
		return nil, err
	}

	wrapItem, err := e.requireComponent(ctx, bundleItem.ShopID,
		CategoryShrinkWrap, bundleItem.Subtype, wrapsNeeded)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Auto-deducted for Water Bundle creation: %s x%d", bundleItem.Subtype, quantity)
	entries := []LedgerEntry{
		NewLedgerEntry(bottleItem, -bottlesNeeded, note, actor),
		NewLedgerEntry(wrapItem, -wrapsNeeded, note, actor),
	}
	if err := e.repo.AppendEntries(ctx, entries); err != nil {
		return nil, err
	}

	logger.Info(ctx, "bundle components deducted",
		"shop_id", bundleItem.ShopID,
		"bundle_subtype", bundleItem.Subtype,
		"bundles", quantity,
		"bottles", bottlesNeeded,
		"wraps", wrapsNeeded,
	)
	return entries, nil
}

// requireComponent resolves a component item and verifies its locked level
// covers the requested amount.
func (e *Engine) requireComponent(
	ctx context.Context,
	shopID id.ID,
	category Category,
	subtype string,
	needed int,
) (*Item, error) {
	item, err := e.repo.FindItem(ctx, shopID, category, subtype)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewInsufficientStock(string(category), subtype, needed, 0).
				WithDetail("reason", "item not stocked")
		}
		return nil, err
	}

	level, err := e.repo.CurrentLevelForUpdate(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if level < needed {
		return nil, apperror.NewInsufficientStock(string(category), subtype, needed, level)
	}
	return item, nil
}
