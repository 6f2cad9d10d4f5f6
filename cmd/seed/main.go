// Package main seeds a development database with a demo shop, its
// standard package catalog, and the full inventory item set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"hamu/internal/core/apperror"
	"hamu/internal/core/types"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/inventory"
	"hamu/internal/infrastructure/storage/postgres"
	"hamu/internal/infrastructure/storage/postgres/catalog_repo"
	"hamu/internal/infrastructure/storage/postgres/inventory_repo"
	"hamu/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	shopRepo := catalog_repo.NewShopRepo(txm)
	packageRepo := catalog_repo.NewPackageRepo(txm)
	inventoryRepo := inventory_repo.NewRepo(txm)

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		s := shop.NewShop("Hamu Water Main Branch", 10)
		s.PhoneNumber = "+254700000000"
		if err := shopRepo.Create(ctx, s); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
				log.Info("demo shop already exists, nothing to do")
				return nil
			}
			return err
		}

		if err := seedPackages(ctx, packageRepo, s); err != nil {
			return err
		}
		if err := seedInventory(ctx, inventoryRepo, s); err != nil {
			return err
		}

		log.Infow("demo shop seeded", "shop_id", s.ID, "name", s.Name)
		return nil
	})
	if err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
}

func seedPackages(ctx context.Context, repo *catalog_repo.PackageRepo, s *shop.Shop) error {
	bt := func(t packages.BottleType) *packages.BottleType { return &t }

	seed := []*packages.Package{
		// Refill services
		refillPkg(s, 5, "20", "5L refill"),
		refillPkg(s, 10, "40", "10L refill"),
		refillPkg(s, 20, "70", "20L refill"),
	}

	sales := []struct {
		liters      string
		price       string
		bottleType  *packages.BottleType
		description string
	}{
		{"0.5", "25", bt(packages.BottleDisposable), "0.5L bottled water"},
		{"1", "50", bt(packages.BottleDisposable), "1L bottled water"},
		{"1.5", "70", bt(packages.BottleDisposable), "1.5L bottled water"},
		{"20", "450", bt(packages.BottleHard), "20L hard bottle with water"},
		{"12", "550", bt(packages.BottleBundle), "Water bundle 12x1L"},
		{"12", "500", bt(packages.BottleBundle), "Water bundle 24x0.5L"},
		{"12", "520", bt(packages.BottleBundle), "Water bundle 8x1.5L"},
	}
	for _, sp := range sales {
		p := packages.NewPackage(s.ID, packages.SaleTypeSale,
			types.MustLiters(sp.liters), types.MustMoney(sp.price))
		p.BottleType = sp.bottleType
		p.Description = sp.description
		seed = append(seed, p)
	}

	for _, p := range seed {
		if err := p.Validate(ctx); err != nil {
			return err
		}
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func refillPkg(s *shop.Shop, liters int64, price, description string) *packages.Package {
	p := packages.NewPackage(s.ID, packages.SaleTypeRefill,
		types.NewLiters(liters), types.MustMoney(price))
	p.Description = description
	return p
}

func seedInventory(ctx context.Context, repo *inventory_repo.Repo, s *shop.Shop) error {
	items := []struct {
		category inventory.Category
		subtype  string
	}{
		{inventory.CategoryBottle, "0.5L"},
		{inventory.CategoryBottle, "1L"},
		{inventory.CategoryBottle, "1.5L"},
		{inventory.CategoryBottle, "2L"},
		{inventory.CategoryBottle, "5L"},
		{inventory.CategoryBottle, "10L"},
		{inventory.CategoryBottle, "20L"},
		{inventory.CategoryBottle, inventory.SubtypeBottle20LHard},
		{inventory.CategoryCap, inventory.SubtypeCap1020L},
		{inventory.CategoryLabel, "5L"},
		{inventory.CategoryLabel, "10L"},
		{inventory.CategoryLabel, "20L"},
		{inventory.CategoryShrinkWrap, inventory.SubtypeBundle12x1L},
		{inventory.CategoryShrinkWrap, inventory.SubtypeBundle24x05L},
		{inventory.CategoryShrinkWrap, inventory.SubtypeBundle8x15L},
		{inventory.CategoryWaterBundle, inventory.SubtypeBundle12x1L},
		{inventory.CategoryWaterBundle, inventory.SubtypeBundle24x05L},
		{inventory.CategoryWaterBundle, inventory.SubtypeBundle8x15L},
	}

	for _, it := range items {
		item, err := inventory.NewItem(s.ID, it.category, it.subtype)
		if err != nil {
			return err
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
