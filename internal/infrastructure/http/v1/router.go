// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"hamu/internal/domain/catalogs/customer"
	"hamu/internal/domain/catalogs/packages"
	"hamu/internal/domain/catalogs/shop"
	"hamu/internal/domain/credits"
	"hamu/internal/domain/inventory"
	"hamu/internal/domain/loyalty"
	"hamu/internal/domain/notify"
	"hamu/internal/domain/transactions/refill"
	"hamu/internal/domain/transactions/sale"
	"hamu/internal/infrastructure/http/v1/handlers"
	"hamu/internal/infrastructure/http/v1/middleware"
	"hamu/internal/infrastructure/storage/postgres"
	"hamu/internal/infrastructure/storage/postgres/catalog_repo"
	"hamu/internal/infrastructure/storage/postgres/credit_repo"
	"hamu/internal/infrastructure/storage/postgres/inventory_repo"
	"hamu/internal/infrastructure/storage/postgres/transaction_repo"
	"hamu/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// Notifier delivers customer SMS. notify.Nop when unconfigured.
	Notifier notify.Notifier

	// LevelCache caches stock levels. Nil disables caching.
	LevelCache inventory.LevelCache
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	txm := postgres.NewTxManager(cfg.Pool)
	base := handlers.NewBaseHandler()

	// Repositories
	shopRepo := catalog_repo.NewShopRepo(txm)
	customerRepo := catalog_repo.NewCustomerRepo(txm)
	packageRepo := catalog_repo.NewPackageRepo(txm)
	inventoryRepo := inventory_repo.NewRepo(txm)
	refillRepo := transaction_repo.NewRefillRepo(txm)
	saleRepo := transaction_repo.NewSaleRepo(txm)
	creditRepo := credit_repo.NewRepo(txm)

	// Services
	shopService := shop.NewService(shopRepo)
	customerService := customer.NewService(customerRepo)
	packageService := packages.NewService(packageRepo)

	engine := inventory.NewEngine(inventoryRepo)
	stockService := inventory.NewService(inventoryRepo, txm, engine, cfg.LevelCache)

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	loyaltyService := loyalty.NewService(shopRepo, customerRepo, packageRepo, refillRepo, notifier)
	refillService := refill.NewService(refillRepo, shopRepo, customerRepo, packageRepo,
		engine, stockService, txm, notifier)
	saleService := sale.NewService(saleRepo, customerRepo, packageRepo,
		engine, stockService, txm)
	creditService := credits.NewService(creditRepo, customerRepo)

	// API v1
	api := router.Group("/api/v1")
	{
		handlers.NewShopHandler(base, shopService).RegisterRoutes(api.Group("/shops"))
		handlers.NewCustomerHandler(base, customerService).RegisterRoutes(api.Group("/customers"))
		handlers.NewPackageHandler(base, packageService).RegisterRoutes(api.Group("/packages"))
		handlers.NewInventoryHandler(base, stockService).RegisterRoutes(api.Group("/stock"))
		handlers.NewRefillHandler(base, refillService).RegisterRoutes(api.Group("/refills"))
		handlers.NewSaleHandler(base, saleService).RegisterRoutes(api.Group("/sales"))
		handlers.NewCreditHandler(base, creditService).RegisterRoutes(api.Group("/credits"))
		handlers.NewLoyaltyHandler(base, loyaltyService).RegisterRoutes(api.Group("/loyalty"))
	}

	return router
}
