// Package main is the entry point for the Hamu API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hamu/internal/domain/inventory"
	"hamu/internal/domain/notify"
	"hamu/internal/infrastructure/cache"
	v1 "hamu/internal/infrastructure/http/v1"
	"hamu/internal/infrastructure/sms"
	"hamu/internal/infrastructure/storage/postgres"
	"hamu/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting hamu server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Stock level cache (optional) ---
	var levelCache inventory.LevelCache
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		stockCache := cache.NewStockLevels(addr,
			getEnv("REDIS_PASSWORD", ""),
			getEnvInt("REDIS_DB", 0),
			getEnvDuration("STOCK_CACHE_TTL", 5*time.Minute),
		)
		if err := stockCache.Ping(ctx); err != nil {
			log.Warnw("redis unreachable, stock level cache disabled", "error", err)
		} else {
			defer stockCache.Close()
			levelCache = stockCache
			log.Infow("stock level cache enabled", "addr", addr)
		}
	}

	// --- SMS gateway (optional) ---
	var notifier notify.Notifier = notify.Nop{}
	if apiKey := getEnv("SMS_API_KEY", ""); apiKey != "" {
		notifier = sms.NewClient(sms.Config{
			BaseURL: getEnv("SMS_BASE_URL", "https://ujumbesms.co.ke"),
			APIKey:  apiKey,
			Email:   mustEnv("SMS_EMAIL"),
			Sender:  getEnv("SMS_SENDER", "HamuWater"),
		})
		log.Info("sms gateway configured")
	} else {
		log.Info("sms gateway not configured, notifications disabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		Logger:     log,
		Notifier:   notifier,
		LevelCache: levelCache,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
