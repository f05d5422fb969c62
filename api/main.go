package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailops/erp-backend/internal/alerts"
	"github.com/retailops/erp-backend/internal/auth"
	"github.com/retailops/erp-backend/internal/config"
	"github.com/retailops/erp-backend/internal/db"
	api "github.com/retailops/erp-backend/internal/http"
	"github.com/retailops/erp-backend/internal/http/handlers"
	rl "github.com/retailops/erp-backend/internal/http/rate_limiter"
	"github.com/retailops/erp-backend/internal/repo"
)

// @title Retail ERP API
// @version 1.0
// @description Products, sales, users and financial records for a small retail operation.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if cfg.JWTSecret != "" {
		auth.SetSecret(cfg.JWTSecret)
	}
	handlers.SetLowStockThreshold(cfg.LowStockThreshold)

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unavailable, low-stock alerting disabled: %v", err)
	} else {
		defer rdb.Close()
		alerts.SetRedis(rdb, ctx)
		go alerts.StartDailySummary(24 * time.Hour)
	}

	go rl.StartVisitorCleanupLoop()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Could not ensure schema:", err)
	}

	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetSaleRepo(repo.NewPostgresSaleRepository(database))
	handlers.SetFinanceRepo(repo.NewPostgresFinanceRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))

	r := api.NewRouter()
	log.Printf("✅ Server running on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
