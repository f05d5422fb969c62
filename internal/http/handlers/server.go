package handlers

import (
	"github.com/retailops/erp-backend/internal/repo"
	"github.com/retailops/erp-backend/internal/sales"
)

// Handler dependencies are injected once at startup (or per test suite)
// through these setters.
var (
	productRepo repo.ProductRepository
	saleRepo    repo.SaleRepository
	financeRepo repo.FinanceRepository
	metricsRepo repo.MetricsRepository
	userRepo    repo.UserRepository

	saleService *sales.Service

	// lowStockThreshold is the documented default of 10 unless
	// configuration overrides it.
	lowStockThreshold = 10
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetSaleRepo(r repo.SaleRepository) {
	saleRepo = r
	saleService = sales.NewService(r)
}

func SetFinanceRepo(r repo.FinanceRepository) {
	financeRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetLowStockThreshold(threshold int) {
	if threshold > 0 {
		lowStockThreshold = threshold
	}
}
