package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/retailops/erp-backend/docs"
	"github.com/retailops/erp-backend/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.With(RateLimitMiddleware).Post("/login", handlers.LoginHandler)
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware)

		pr.Post("/admin/users", handlers.CreateUserHandler)

		pr.Post("/products", handlers.CreateProductHandler)
		pr.Get("/products", handlers.GetProductsHandler)
		pr.Get("/products/search", handlers.FilterProductsHandler)
		pr.Get("/products/low-stock", handlers.LowStockProductsHandler)
		pr.Get("/products/{id}", handlers.GetProductByIDHandler)
		pr.Put("/products/{id}", handlers.UpdateProductHandler)
		pr.Delete("/products/{id}", handlers.DeleteProductHandler)
		pr.Get("/products/{id}/sales", handlers.ProductSalesHandler)
		pr.Post("/products/import", handlers.ImportProductsHandler)

		pr.Post("/sales", handlers.RecordSaleHandler)
		pr.Get("/sales", handlers.GetSalesHandler)

		pr.Post("/finance/records", handlers.CreateFinancialRecordHandler)
		pr.Get("/finance/records", handlers.GetFinancialRecordsHandler)
		pr.Get("/finance/summary/monthly", handlers.MonthlySummaryHandler)

		pr.Get("/reports/revenue-by-category", handlers.RevenueByCategoryHandler)
		pr.Get("/reports/top-products", handlers.TopProductsHandler)
		pr.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
