package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/retailops/erp-backend/internal/authz"
)

// RevenueByCategoryHandler godoc
// @Summary Revenue grouped by product category
// @Description Ordered by revenue descending
// @Tags reports
// @Produce json,text/csv
// @Security BearerAuth
// @Param since query string false "Count sales from this timestamp (RFC3339)"
// @Param until query string false "Count sales until this timestamp (RFC3339)"
// @Param format query string false "Response format (json or csv)"
// @Success 200 {array} repo.CategoryRevenue
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /reports/revenue-by-category [get]
func RevenueByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpViewFinance) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	sf, ok := saleFilterFromQuery(w, r)
	if !ok {
		return
	}

	rows, err := saleRepo.RevenueByCategory(sf.Since, sf.Until)
	if err != nil {
		log.Printf("could not compute revenue by category: %v", err)
		http.Error(w, "could not compute revenue by category", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, "revenue_by_category.csv", []string{"category", "revenue"}, func(push func([]string)) {
			for _, row := range rows {
				push([]string{row.Category, strconv.FormatFloat(row.Revenue, 'f', 2, 64)})
			}
		})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// TopProductsHandler godoc
// @Summary Best selling products by revenue
// @Tags reports
// @Produce json,text/csv
// @Security BearerAuth
// @Param limit query int false "Number of products to return (default 5)"
// @Param format query string false "Response format (json or csv)"
// @Success 200 {array} repo.ProductRevenue
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /reports/top-products [get]
func TopProductsHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpViewFinance) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	limit := 5
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = v
	}

	rows, err := saleRepo.TopByRevenue(limit)
	if err != nil {
		log.Printf("could not compute top products: %v", err)
		http.Error(w, "could not compute top products", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, "top_products.csv", []string{"product_id", "name", "category", "quantity_sold", "revenue"}, func(push func([]string)) {
			for _, row := range rows {
				push([]string{
					strconv.Itoa(row.ProductID), row.Name, row.Category,
					strconv.Itoa(row.QuantitySold), strconv.FormatFloat(row.Revenue, 'f', 2, 64),
				})
			}
		})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetDashboardMetricsHandler godoc
// @Summary Aggregate dashboard metrics
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := metricsRepo.GetDashboardMetrics(lowStockThreshold)
	if err != nil {
		log.Printf("could not compute dashboard metrics: %v", err)
		http.Error(w, "could not compute dashboard metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
