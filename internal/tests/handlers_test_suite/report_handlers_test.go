package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	api "github.com/retailops/erp-backend/internal/http"
	handler "github.com/retailops/erp-backend/internal/http/handlers"
	"github.com/retailops/erp-backend/internal/repo"
)

func seedSalesAcrossCategories(t *testing.T, r http.Handler) (electronics, books handler.ProductResponse) {
	t.Helper()

	w := createProduct(r, handler.ProductRequest{Name: "Camera", Category: "Electronics", Price: 100.0, Stock: 50})
	json.NewDecoder(w.Body).Decode(&electronics)
	w = createProduct(r, handler.ProductRequest{Name: "Atlas", Category: "Books", Price: 25.0, Stock: 50})
	json.NewDecoder(w.Body).Decode(&books)

	// Electronics: 3 units at 100, Books: 2 units at 25.
	recordSale(r, token, handler.SaleRequest{ProductID: electronics.Id, CustomerName: "Jack", Quantity: 3})
	recordSale(r, token, handler.SaleRequest{ProductID: books.Id, CustomerName: "Kate", Quantity: 2})
	return electronics, books
}

func TestRevenueByCategoryHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	seedSalesAcrossCategories(t, r)

	w := getWithToken(r, "/reports/revenue-by-category", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var rows []repo.CategoryRevenue
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(rows))
	}
	if rows[0].Category != "Electronics" || rows[0].Revenue != 300.00 {
		t.Errorf("expected Electronics at 300.00 first, got %+v", rows[0])
	}
	if rows[1].Category != "Books" || rows[1].Revenue != 50.00 {
		t.Errorf("expected Books at 50.00 second, got %+v", rows[1])
	}

	t.Run("Cashier forbidden", func(t *testing.T) {
		w := getWithToken(r, "/reports/revenue-by-category", cashierToken)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("CSV export", func(t *testing.T) {
		w := getWithToken(r, "/reports/revenue-by-category?format=csv", token)
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("expected text/csv, got %q", ct)
		}
		if !strings.Contains(w.Body.String(), "Electronics,300.00") {
			t.Errorf("unexpected CSV body: %q", w.Body.String())
		}
	})
}

func TestTopProductsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	electronics, _ := seedSalesAcrossCategories(t, r)

	w := getWithToken(r, "/reports/top-products?limit=1", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var rows []repo.ProductRevenue
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 product, got %d", len(rows))
	}
	if rows[0].ProductID != electronics.Id {
		t.Errorf("expected top product %d, got %d", electronics.Id, rows[0].ProductID)
	}
	if rows[0].QuantitySold != 3 {
		t.Errorf("expected 3 units sold, got %d", rows[0].QuantitySold)
	}
	if rows[0].Revenue != 300.00 {
		t.Errorf("expected revenue 300.00, got %v", rows[0].Revenue)
	}

	t.Run("Invalid limit", func(t *testing.T) {
		w := getWithToken(r, "/reports/top-products?limit=0", token)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "Gadget", Category: "Electronics", Price: 50.0, Stock: 3})
	var gadget handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&gadget)
	createProduct(r, handler.ProductRequest{Name: "Stocked", Category: "Tools", Price: 10.0, Stock: 100})

	recordSale(r, token, handler.SaleRequest{ProductID: gadget.Id, CustomerName: "Liam", Quantity: 2})

	mW := getWithToken(r, "/metrics/dashboard", token)
	if mW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", mW.Code)
	}

	var metrics repo.Metrics
	if err := json.NewDecoder(mW.Body).Decode(&metrics); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if metrics.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", metrics.TotalProducts)
	}
	if metrics.TotalSales != 1 {
		t.Errorf("expected 1 sale, got %d", metrics.TotalSales)
	}
	if metrics.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", metrics.LowStockCount)
	}
	if metrics.TotalRevenue != 100.00 {
		t.Errorf("expected revenue 100.00, got %v", metrics.TotalRevenue)
	}
	if metrics.TopProduct.Name != "Gadget" {
		t.Errorf("expected top product Gadget, got %q", metrics.TopProduct.Name)
	}
}
