package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/retailops/erp-backend/internal/http"
	handler "github.com/retailops/erp-backend/internal/http/handlers"
)

func postImport(r http.Handler, bearer, url, csvData string) *httptest.ResponseRecorder {
	buf, contentType := multipartCSV(csvData, "products.csv")
	req := httptest.NewRequest(http.MethodPost, url, buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportProductsHandler(t *testing.T) {
	r := api.NewRouter()

	t.Run("File with unique valid products", func(t *testing.T) {
		t.Cleanup(clearAll)
		csvData := `name,category,price,stock
Mouse,Electronics,25.99,10
Keyboard,Electronics,45.00,5`

		w := postImport(r, token, "/products/import", csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}

		var resp handler.ImportProductsResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}
	})

	t.Run("File with one invalid product", func(t *testing.T) {
		t.Cleanup(clearAll)
		csvData := `name,category,price,stock
Mouse,Electronics,25.99,10
InvalidProduct,Electronics,0,3
Keyboard,Electronics,45.00,5`

		w := postImport(r, token, "/products/import", csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}

		var resp handler.ImportProductsResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(resp.Errors))
		}
		if !strings.Contains(resp.Errors[0].Description, "row 3") {
			t.Errorf("expected error for row 3, got %v", resp.Errors[0])
		}
		if !strings.Contains(resp.Errors[0].Description, "invalid values") {
			t.Errorf("expected 'invalid values' in error, got %s", resp.Errors[0].Description)
		}
	})

	t.Run("Duplicated product in default mode (skip)", func(t *testing.T) {
		t.Cleanup(clearAll)
		csvData := `name,category,price,stock
Mouse,Electronics,25.99,10
Keyboard,Electronics,45.00,5
Mouse,Electronics,19.00,4`

		w := postImport(r, token, "/products/import", csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}

		var resp handler.ImportProductsResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(resp.Errors))
		}
		if !strings.Contains(resp.Errors[0].Description, "already exists") {
			t.Errorf("expected 'already exists' in error, got %s", resp.Errors[0].Description)
		}
	})

	t.Run("Import with update mode replaces product", func(t *testing.T) {
		t.Cleanup(clearAll)
		createProduct(r, handler.ProductRequest{Name: "Monitor", Category: "Electronics", Price: 200.0, Stock: 5})

		csvData := `name,category,price,stock
Monitor,Electronics,99.0,1`

		w := postImport(r, token, "/products/import?mode=update", csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}

		var resp handler.ImportProductsResult
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.ImportedProductsCount != 1 {
			t.Errorf("expected 1 update, got %v", resp.ImportedProductsCount)
		}

		getW := getWithToken(r, "/products", token)
		var all []handler.ProductResponse
		json.NewDecoder(getW.Body).Decode(&all)
		for _, p := range all {
			if p.Name == "Monitor" && p.Price != 99.0 {
				t.Errorf("expected updated price 99.0, got %v", p.Price)
			}
		}
	})

	t.Run("Missing column", func(t *testing.T) {
		t.Cleanup(clearAll)
		csvData := `name,price
Mouse,25.99`

		w := postImport(r, token, "/products/import", csvData)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for missing column, got %d", w.Code)
		}
	})

	t.Run("Cashier forbidden", func(t *testing.T) {
		csvData := `name,category,price,stock
Mouse,Electronics,25.99,10`

		w := postImport(r, cashierToken, "/products/import", csvData)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}
