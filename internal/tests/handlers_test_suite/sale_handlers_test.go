package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	api "github.com/retailops/erp-backend/internal/http"
	handler "github.com/retailops/erp-backend/internal/http/handlers"
	"github.com/retailops/erp-backend/internal/models"
)

func TestRecordSaleHandler_Valid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "Widget", Category: "Tools", Price: 9.99, Stock: 10})
	var created handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&created)

	saleW := recordSale(r, token, handler.SaleRequest{ProductID: created.Id, CustomerName: "Alice", Quantity: 5})
	if saleW.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", saleW.Code, saleW.Body.String())
	}

	var sale handler.SaleResponse
	if err := json.NewDecoder(saleW.Body).Decode(&sale); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if sale.TotalPrice != 49.95 {
		t.Errorf("expected total 49.95, got %v", sale.TotalPrice)
	}
	if sale.Quantity != 5 {
		t.Errorf("expected quantity 5, got %v", sale.Quantity)
	}
	if sale.SaleDate == "" {
		t.Error("expected a sale date")
	}

	// Stock decremented.
	getW := getWithToken(r, fmt.Sprintf("/products/%d", created.Id), token)
	var after handler.ProductResponse
	json.NewDecoder(getW.Body).Decode(&after)
	if after.Stock != 5 {
		t.Errorf("expected stock 5 after sale, got %d", after.Stock)
	}

	// Matching income ledger entry.
	records := financeRepo.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 financial record, got %d", len(records))
	}
	rec := records[0]
	if rec.TransactionType != models.TransactionIncome {
		t.Errorf("expected income record, got %q", rec.TransactionType)
	}
	if rec.Amount != 49.95 {
		t.Errorf("expected amount 49.95, got %v", rec.Amount)
	}
	if rec.Category != "Tools" {
		t.Errorf("expected category 'Tools', got %q", rec.Category)
	}
	wantDescription := "Sale of 5 x Widget to Alice"
	if rec.Description != wantDescription {
		t.Errorf("expected description %q, got %q", wantDescription, rec.Description)
	}
}

func TestRecordSaleHandler_InsufficientStock(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "Rare", Category: "Tools", Price: 20.0, Stock: 3})
	var created handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&created)

	saleW := recordSale(r, token, handler.SaleRequest{ProductID: created.Id, CustomerName: "Bob", Quantity: 4})
	if saleW.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", saleW.Code)
	}

	// Nothing changed: stock intact, no sale, no ledger entry.
	getW := getWithToken(r, fmt.Sprintf("/products/%d", created.Id), token)
	var after handler.ProductResponse
	json.NewDecoder(getW.Body).Decode(&after)
	if after.Stock != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", after.Stock)
	}
	if records := financeRepo.Records(); len(records) != 0 {
		t.Errorf("expected no financial records, got %d", len(records))
	}

	listW := getWithToken(r, "/sales", token)
	var listing handler.SalesSearchResult
	json.NewDecoder(listW.Body).Decode(&listing)
	if len(listing.Data) != 0 {
		t.Errorf("expected no sales recorded, got %d", len(listing.Data))
	}
}

func TestRecordSaleHandler_ExactStock(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "LastOnes", Category: "Tools", Price: 10.0, Stock: 4})
	var created handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&created)

	saleW := recordSale(r, token, handler.SaleRequest{ProductID: created.Id, CustomerName: "Carol", Quantity: 4})
	if saleW.Code != http.StatusCreated {
		t.Fatalf("expected 201 for quantity equal to stock, got %d", saleW.Code)
	}

	getW := getWithToken(r, fmt.Sprintf("/products/%d", created.Id), token)
	var after handler.ProductResponse
	json.NewDecoder(getW.Body).Decode(&after)
	if after.Stock != 0 {
		t.Errorf("expected stock 0, got %d", after.Stock)
	}
}

func TestRecordSaleHandler_ProductNotFound(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	saleW := recordSale(r, token, handler.SaleRequest{ProductID: 999999, CustomerName: "Ghost", Quantity: 1})
	if saleW.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", saleW.Code)
	}
}

func TestRecordSaleHandler_Validation(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	tests := []struct {
		name          string
		payload       handler.SaleRequest
		expectedField string
	}{
		{"Zero quantity", handler.SaleRequest{ProductID: 1, CustomerName: "Dana", Quantity: 0}, "Quantity"},
		{"Negative quantity", handler.SaleRequest{ProductID: 1, CustomerName: "Dana", Quantity: -2}, "Quantity"},
		{"Blank customer", handler.SaleRequest{ProductID: 1, CustomerName: "   ", Quantity: 1}, "CustomerName"},
		{"Missing product id", handler.SaleRequest{CustomerName: "Dana", Quantity: 1}, "ProductID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recordSale(r, token, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var resp []handler.ValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			found := false
			for _, fe := range resp {
				if fe.Field == tt.expectedField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.expectedField, resp)
			}
		})
	}
}

func TestRecordSaleHandler_Roles(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "Shared", Category: "Tools", Price: 5.0, Stock: 10})
	var created handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&created)

	// Cashiers sell.
	saleW := recordSale(r, cashierToken, handler.SaleRequest{ProductID: created.Id, CustomerName: "Eve", Quantity: 1})
	if saleW.Code != http.StatusCreated {
		t.Errorf("expected 201 for cashier, got %d", saleW.Code)
	}

	// Managers do not.
	saleW = recordSale(r, managerToken, handler.SaleRequest{ProductID: created.Id, CustomerName: "Eve", Quantity: 1})
	if saleW.Code != http.StatusForbidden {
		t.Errorf("expected 403 for manager, got %d", saleW.Code)
	}
}

func TestGetSalesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{Name: "Tracked", Category: "Books", Price: 10.0, Stock: 100})
	var created handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&created)

	for i := 0; i < 3; i++ {
		recordSale(r, token, handler.SaleRequest{ProductID: created.Id, CustomerName: "Frank", Quantity: 1})
	}

	listW := getWithToken(r, "/sales", token)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listW.Code)
	}
	var listing handler.SalesSearchResult
	if err := json.NewDecoder(listW.Body).Decode(&listing); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(listing.Data) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(listing.Data))
	}
	if listing.Meta.TotalCount != 3 {
		t.Errorf("expected total count 3, got %d", listing.Meta.TotalCount)
	}
	if listing.Data[0].ProductName != "Tracked" {
		t.Errorf("expected joined product name, got %q", listing.Data[0].ProductName)
	}

	t.Run("Limit", func(t *testing.T) {
		w := getWithToken(r, "/sales?limit=2", token)
		var limited handler.SalesSearchResult
		json.NewDecoder(w.Body).Decode(&limited)
		if len(limited.Data) != 2 {
			t.Errorf("expected 2 sales, got %d", len(limited.Data))
		}
		if limited.Meta.TotalCount != 3 {
			t.Errorf("expected total count 3, got %d", limited.Meta.TotalCount)
		}
	})

	t.Run("CSV export", func(t *testing.T) {
		w := getWithToken(r, "/sales?format=csv", token)
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("expected text/csv, got %q", ct)
		}
		if !strings.HasPrefix(w.Body.String(), "id,product_id,product,customer,quantity,total_price,sale_date") {
			t.Errorf("unexpected CSV header: %q", w.Body.String())
		}
	})
}

func TestProductSalesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w1 := createProduct(r, handler.ProductRequest{Name: "First", Category: "Tools", Price: 10.0, Stock: 50})
	var first handler.ProductResponse
	json.NewDecoder(w1.Body).Decode(&first)

	w2 := createProduct(r, handler.ProductRequest{Name: "Second", Category: "Tools", Price: 10.0, Stock: 50})
	var second handler.ProductResponse
	json.NewDecoder(w2.Body).Decode(&second)

	recordSale(r, token, handler.SaleRequest{ProductID: first.Id, CustomerName: "Grace", Quantity: 2})
	recordSale(r, token, handler.SaleRequest{ProductID: second.Id, CustomerName: "Grace", Quantity: 1})
	recordSale(r, token, handler.SaleRequest{ProductID: first.Id, CustomerName: "Henry", Quantity: 3})

	listW := getWithToken(r, fmt.Sprintf("/products/%d/sales", first.Id), token)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listW.Code)
	}
	var listing handler.SalesSearchResult
	json.NewDecoder(listW.Body).Decode(&listing)
	if len(listing.Data) != 2 {
		t.Fatalf("expected 2 sales for first product, got %d", len(listing.Data))
	}
	for _, s := range listing.Data {
		if s.ProductID != first.Id {
			t.Errorf("expected only sales of product %d, got sale of %d", first.Id, s.ProductID)
		}
	}

	t.Run("Unknown product", func(t *testing.T) {
		w := getWithToken(r, "/products/999999/sales", token)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
