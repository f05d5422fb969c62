package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retailops/erp-backend/internal/alerts"
	repo "github.com/retailops/erp-backend/internal/repo"
	"github.com/retailops/erp-backend/internal/sales"
)

// RecordSaleHandler godoc
// @Summary Record a sale
// @Description Decrements stock and appends the income ledger entry atomically
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Sale to record"
// @Success 201 {object} SaleResponse
// @Failure 400 {object} []ValidationError
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Insufficient stock or write conflict"
// @Router /sales [post]
func RecordSaleHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	sale, err := saleService.RecordSale(sales.RecordSaleInput{
		ProductID:    req.ProductID,
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
		ActorRole:    role,
	})
	if err != nil {
		var verr sales.ValidationError
		switch {
		case errors.As(err, &verr):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(verr)
		case errors.Is(err, sales.ErrUnauthorized):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			http.Error(w, "insufficient stock", http.StatusConflict)
		case errors.Is(err, repo.ErrConflict):
			http.Error(w, "concurrent write conflict, retry", http.StatusConflict)
		default:
			http.Error(w, "could not record sale", http.StatusInternalServerError)
		}
		return
	}

	if product, err := productRepo.GetByID(sale.ProductID); err == nil && product.Stock < lowStockThreshold {
		log.Printf("ALERT: Product %d (%s) is below threshold! Stock=%d, Threshold=%d",
			product.ID, product.Name, product.Stock, lowStockThreshold)
		alerts.LogLowStock(product, lowStockThreshold)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaleResponse{
		ID:           sale.ID,
		ProductID:    sale.ProductID,
		CustomerName: sale.CustomerName,
		Quantity:     sale.Quantity,
		TotalPrice:   sale.TotalPrice,
		SaleDate:     sale.SaleDate,
	})
}

// GetSalesHandler godoc
// @Summary List recent sales
// @Tags sales
// @Produce json,text/csv
// @Security BearerAuth
// @Param since query string false "Filter sales from this timestamp (RFC3339)"
// @Param until query string false "Filter sales until this timestamp (RFC3339)"
// @Param days query int false "Shortcut: sales of the last N days (default 30)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Param format query string false "Response format (json or csv)"
// @Success 200 {object} SalesSearchResult
// @Failure 400 {string} string "Invalid input"
// @Router /sales [get]
func GetSalesHandler(w http.ResponseWriter, r *http.Request) {
	sf, ok := saleFilterFromQuery(w, r)
	if !ok {
		return
	}

	if sf.Since == nil && sf.Until == nil {
		days := 30
		if s := r.URL.Query().Get("days"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				http.Error(w, "invalid days", http.StatusBadRequest)
				return
			}
			days = v
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		sf.Since = &cutoff
	}

	salesList, total, err := saleRepo.Recent(sf)
	if err != nil {
		log.Printf("could not retrieve sales: %v", err)
		http.Error(w, "could not retrieve sales", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, "sales.csv", []string{"id", "product_id", "product", "customer", "quantity", "total_price", "sale_date"}, func(push func([]string)) {
			for _, s := range salesList {
				push([]string{
					strconv.Itoa(s.ID), strconv.Itoa(s.ProductID), s.ProductName, s.CustomerName,
					strconv.Itoa(s.Quantity), strconv.FormatFloat(s.TotalPrice, 'f', 2, 64), s.SaleDate,
				})
			}
		})
		return
	}

	response := SalesSearchResult{
		Data: make([]SaleResponse, len(salesList)),
		Meta: Meta{TotalCount: total},
	}
	for i, s := range salesList {
		response.Data[i] = SaleResponse{
			ID:           s.ID,
			ProductID:    s.ProductID,
			ProductName:  s.ProductName,
			CustomerName: s.CustomerName,
			Quantity:     s.Quantity,
			TotalPrice:   s.TotalPrice,
			SaleDate:     s.SaleDate,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProductSalesHandler godoc
// @Summary Sales of one product
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param since query string false "Filter sales from this timestamp (RFC3339)"
// @Param until query string false "Filter sales until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} SalesSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Router /products/{id}/sales [get]
func ProductSalesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if _, err := productRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	sf, ok := saleFilterFromQuery(w, r)
	if !ok {
		return
	}

	salesList, total, err := saleRepo.ByProductID(id, sf)
	if err != nil {
		log.Printf("could not retrieve sales for product %d: %v", id, err)
		http.Error(w, "could not retrieve sales", http.StatusInternalServerError)
		return
	}

	response := SalesSearchResult{
		Data: make([]SaleResponse, len(salesList)),
		Meta: Meta{TotalCount: total},
	}
	for i, s := range salesList {
		response.Data[i] = SaleResponse{
			ID:           s.ID,
			ProductID:    s.ProductID,
			CustomerName: s.CustomerName,
			Quantity:     s.Quantity,
			TotalPrice:   s.TotalPrice,
			SaleDate:     s.SaleDate,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// saleFilterFromQuery parses since/until/offset/limit. On bad input it
// writes the 400 itself and returns ok=false.
func saleFilterFromQuery(w http.ResponseWriter, r *http.Request) (repo.SaleFilter, bool) {
	var sf repo.SaleFilter

	sinceStr := restorePlusOffset(r.URL.Query().Get("since"))
	untilStr := restorePlusOffset(r.URL.Query().Get("until"))

	if sinceStr != "" {
		ts, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			http.Error(w, "invalid since date format", http.StatusBadRequest)
			return sf, false
		}
		sf.Since = &ts
	}
	if untilStr != "" {
		ts, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			http.Error(w, "invalid until date format", http.StatusBadRequest)
			return sf, false
		}
		sf.Until = &ts
	}

	sf.Limit = parseIntPtr(r.URL.Query().Get("limit"))
	sf.Offset = parseIntPtr(r.URL.Query().Get("offset"))
	if sf.Limit != nil && *sf.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return sf, false
	}
	if sf.Offset != nil && *sf.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return sf, false
	}
	return sf, true
}

// restorePlusOffset undoes the + for space substitution URL query
// decoding applies to RFC3339 timestamps with a positive zone offset.
// Example: 2025-07-03T17:44:03+02:00 arrives as 2025-07-03T17:44:03 02:00.
func restorePlusOffset(s string) string {
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		return s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	return s
}
