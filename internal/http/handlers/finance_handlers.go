package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/retailops/erp-backend/internal/authz"
	models "github.com/retailops/erp-backend/internal/models"
	repo "github.com/retailops/erp-backend/internal/repo"
)

// CreateFinancialRecordHandler godoc
// @Summary Record a manual income or expense entry
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body FinancialRecordRequest true "Record to add"
// @Success 201 {object} models.FinancialRecord
// @Failure 400 {object} []ValidationError
// @Failure 403 {string} string "Forbidden"
// @Router /finance/records [post]
func CreateFinancialRecordHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpManageFinance) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req FinancialRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateFinancialRecord(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	record := models.FinancialRecord{
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Category:        req.Category,
		Description:     req.Description,
		Date:            time.Now().UTC().Format(time.RFC3339),
	}
	created, err := financeRepo.Create(record)
	if err != nil {
		log.Printf("could not create financial record: %v", err)
		http.Error(w, "could not create financial record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetFinancialRecordsHandler godoc
// @Summary List financial records, newest first
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by transaction type (income or expense)"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.FinancialRecord
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /finance/records [get]
func GetFinancialRecordsHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpViewFinance) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	filter := repo.RecordFilter{Type: r.URL.Query().Get("type")}
	if filter.Type != "" && !models.ValidTransactionType(filter.Type) {
		http.Error(w, "invalid transaction type", http.StatusBadRequest)
		return
	}
	filter.Limit = parseIntPtr(r.URL.Query().Get("limit"))
	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}

	records, err := financeRepo.List(filter)
	if err != nil {
		log.Printf("could not retrieve financial records: %v", err)
		http.Error(w, "could not retrieve financial records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// MonthlySummaryHandler godoc
// @Summary Monthly income, expense and net profit
// @Description Defaults to the current month when year/month are omitted
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, e.g. 2026"
// @Param month query int false "Month 1-12"
// @Success 200 {object} MonthlySummaryResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /finance/summary/monthly [get]
func MonthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpViewFinance) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()
	if s := r.URL.Query().Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1970 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = v
	}
	if s := r.URL.Query().Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}
		month = time.Month(v)
	}

	summary, err := financeRepo.MonthlySummary(year, month)
	if err != nil {
		log.Printf("could not compute monthly summary: %v", err)
		http.Error(w, "could not compute monthly summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, MonthlySummaryResponse{
		Year:      year,
		Month:     int(month),
		Income:    summary.Income,
		Expense:   summary.Expense,
		NetProfit: summary.NetProfit,
	})
}
