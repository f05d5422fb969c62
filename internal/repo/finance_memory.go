package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

type InMemoryFinanceRepository struct {
	mu      sync.Mutex
	records []models.FinancialRecord
	nextID  int
}

func NewInMemoryFinanceRepository() *InMemoryFinanceRepository {
	return &InMemoryFinanceRepository{
		records: []models.FinancialRecord{},
		nextID:  1,
	}
}

func (r *InMemoryFinanceRepository) Create(rec models.FinancialRecord) (models.FinancialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(rec), nil
}

// append is used by the in-memory sale repository for the income entry
// written alongside each sale.
func (r *InMemoryFinanceRepository) append(rec models.FinancialRecord) models.FinancialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(rec)
}

func (r *InMemoryFinanceRepository) appendLocked(rec models.FinancialRecord) models.FinancialRecord {
	rec.ID = r.nextID
	r.nextID++
	r.records = append(r.records, rec)
	return rec
}

func (r *InMemoryFinanceRepository) List(rf RecordFilter) ([]models.FinancialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.FinancialRecord
	for _, rec := range r.records {
		if rf.Type != "" && rec.TransactionType != rf.Type {
			continue
		}
		filtered = append(filtered, rec)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date > filtered[j].Date
		}
		return filtered[i].ID > filtered[j].ID
	})

	if rf.Limit != nil && *rf.Limit > 0 && *rf.Limit < len(filtered) {
		filtered = filtered[:*rf.Limit]
	}
	return filtered, nil
}

func (r *InMemoryFinanceRepository) MonthlySummary(year int, month time.Month) (FinancialSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	end := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0).Format(time.RFC3339)

	var summary FinancialSummary
	for _, rec := range r.records {
		if rec.Date < start || rec.Date >= end {
			continue
		}
		switch rec.TransactionType {
		case models.TransactionIncome:
			summary.Income += rec.Amount
		case models.TransactionExpense:
			summary.Expense += rec.Amount
		}
	}
	summary.Income = roundMoney(summary.Income)
	summary.Expense = roundMoney(summary.Expense)
	summary.NetProfit = roundMoney(summary.Income - summary.Expense)
	return summary, nil
}

// Records exposes a copy of the ledger for tests.
func (r *InMemoryFinanceRepository) Records() []models.FinancialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.FinancialRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *InMemoryFinanceRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = []models.FinancialRecord{}
	r.nextID = 1
}
