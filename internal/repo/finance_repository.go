package repo

import (
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

// FinanceRepository is the ledger: append-only income/expense entries.
type FinanceRepository interface {
	Create(rec models.FinancialRecord) (models.FinancialRecord, error)
	List(rf RecordFilter) ([]models.FinancialRecord, error)
	MonthlySummary(year int, month time.Month) (FinancialSummary, error)
}

// RecordFilter narrows ledger listings. Type is income, expense, or
// empty for both.
type RecordFilter struct {
	Type  string
	Limit *int
}

// FinancialSummary partitions a period's ledger by transaction type.
type FinancialSummary struct {
	Income    float64 `json:"income"`
	Expense   float64 `json:"expense"`
	NetProfit float64 `json:"net_profit"`
}
