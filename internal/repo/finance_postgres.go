package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

type PostgresFinanceRepository struct {
	db *sql.DB
}

func NewPostgresFinanceRepository(db *sql.DB) *PostgresFinanceRepository {
	return &PostgresFinanceRepository{db: db}
}

func (r *PostgresFinanceRepository) Create(rec models.FinancialRecord) (models.FinancialRecord, error) {
	query := `INSERT INTO financial_records (transaction_type, amount, category, description, date) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query,
		rec.TransactionType, rec.Amount, rec.Category, rec.Description, rec.Date).Scan(&rec.ID)
	return rec, translatePgError(err)
}

// List returns ledger entries newest first, optionally filtered by type.
func (r *PostgresFinanceRepository) List(rf RecordFilter) ([]models.FinancialRecord, error) {
	query := `SELECT id, transaction_type, amount, category, description, date FROM financial_records`
	args := []any{}
	if rf.Type != "" {
		query += " WHERE transaction_type = $1"
		args = append(args, rf.Type)
	}
	query += " ORDER BY date DESC"

	limit := defaultLimit
	if rf.Limit != nil && *rf.Limit > 0 {
		limit = min(*rf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FinancialRecord
	for rows.Next() {
		var rec models.FinancialRecord
		var date time.Time
		if err := rows.Scan(&rec.ID, &rec.TransactionType, &rec.Amount, &rec.Category, &rec.Description, &date); err != nil {
			return nil, err
		}
		rec.Date = date.UTC().Format(time.RFC3339)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MonthlySummary sums the month's ledger partitioned by type.
func (r *PostgresFinanceRepository) MonthlySummary(year int, month time.Month) (FinancialSummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `SELECT transaction_type, COALESCE(SUM(amount), 0)
		FROM financial_records
		WHERE date >= $1 AND date < $2
		GROUP BY transaction_type`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return FinancialSummary{}, err
	}
	defer rows.Close()

	var summary FinancialSummary
	for rows.Next() {
		var transactionType string
		var total float64
		if err := rows.Scan(&transactionType, &total); err != nil {
			return FinancialSummary{}, err
		}
		switch transactionType {
		case models.TransactionIncome:
			summary.Income = total
		case models.TransactionExpense:
			summary.Expense = total
		}
	}
	if err := rows.Err(); err != nil {
		return FinancialSummary{}, err
	}
	summary.NetProfit = roundMoney(summary.Income - summary.Expense)
	return summary, nil
}
