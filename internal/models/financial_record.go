package models

// Transaction types for financial records (closed enumeration).
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// FinancialRecord is an append-only ledger entry. Income entries are
// created automatically by sale recording; expenses are entered manually.
type FinancialRecord struct {
	ID              int     `json:"id"`
	TransactionType string  `json:"transaction_type"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
}

// ValidTransactionType reports whether t is income or expense.
func ValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}
