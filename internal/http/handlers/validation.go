package handlers

import (
	"strings"

	"github.com/retailops/erp-backend/internal/models"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.Price < 0 {
		errs = append(errs, ValidationError{Field: "Price", Description: "Price cannot be negative"})
	}
	if p.Stock < 0 {
		errs = append(errs, ValidationError{Field: "Stock", Description: "Stock cannot be negative"})
	}
	return errs
}

func validateFinancialRecord(f FinancialRecordRequest) []ValidationError {
	errs := []ValidationError{}
	if !models.ValidTransactionType(f.TransactionType) {
		errs = append(errs, ValidationError{Field: "TransactionType", Description: "Transaction type must be income or expense"})
	}
	if f.Amount <= 0 {
		errs = append(errs, ValidationError{Field: "Amount", Description: "Amount must be greater than zero"})
	}
	return errs
}
