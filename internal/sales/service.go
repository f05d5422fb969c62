// Package sales implements sale recording: input validation,
// authorization, and the atomic stock-decrement-plus-ledger write.
package sales

import (
	"errors"
	"strings"

	"github.com/retailops/erp-backend/internal/authz"
	"github.com/retailops/erp-backend/internal/models"
	"github.com/retailops/erp-backend/internal/repo"
)

// ErrUnauthorized is returned when the acting role is not allowed to
// record sales.
var ErrUnauthorized = errors.New("role is not allowed to record sales")

// FieldError describes a single invalid input field.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError carries all field errors found before any mutation.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	fields := make([]string, len(v))
	for i, fe := range v {
		fields[i] = fe.Field
	}
	return "invalid input: " + strings.Join(fields, ", ")
}

// RecordSaleInput is everything a caller provides; the actor's role
// travels explicitly with the request, never as ambient state.
type RecordSaleInput struct {
	ProductID    int
	CustomerName string
	Quantity     int
	ActorRole    string
}

type Service struct {
	sales repo.SaleRepository
}

func NewService(sales repo.SaleRepository) *Service {
	return &Service{sales: sales}
}

// RecordSale validates and authorizes the request, then delegates the
// atomic write to the repository. Validation and authorization failures
// happen before any mutation; repository failures leave no partial
// state behind.
func (s *Service) RecordSale(in RecordSaleInput) (models.Sale, error) {
	var errs ValidationError
	if in.ProductID <= 0 {
		errs = append(errs, FieldError{Field: "ProductID", Description: "Product ID must be positive"})
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		errs = append(errs, FieldError{Field: "CustomerName", Description: "Customer name is required"})
	}
	if in.Quantity <= 0 {
		errs = append(errs, FieldError{Field: "Quantity", Description: "Quantity must be greater than zero"})
	}
	if len(errs) > 0 {
		return models.Sale{}, errs
	}

	if !authz.Allowed(in.ActorRole, authz.OpRecordSale) {
		return models.Sale{}, ErrUnauthorized
	}

	return s.sales.RecordSale(in.ProductID, strings.TrimSpace(in.CustomerName), in.Quantity)
}
