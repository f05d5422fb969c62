package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/erp-backend/internal/authz"
	models "github.com/retailops/erp-backend/internal/models"
	repo "github.com/retailops/erp-backend/internal/repo"
)

type csvRow struct {
	Name     string
	Category string
	Price    float64
	Stock    int
}

func parseProductsCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "category", "price", "stock"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:     strings.TrimSpace(record[index["name"]]),
			Category: strings.TrimSpace(record[index["category"]]),
			Price:    parseFloat(record[index["price"]]),
			Stock:    parseInt(record[index["stock"]]),
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if r.Price <= 0 {
		return errors.New("invalid price")
	}
	if r.Stock < 0 {
		return errors.New("invalid stock")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Expects columns name,category,price,stock. Existing names are skipped unless mode=update.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 403 {string} string "Forbidden"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !authz.Allowed(role, authz.OpAddProduct) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseProductsCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var imported int
	errorsList := []ValidationError{}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if err := validateRow(rec); err != nil {
			errorsList = append(errorsList, ValidationError{Description: fmt.Sprintf("row %d: invalid values: %v", rowNum, err)})
			continue
		}

		existing, err := productRepo.GetByName(rec.Name)
		if err == nil && existing.ID != 0 {
			if mode == "skip" {
				errorsList = append(errorsList, ValidationError{Description: fmt.Sprintf("row %d: product '%s' already exists", rowNum, rec.Name)})
				continue
			}
			existing.Category = rec.Category
			existing.Price = rec.Price
			existing.Stock = rec.Stock
			if _, err := productRepo.Update(existing); err != nil {
				errorsList = append(errorsList, ValidationError{Description: fmt.Sprintf("row %d: failed to update '%s'", rowNum, rec.Name)})
				continue
			}
			imported++
			continue
		}

		newProduct := models.Product{
			Name:      rec.Name,
			Category:  rec.Category,
			Price:     rec.Price,
			Stock:     rec.Stock,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if _, err := productRepo.Create(newProduct); err != nil {
			if errors.Is(err, repo.ErrDuplicatedValueUnique) {
				errorsList = append(errorsList, ValidationError{Description: fmt.Sprintf("row %d: product '%s' already exists", rowNum, rec.Name)})
			} else {
				errorsList = append(errorsList, ValidationError{Description: fmt.Sprintf("row %d: %v", rowNum, err)})
			}
			continue
		}
		imported++
	}

	if err := writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	}); err != nil {
		http.Error(w, "", http.StatusInternalServerError)
	}
}
