package repo

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

// InMemorySaleRepository keeps sales in a slice and coordinates the
// product and finance repositories so RecordSale stays all-or-nothing.
// One mutex serializes the whole read-check-write sequence, which is
// what keeps concurrent sales from overselling.
type InMemorySaleRepository struct {
	mu       sync.Mutex
	sales    []models.Sale
	nextID   int
	products *InMemoryProductRepository
	finance  *InMemoryFinanceRepository
}

func NewInMemorySaleRepository(products *InMemoryProductRepository, finance *InMemoryFinanceRepository) *InMemorySaleRepository {
	return &InMemorySaleRepository{
		sales:    []models.Sale{},
		nextID:   1,
		products: products,
		finance:  finance,
	}
}

func (r *InMemorySaleRepository) RecordSale(productID int, customerName string, quantity int) (models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, err := r.products.GetByID(productID)
	if err != nil {
		return models.Sale{}, err
	}

	if _, err := r.products.adjustStock(productID, -quantity); err != nil {
		return models.Sale{}, err
	}

	now := time.Now().UTC()
	sale := models.Sale{
		ID:           r.nextID,
		ProductID:    productID,
		CustomerName: customerName,
		Quantity:     quantity,
		TotalPrice:   roundMoney(product.Price * float64(quantity)),
		SaleDate:     now.Format(time.RFC3339),
	}
	r.nextID++
	r.sales = append(r.sales, sale)

	r.finance.append(models.FinancialRecord{
		TransactionType: models.TransactionIncome,
		Amount:          sale.TotalPrice,
		Category:        product.Category,
		Description:     fmt.Sprintf("Sale of %d x %s to %s", quantity, product.Name, customerName),
		Date:            sale.SaleDate,
	})

	return sale, nil
}

func (r *InMemorySaleRepository) Insert(sale models.Sale) (models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale.ID = r.nextID
	r.nextID++
	r.sales = append(r.sales, sale)
	return sale, nil
}

func (r *InMemorySaleRepository) ByProductID(productID int, sf SaleFilter) ([]models.Sale, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Sale
	for _, s := range r.sales {
		if s.ProductID == productID && saleInRange(s, sf) {
			filtered = append(filtered, s)
		}
	}
	sortSalesNewestFirst(filtered)
	page := paginateSales(filtered, sf)
	return page, len(filtered), nil
}

func (r *InMemorySaleRepository) Recent(sf SaleFilter) ([]SaleWithProduct, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Sale
	for _, s := range r.sales {
		if saleInRange(s, sf) {
			filtered = append(filtered, s)
		}
	}
	sortSalesNewestFirst(filtered)
	page := paginateSales(filtered, sf)

	joined := make([]SaleWithProduct, 0, len(page))
	for _, s := range page {
		name := ""
		if p, err := r.products.GetByID(s.ProductID); err == nil {
			name = p.Name
		}
		joined = append(joined, SaleWithProduct{Sale: s, ProductName: name})
	}
	return joined, len(filtered), nil
}

func (r *InMemorySaleRepository) RevenueByCategory(since, until *time.Time) ([]CategoryRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sf := SaleFilter{Since: since, Until: until}
	totals := map[string]float64{}
	for _, s := range r.sales {
		if !saleInRange(s, sf) {
			continue
		}
		p, err := r.products.GetByID(s.ProductID)
		if err != nil {
			continue
		}
		totals[p.Category] += s.TotalPrice
	}

	revenues := make([]CategoryRevenue, 0, len(totals))
	for category, revenue := range totals {
		revenues = append(revenues, CategoryRevenue{Category: category, Revenue: roundMoney(revenue)})
	}
	sort.Slice(revenues, func(i, j int) bool {
		if revenues[i].Revenue != revenues[j].Revenue {
			return revenues[i].Revenue > revenues[j].Revenue
		}
		return revenues[i].Category < revenues[j].Category
	})
	return revenues, nil
}

func (r *InMemorySaleRepository) TopByRevenue(n int) ([]ProductRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byProduct := map[int]*ProductRevenue{}
	for _, s := range r.sales {
		entry, ok := byProduct[s.ProductID]
		if !ok {
			p, err := r.products.GetByID(s.ProductID)
			if err != nil {
				continue
			}
			entry = &ProductRevenue{ProductID: p.ID, Name: p.Name, Category: p.Category}
			byProduct[s.ProductID] = entry
		}
		entry.QuantitySold += s.Quantity
		entry.Revenue = roundMoney(entry.Revenue + s.TotalPrice)
	}

	top := make([]ProductRevenue, 0, len(byProduct))
	for _, entry := range byProduct {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductID < top[j].ProductID
	})
	if n > 0 && n < len(top) {
		top = top[:n]
	}
	return top, nil
}

func (r *InMemorySaleRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = []models.Sale{}
	r.nextID = 1
}

// saleInRange compares RFC3339 strings; lexicographic order matches
// chronological order for UTC timestamps.
func saleInRange(s models.Sale, sf SaleFilter) bool {
	if sf.Since != nil && s.SaleDate < sf.Since.UTC().Format(time.RFC3339) {
		return false
	}
	if sf.Until != nil && s.SaleDate > sf.Until.UTC().Format(time.RFC3339) {
		return false
	}
	return true
}

func sortSalesNewestFirst(sales []models.Sale) {
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].SaleDate != sales[j].SaleDate {
			return sales[i].SaleDate > sales[j].SaleDate
		}
		return sales[i].ID > sales[j].ID
	})
}

func paginateSales(sales []models.Sale, sf SaleFilter) []models.Sale {
	if sf.Offset != nil && *sf.Offset > len(sales) {
		return []models.Sale{}
	}
	start := 0
	if sf.Offset != nil {
		start = clamp(*sf.Offset, 0, len(sales))
	}
	end := len(sales)
	if sf.Limit != nil && *sf.Limit > 0 {
		end = clamp(start+*sf.Limit, start, len(sales))
	}
	return sales[start:end]
}
