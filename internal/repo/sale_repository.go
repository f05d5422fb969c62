package repo

import (
	"math"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

// SaleRepository defines sale persistence and the read-side aggregates.
//
// RecordSale is the atomic write path: it decrements product stock,
// inserts the sale with a recomputed total price, and appends the
// income ledger entry, all-or-nothing. Implementations must serialize
// the stock check-and-decrement so concurrent sales cannot oversell.
type SaleRepository interface {
	RecordSale(productID int, customerName string, quantity int) (models.Sale, error)

	// Insert is the bulk-load entry point used by seeding. It trusts the
	// caller's totals and dates and does not touch stock.
	Insert(sale models.Sale) (models.Sale, error)

	ByProductID(productID int, sf SaleFilter) ([]models.Sale, int, error)
	Recent(sf SaleFilter) ([]SaleWithProduct, int, error)
	RevenueByCategory(since, until *time.Time) ([]CategoryRevenue, error)
	TopByRevenue(n int) ([]ProductRevenue, error)
}

type SaleFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

// SaleWithProduct joins a sale with the owning product's name for
// history listings.
type SaleWithProduct struct {
	models.Sale
	ProductName string `json:"product_name"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type ProductRevenue struct {
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// roundMoney keeps monetary totals at two decimals.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
