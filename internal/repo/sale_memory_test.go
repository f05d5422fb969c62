package repo

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

func newSaleFixture() (*InMemoryProductRepository, *InMemoryFinanceRepository, *InMemorySaleRepository) {
	products := NewInMemoryProductRepository()
	finance := NewInMemoryFinanceRepository()
	sales := NewInMemorySaleRepository(products, finance)
	return products, finance, sales
}

func TestRecordSale_ComputesTotalAndLedger(t *testing.T) {
	products, finance, sales := newSaleFixture()
	p, _ := products.Create(models.Product{Name: "Widget", Category: "Tools", Price: 9.99, Stock: 10})

	sale, err := sales.RecordSale(p.ID, "Alice", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.TotalPrice != 49.95 {
		t.Errorf("expected total 49.95, got %v", sale.TotalPrice)
	}

	after, _ := products.GetByID(p.ID)
	if after.Stock != 5 {
		t.Errorf("expected stock 5, got %d", after.Stock)
	}

	records := finance.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(records))
	}
	if records[0].Amount != sale.TotalPrice {
		t.Errorf("ledger amount %v does not match sale total %v", records[0].Amount, sale.TotalPrice)
	}
	if records[0].Description != "Sale of 5 x Widget to Alice" {
		t.Errorf("unexpected description %q", records[0].Description)
	}
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	products, finance, sales := newSaleFixture()
	p, _ := products.Create(models.Product{Name: "Rare", Category: "Tools", Price: 5, Stock: 3})

	_, err := sales.RecordSale(p.ID, "Bob", 4)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, _ := products.GetByID(p.ID)
	if after.Stock != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", after.Stock)
	}
	if len(finance.Records()) != 0 {
		t.Error("expected no ledger entries after failed sale")
	}
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	_, _, sales := newSaleFixture()
	if _, err := sales.RecordSale(42, "Carol", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// Many goroutines compete for limited stock: units sold must equal the
// stock drawn down, and every sale must have a matching ledger entry.
func TestRecordSale_ConcurrentNoOversell(t *testing.T) {
	products, finance, sales := newSaleFixture()
	const initialStock = 50
	p, _ := products.Create(models.Product{Name: "Hot Item", Category: "Electronics", Price: 10, Stock: initialStock})

	const workers = 100
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.RecordSale(p.ID, "Racer", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != initialStock {
		t.Errorf("expected exactly %d successful sales, got %d", initialStock, succeeded)
	}

	after, _ := products.GetByID(p.ID)
	if after.Stock != 0 {
		t.Errorf("expected stock 0, got %d", after.Stock)
	}

	// Ledger consistency: income entries mirror the recorded sales.
	records := finance.Records()
	if len(records) != succeeded {
		t.Errorf("expected %d ledger entries, got %d", succeeded, len(records))
	}
	var ledgerTotal, salesTotal float64
	for _, rec := range records {
		ledgerTotal += rec.Amount
	}
	recent, _, _ := sales.Recent(SaleFilter{})
	if len(recent) != succeeded {
		t.Errorf("expected %d sales listed, got %d", succeeded, len(recent))
	}
	for _, s := range recent {
		salesTotal += s.TotalPrice
	}
	if roundMoney(ledgerTotal) != roundMoney(salesTotal) {
		t.Errorf("ledger total %v does not match sales total %v", ledgerTotal, salesTotal)
	}
}

func TestRevenueByCategory_Window(t *testing.T) {
	products, _, sales := newSaleFixture()
	p, _ := products.Create(models.Product{Name: "Book", Category: "Books", Price: 10, Stock: 100})

	old := time.Now().UTC().AddDate(0, -2, 0)
	sales.Insert(models.Sale{ProductID: p.ID, CustomerName: "Old", Quantity: 1, TotalPrice: 10, SaleDate: old.Format(time.RFC3339)})
	sales.Insert(models.Sale{ProductID: p.ID, CustomerName: "New", Quantity: 2, TotalPrice: 20, SaleDate: time.Now().UTC().Format(time.RFC3339)})

	since := time.Now().UTC().AddDate(0, -1, 0)
	rows, err := sales.RevenueByCategory(&since, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Revenue != 20 {
		t.Errorf("expected only recent revenue 20, got %v", rows)
	}

	all, _ := sales.RevenueByCategory(nil, nil)
	if len(all) != 1 || all[0].Revenue != 30 {
		t.Errorf("expected full revenue 30, got %v", all)
	}
}

func TestTopByRevenue_Ordering(t *testing.T) {
	products, _, sales := newSaleFixture()
	a, _ := products.Create(models.Product{Name: "A", Category: "Tools", Price: 1, Stock: 100})
	b, _ := products.Create(models.Product{Name: "B", Category: "Tools", Price: 1, Stock: 100})

	now := time.Now().UTC().Format(time.RFC3339)
	sales.Insert(models.Sale{ProductID: a.ID, Quantity: 1, TotalPrice: 5, SaleDate: now})
	sales.Insert(models.Sale{ProductID: b.ID, Quantity: 1, TotalPrice: 50, SaleDate: now})
	sales.Insert(models.Sale{ProductID: a.ID, Quantity: 1, TotalPrice: 10, SaleDate: now})

	top, err := sales.TopByRevenue(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].ProductID != b.ID || top[0].Revenue != 50 {
		t.Errorf("expected B first with 50, got %+v", top[0])
	}
	if top[1].ProductID != a.ID || top[1].Revenue != 15 {
		t.Errorf("expected A second with 15, got %+v", top[1])
	}
}
