package repo

type InMemoryMetricsRepository struct {
	productRepo *InMemoryProductRepository
	saleRepo    *InMemorySaleRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo *InMemoryProductRepository,
	saleRepo *InMemorySaleRepository,
) {
	i.productRepo = productRepo
	i.saleRepo = saleRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(lowStockThreshold int) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	for _, product := range products {
		if product.Stock < lowStockThreshold {
			m.LowStockCount++
		}
	}

	top, err := i.saleRepo.TopByRevenue(0)
	if err != nil {
		return m, err
	}
	for _, entry := range top {
		m.TotalRevenue = roundMoney(m.TotalRevenue + entry.Revenue)
	}
	if len(top) > 0 {
		m.TopProduct = TopProduct{Name: top[0].Name, Revenue: top[0].Revenue}
	}

	i.saleRepo.mu.Lock()
	m.TotalSales = len(i.saleRepo.sales)
	i.saleRepo.mu.Unlock()

	return m, nil
}
