package repo

type TopProduct struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type Metrics struct {
	TotalProducts int        `json:"total_products"`
	TotalSales    int        `json:"total_sales"`
	LowStockCount int        `json:"low_stock_count"`
	TotalRevenue  float64    `json:"total_revenue"`
	TopProduct    TopProduct `json:"top_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics(lowStockThreshold int) (Metrics, error)
}
