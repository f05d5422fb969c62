package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(lowStockThreshold int) (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m Metrics

	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&m.TotalSales)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE stock < $1`, lowStockThreshold).Scan(&m.LowStockCount)
	_ = r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM sales`).Scan(&m.TotalRevenue)

	_ = r.db.QueryRowContext(ctx, `
		SELECT p.name, SUM(s.total_price) AS revenue
		FROM sales s
		JOIN products p ON p.id = s.product_id
		GROUP BY p.name
		ORDER BY revenue DESC
		LIMIT 1
	`).Scan(&m.TopProduct.Name, &m.TopProduct.Revenue)

	return m, nil
}
