package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/retailops/erp-backend/internal/models"
)

type PostgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) *PostgresSaleRepository {
	return &PostgresSaleRepository{db: db}
}

const defaultLimit = 100

// RecordSale runs the whole sale as one serializable transaction: lock
// the product row, decrement stock only if enough is left, insert the
// sale and the matching income ledger entry. Any failure rolls the
// whole thing back.
func (r *PostgresSaleRepository) RecordSale(productID int, customerName string, quantity int) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.Sale{}, err
	}
	defer tx.Rollback()

	var (
		name     string
		category string
		price    float64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, category, price FROM products WHERE id = $1 FOR UPDATE`,
		productID).Scan(&name, &category, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, ErrProductNotFound
	}
	if err != nil {
		return models.Sale{}, translatePgError(err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
		quantity, productID)
	if err != nil {
		return models.Sale{}, translatePgError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Sale{}, ErrInsufficientStock
	}

	now := time.Now().UTC()
	sale := models.Sale{
		ProductID:    productID,
		CustomerName: customerName,
		Quantity:     quantity,
		TotalPrice:   roundMoney(price * float64(quantity)),
		SaleDate:     now.Format(time.RFC3339),
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO sales (product_id, customer_name, quantity, total_price, sale_date) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sale.ProductID, sale.CustomerName, sale.Quantity, sale.TotalPrice, now).Scan(&sale.ID)
	if err != nil {
		return models.Sale{}, translatePgError(err)
	}

	description := fmt.Sprintf("Sale of %d x %s to %s", quantity, name, customerName)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO financial_records (transaction_type, amount, category, description, date) VALUES ($1, $2, $3, $4, $5)`,
		models.TransactionIncome, sale.TotalPrice, category, description, now)
	if err != nil {
		return models.Sale{}, translatePgError(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Sale{}, translatePgError(err)
	}
	return sale, nil
}

func (r *PostgresSaleRepository) Insert(sale models.Sale) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sales (product_id, customer_name, quantity, total_price, sale_date) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sale.ProductID, sale.CustomerName, sale.Quantity, sale.TotalPrice, sale.SaleDate).Scan(&sale.ID)
	return sale, translatePgError(err)
}

// ByProductID returns the sales of one product, newest first.
func (r *PostgresSaleRepository) ByProductID(productID int, sf SaleFilter) ([]models.Sale, int, error) {
	whereClause, args := saleWhereClause("WHERE product_id = $1", []any{productID}, sf)

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	query, queryArgs := saleMainQuery(
		"SELECT id, product_id, customer_name, quantity, total_price, sale_date FROM sales",
		whereClause, args, sf)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		var saleDate time.Time
		if err := rows.Scan(&s.ID, &s.ProductID, &s.CustomerName, &s.Quantity, &s.TotalPrice, &saleDate); err != nil {
			return nil, 0, err
		}
		s.SaleDate = saleDate.UTC().Format(time.RFC3339)
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}

// Recent returns sales joined with product names, newest first.
func (r *PostgresSaleRepository) Recent(sf SaleFilter) ([]SaleWithProduct, int, error) {
	whereClause, args := saleWhereClause("WHERE 1=1", []any{}, sf)

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	query, queryArgs := saleMainQuery(
		`SELECT s.id, s.product_id, p.name, s.customer_name, s.quantity, s.total_price, s.sale_date
		 FROM sales s JOIN products p ON p.id = s.product_id`,
		whereClause, args, sf)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []SaleWithProduct
	for rows.Next() {
		var s SaleWithProduct
		var saleDate time.Time
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.CustomerName, &s.Quantity, &s.TotalPrice, &saleDate); err != nil {
			return nil, 0, err
		}
		s.SaleDate = saleDate.UTC().Format(time.RFC3339)
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}

// RevenueByCategory sums sale totals grouped by the owning product's
// category; categories with no sales in range do not appear.
func (r *PostgresSaleRepository) RevenueByCategory(since, until *time.Time) ([]CategoryRevenue, error) {
	query := `SELECT p.category, SUM(s.total_price) AS revenue
		FROM sales s JOIN products p ON p.id = s.product_id WHERE 1=1`
	args := []any{}
	argIdx := 1
	if since != nil {
		query += fmt.Sprintf(" AND s.sale_date >= $%d", argIdx)
		args = append(args, *since)
		argIdx++
	}
	if until != nil {
		query += fmt.Sprintf(" AND s.sale_date <= $%d", argIdx)
		args = append(args, *until)
	}
	query += " GROUP BY p.category ORDER BY revenue DESC, p.category"

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revenues []CategoryRevenue
	for rows.Next() {
		var c CategoryRevenue
		if err := rows.Scan(&c.Category, &c.Revenue); err != nil {
			return nil, err
		}
		revenues = append(revenues, c)
	}
	return revenues, rows.Err()
}

// TopByRevenue returns the n products with highest summed sale revenue,
// ties broken by product id ascending.
func (r *PostgresSaleRepository) TopByRevenue(n int) ([]ProductRevenue, error) {
	query := `SELECT p.id, p.name, p.category, SUM(s.quantity), SUM(s.total_price) AS revenue
		FROM sales s JOIN products p ON p.id = s.product_id
		GROUP BY p.id, p.name, p.category
		ORDER BY revenue DESC, p.id
		LIMIT $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []ProductRevenue
	for rows.Next() {
		var p ProductRevenue
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	return top, rows.Err()
}

func saleWhereClause(base string, args []any, sf SaleFilter) (string, []any) {
	argIdx := len(args) + 1
	if sf.Since != nil {
		base += fmt.Sprintf(" AND sale_date >= $%d", argIdx)
		args = append(args, *sf.Since)
		argIdx++
	}
	if sf.Until != nil {
		base += fmt.Sprintf(" AND sale_date <= $%d", argIdx)
		args = append(args, *sf.Until)
	}
	return base, args
}

func saleMainQuery(selectClause, whereClause string, baseArgs []any, sf SaleFilter) (string, []any) {
	query := fmt.Sprintf("%s %s ORDER BY sale_date DESC", selectClause, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIdx := len(baseArgs) + 1

	limit := defaultLimit
	if sf.Limit != nil && *sf.Limit > 0 {
		limit = min(*sf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, limit)
	argIdx++

	if sf.Offset != nil && *sf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *sf.Offset)
	}
	return query, args
}

func (r *PostgresSaleRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sales %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	return total, err
}
