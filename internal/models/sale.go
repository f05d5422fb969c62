package models

// Sale is a single recorded sale transaction. Sales are immutable once
// written; total price is recomputed server-side from the product price.
type Sale struct {
	ID           int     `json:"id"`
	ProductID    int     `json:"product_id"`
	CustomerName string  `json:"customer_name"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	SaleDate     string  `json:"sale_date"`
}
