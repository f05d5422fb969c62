package handlers

type ProductRequest struct {
	Id       int     `json:"id,omitempty"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

type ProductResponse struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	LowStock bool    `json:"low_stock,omitempty"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type SaleRequest struct {
	ProductID    int    `json:"product_id"`
	CustomerName string `json:"customer_name"`
	Quantity     int    `json:"quantity"`
}

type SaleResponse struct {
	ID           int     `json:"id"`
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name,omitempty"`
	CustomerName string  `json:"customer_name"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	SaleDate     string  `json:"sale_date"`
}

type SalesSearchResult struct {
	Data []SaleResponse `json:"data"`
	Meta Meta           `json:"meta,omitempty"`
}

type FinancialRecordRequest struct {
	TransactionType string  `json:"transaction_type"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
}

type MonthlySummaryResponse struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Income    float64 `json:"income"`
	Expense   float64 `json:"expense"`
	NetProfit float64 `json:"net_profit"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}
