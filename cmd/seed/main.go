// Command seed loads a demo dataset: a product catalog, three user
// accounts (one per role), a year of sales history and the matching
// financial records.
package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/erp-backend/internal/config"
	"github.com/retailops/erp-backend/internal/db"
	"github.com/retailops/erp-backend/internal/models"
	"github.com/retailops/erp-backend/internal/repo"
)

var seedProducts = []models.Product{
	{Name: "Laptop", Category: "Electronics", Price: 999.99, Stock: 25},
	{Name: "Smartphone", Category: "Electronics", Price: 699.99, Stock: 40},
	{Name: "Headphones", Category: "Electronics", Price: 149.99, Stock: 60},
	{Name: "T-Shirt", Category: "Clothing", Price: 19.99, Stock: 120},
	{Name: "Jeans", Category: "Clothing", Price: 49.99, Stock: 80},
	{Name: "Winter Jacket", Category: "Clothing", Price: 89.99, Stock: 30},
	{Name: "Coffee Beans 1kg", Category: "Food", Price: 24.99, Stock: 90},
	{Name: "Olive Oil 1l", Category: "Food", Price: 12.99, Stock: 70},
	{Name: "Cordless Drill", Category: "Tools", Price: 129.99, Stock: 15},
	{Name: "Hammer", Category: "Tools", Price: 15.99, Stock: 45},
	{Name: "Mystery Novel", Category: "Books", Price: 14.99, Stock: 55},
	{Name: "Cookbook", Category: "Books", Price: 29.99, Stock: 35},
	{Name: "Yoga Mat", Category: "Sports", Price: 34.99, Stock: 50},
	{Name: "Dumbbell Set", Category: "Sports", Price: 79.99, Stock: 20},
}

var seedUsers = []struct {
	Username string
	Password string
	Role     string
}{
	{"admin", "admin123", models.RoleAdmin},
	{"manager", "manager123", models.RoleManager},
	{"cashier", "cashier123", models.RoleCashier},
}

var customers = []string{
	"Alice Johnson", "Bob Smith", "Carol White", "David Brown",
	"Emma Davis", "Frank Miller", "Grace Wilson", "Henry Moore",
}

var expenseCategories = []string{"Rent", "Utilities", "Salaries", "Marketing", "Supplies", "Maintenance"}

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Could not ensure schema:", err)
	}

	productRepo := repo.NewPostgresProductRepository(database)
	saleRepo := repo.NewPostgresSaleRepository(database)
	financeRepo := repo.NewPostgresFinanceRepository(database)
	userRepo := repo.NewPostgresUserRepository(database)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		_, err = userRepo.CreateUser(models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			CreatedAt:    now,
		})
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			log.Printf("user %q already exists, skipping", u.Username)
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("seeded %d users", len(seedUsers))

	products := make([]models.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		p.CreatedAt = now.Format(time.RFC3339)
		created, err := productRepo.Create(p)
		if err != nil {
			log.Fatal(err)
		}
		products = append(products, created)
	}
	log.Printf("seeded %d products", len(products))

	// A year of history: a handful of sales per day plus one expense
	// record per category per month.
	saleCount := 0
	for day := 365; day > 0; day-- {
		date := now.AddDate(0, 0, -day)
		for i := 0; i < 1+rng.Intn(4); i++ {
			p := products[rng.Intn(len(products))]
			quantity := 1 + rng.Intn(5)
			customer := customers[rng.Intn(len(customers))]
			total := float64(quantity) * p.Price

			sale, err := saleRepo.Insert(models.Sale{
				ProductID:    p.ID,
				CustomerName: customer,
				Quantity:     quantity,
				TotalPrice:   total,
				SaleDate:     date.Format(time.RFC3339),
			})
			if err != nil {
				log.Fatal(err)
			}

			_, err = financeRepo.Create(models.FinancialRecord{
				TransactionType: models.TransactionIncome,
				Amount:          sale.TotalPrice,
				Category:        p.Category,
				Description:     fmt.Sprintf("Sale of %d x %s to %s", quantity, p.Name, customer),
				Date:            sale.SaleDate,
			})
			if err != nil {
				log.Fatal(err)
			}
			saleCount++
		}
	}
	log.Printf("seeded %d sales", saleCount)

	expenseCount := 0
	for month := 12; month > 0; month-- {
		date := now.AddDate(0, -month, 0)
		for _, category := range expenseCategories {
			amount := 200 + rng.Float64()*1800
			_, err := financeRepo.Create(models.FinancialRecord{
				TransactionType: models.TransactionExpense,
				Amount:          float64(int(amount*100)) / 100,
				Category:        category,
				Description:     fmt.Sprintf("%s for %s", category, date.Format("January 2006")),
				Date:            date.Format(time.RFC3339),
			})
			if err != nil {
				log.Fatal(err)
			}
			expenseCount++
		}
	}
	log.Printf("seeded %d expense records", expenseCount)
	log.Println("✅ Done")
}
