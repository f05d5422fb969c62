package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/erp-backend/internal/auth"
	api "github.com/retailops/erp-backend/internal/http"
	handler "github.com/retailops/erp-backend/internal/http/handlers"
	"github.com/retailops/erp-backend/internal/http/rate_limiter"
	"github.com/retailops/erp-backend/internal/models"
	"github.com/retailops/erp-backend/internal/repo"
)

var (
	token        string // admin
	managerToken string
	cashierToken string

	productRepo *repo.InMemoryProductRepository
	saleRepo    *repo.InMemorySaleRepository
	financeRepo *repo.InMemoryFinanceRepository
	userRepo    *repo.InMemoryUserRepository
)

func init() {
	setupTestRepos("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}

	managerToken, err = auth.GenerateToken(models.User{ID: 2, Username: "manager", Role: models.RoleManager})
	if err != nil {
		panic(err)
	}
	cashierToken, err = auth.GenerateToken(models.User{ID: 3, Username: "cashier", Role: models.RoleCashier})
	if err != nil {
		panic(err)
	}
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	financeRepo = repo.NewInMemoryFinanceRepository()
	handler.SetFinanceRepo(financeRepo)

	saleRepo = repo.NewInMemorySaleRepository(productRepo, financeRepo)
	handler.SetSaleRepo(saleRepo)

	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})

	metricsRepo := repo.NewInMemoryMetricsRepository()
	handler.SetMetricsRepo(metricsRepo)
	metricsRepo.SetRepositories(productRepo, saleRepo)

	rate_limiter.CleanupAllVisitors()
}

func clearAll() {
	productRepo.Clear()
	saleRepo.Clear()
	financeRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func recordSale(r http.Handler, bearer string, s handler.SaleRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(s)
	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+bearer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getWithToken(r http.Handler, url, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+bearer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
