package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/retailops/erp-backend/internal/http"
	handler "github.com/retailops/erp-backend/internal/http/handlers"
	"github.com/retailops/erp-backend/internal/http/rate_limiter"
	"github.com/retailops/erp-backend/internal/models"
)

func postLogin(r http.Handler, creds handler.CredentialsRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(creds)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postCreateUser(r http.Handler, bearer string, u handler.CreateUserRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(u)
	req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	rate_limiter.CleanupAllVisitors()
	r := api.NewRouter()

	t.Run("Valid credentials", func(t *testing.T) {
		w := postLogin(r, handler.CredentialsRequest{Username: "admin", Password: "secret"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp handler.LoginResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := postLogin(r, handler.CredentialsRequest{Username: "admin", Password: "wrong"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		w := postLogin(r, handler.CredentialsRequest{Username: "nobody", Password: "secret"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestLoginHandler_RateLimited(t *testing.T) {
	rate_limiter.CleanupAllVisitors()
	t.Cleanup(rate_limiter.CleanupAllVisitors)
	r := api.NewRouter()

	creds := handler.CredentialsRequest{Username: "admin", Password: "wrong"}
	limited := false
	for i := 0; i < 10; i++ {
		if w := postLogin(r, creds); w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected a 429 after hammering the login endpoint")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", w.Code)
	}
}

func TestCreateUserHandler(t *testing.T) {
	rate_limiter.CleanupAllVisitors()
	r := api.NewRouter()

	t.Run("Admin creates a cashier", func(t *testing.T) {
		w := postCreateUser(r, token, handler.CreateUserRequest{Username: "till1", Password: "till1pass", Role: models.RoleCashier})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var created models.User
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if created.Role != models.RoleCashier {
			t.Errorf("expected cashier role, got %q", created.Role)
		}

		// The new account can log in.
		lw := postLogin(r, handler.CredentialsRequest{Username: "till1", Password: "till1pass"})
		if lw.Code != http.StatusOK {
			t.Errorf("expected 200 login for new user, got %d", lw.Code)
		}
	})

	t.Run("Duplicate username", func(t *testing.T) {
		postCreateUser(r, token, handler.CreateUserRequest{Username: "dupe", Password: "dupepass", Role: models.RoleManager})
		w := postCreateUser(r, token, handler.CreateUserRequest{Username: "dupe", Password: "otherpass", Role: models.RoleManager})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}
	})

	t.Run("Invalid role", func(t *testing.T) {
		w := postCreateUser(r, token, handler.CreateUserRequest{Username: "weird", Password: "weirdpass", Role: "superuser"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Short password", func(t *testing.T) {
		w := postCreateUser(r, token, handler.CreateUserRequest{Username: "shorty", Password: "abc", Role: models.RoleCashier})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Non-admin forbidden", func(t *testing.T) {
		w := postCreateUser(r, managerToken, handler.CreateUserRequest{Username: "sneaky", Password: "sneakypass", Role: models.RoleAdmin})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for manager, got %d", w.Code)
		}
		w = postCreateUser(r, cashierToken, handler.CreateUserRequest{Username: "sneaky2", Password: "sneakypass", Role: models.RoleAdmin})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for cashier, got %d", w.Code)
		}
	})
}
