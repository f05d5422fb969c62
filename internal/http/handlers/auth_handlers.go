package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/erp-backend/internal/auth"
	models "github.com/retailops/erp-backend/internal/models"
	repo "github.com/retailops/erp-backend/internal/repo"
)

// LoginHandler godoc
// @Summary Authenticate and obtain a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("could not look up user %q: %v", creds.Username, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Printf("could not generate token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token})
}

// CreateUserHandler godoc
// @Summary Create a user account (admin only)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User to create"
// @Success 201 {object} models.User
// @Failure 400 {object} []ValidationError
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "Username already taken"
// @Router /admin/users [post]
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if role != models.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateUser(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := userRepo.CreateUser(user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already taken", http.StatusConflict)
			return
		}
		log.Printf("could not create user: %v", err)
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func validateUser(u CreateUserRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(u.Username) == "" {
		errs = append(errs, ValidationError{Field: "Username", Description: "Username is required"})
	}
	if len(u.Password) < 6 {
		errs = append(errs, ValidationError{Field: "Password", Description: "Password must be at least 6 characters"})
	}
	if !models.ValidRole(u.Role) {
		errs = append(errs, ValidationError{Field: "Role", Description: "Role must be admin, manager or cashier"})
	}
	return errs
}
