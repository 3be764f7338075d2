// Package http provides HTTP handlers for the authentication API:
// credential login and privilege retrieval.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkoval/authkit/internal/middleware"
	"github.com/dkoval/authkit/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Authenticate checks the submission and returns the outcome.
	// An error means an infrastructure failure, not a rejected login.
	Authenticate(context.Context, models.AuthInfo) (models.AuthResult, error)
}

// PrivilegeService loads the capability tree of an authenticated user.
type PrivilegeService interface {
	// Privileges returns the capability tree for the user ID.
	Privileges(ctx context.Context, userID string) ([]models.Privilege, error)
}

// AuthHandler handles HTTP requests for credential authentication.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Authenticate handles login requests.
// It expects a JSON AuthInfo body with a non-empty username. Business
// outcomes, including rejected credentials, are returned as a 200 with
// the result status; only infrastructure failures produce a 500.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var user models.AuthInfo
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil || user.Username == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.AuthService.Authenticate(r.Context(), user)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// PrivilegesHandler handles HTTP requests for the privilege tree.
type PrivilegesHandler struct {
	// PrivilegeService loads privileges for the authenticated user.
	PrivilegeService PrivilegeService
}

// Privileges returns the capability tree of the authenticated user.
// The user ID is taken from the request context populated by the
// token-auth middleware.
func (h *PrivilegesHandler) Privileges(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "no authenticated user", http.StatusUnauthorized)
		return
	}

	privileges, err := h.PrivilegeService.Privileges(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if privileges == nil {
		privileges = []models.Privilege{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(privileges)
}
