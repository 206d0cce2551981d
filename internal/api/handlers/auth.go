package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/warehouse/internal/auth"
	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/logger"
)

// AuthHandler handles login and account management
type AuthHandler struct {
	auth   *auth.Service
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   svc,
		logger: log,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type createAccountRequest struct {
	Login    string         `json:"login"`
	Password string         `json:"password"`
	Role     contracts.Role `json:"role"`
}

// Login exchanges credentials for a bearer token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.auth.Login(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid login or password")
		return
	case err != nil:
		h.logger.WithError(err).Error("Login failed")
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Me returns the caller's identity
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": claims.UserID,
		"login":   claims.Login,
		"role":    claims.Role,
	})
}

// ListAccounts returns every non-admin account
// GET /api/accounts
func (h *AuthHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListAccounts(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list accounts")
		respondError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	// roles an admin may hand out
	roles := make([]contracts.Role, 0, len(contracts.Roles))
	for _, role := range contracts.Roles {
		if role != contracts.RoleAdmin {
			roles = append(roles, role)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": users,
		"roles":    roles,
	})
}

// CreateAccount registers a new non-admin user
// POST /api/accounts
func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.CreateAccount(r.Context(), req.Login, req.Password, req.Role)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials), errors.Is(err, auth.ErrInvalidRole):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrLoginTaken):
		respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to create account")
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"login": user.Login,
		"role":  user.Role,
	}).Info("Account created")

	respondJSON(w, http.StatusCreated, user)
}
