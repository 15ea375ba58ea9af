package handlers

import (
	"net/http"
	"strings"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/models"
	"cfb-pickem/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	behindProxy bool
	tokenExpiry time.Duration
	logger      *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *services.AuthService, behindProxy bool, tokenExpiry time.Duration) *AuthHandler {
	if tokenExpiry <= 0 {
		tokenExpiry = services.DefaultTokenExpiry
	}
	return &AuthHandler{
		authService: authService,
		behindProxy: behindProxy,
		tokenExpiry: tokenExpiry,
		logger:      logging.WithPrefix("AuthHandler"),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	authResponse, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Infof("Registration failed for %s: %v", req.Username, err)
		writeServiceError(w, err)
		return
	}

	h.setAuthCookie(w, authResponse.Token)
	h.logger.Infof("User %s registered", authResponse.User.Username)
	writeJSON(w, http.StatusCreated, authResponse)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	authResponse, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Infof("Login failed for %s: %v", req.Username, err)
		writeServiceError(w, err)
		return
	}

	h.setAuthCookie(w, authResponse.Token)
	h.logger.Infof("User %s logged in", authResponse.User.Username)
	writeJSON(w, http.StatusOK, authResponse)
}

func (h *AuthHandler) readCredentials(w http.ResponseWriter, r *http.Request) (models.LoginRequest, bool) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return req, false
	}
	return req, true
}

// setAuthCookie sets the authentication cookie
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		Secure:   !h.behindProxy, // TLS terminates at the proxy
		SameSite: http.SameSiteStrictMode,
	})
}
