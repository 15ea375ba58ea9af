package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"cfb-pickem/services"

	"github.com/gorilla/mux"
)

// UserContextKey is the key used to store the username in request context
type UserContextKey string

const UserKey UserContextKey = "user"

// AdminTokenHeader carries the shared admin secret
const AdminTokenHeader = "X-Admin-Token"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	authService *services.AuthService
	adminToken  string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *services.AuthService, adminToken string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		adminToken:  adminToken,
	}
}

// RequireAuth rejects requests without a valid token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := m.usernameFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth adds the username to the context when a valid token is present
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if username, err := m.usernameFromRequest(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), UserKey, username))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards admin routes with the configured shared token.
// With no token configured every admin request is refused.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.isAdmin(r) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrAdmin lets a request through when it carries the admin token or
// a token for the user named by the route variable.
func (m *AuthMiddleware) RequireSelfOrAdmin(routeVar string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.isAdmin(r) {
				next.ServeHTTP(w, r)
				return
			}
			username, err := m.usernameFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if username != mux.Vars(r)[routeVar] {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, username)))
		})
	}
}

func (m *AuthMiddleware) isAdmin(r *http.Request) bool {
	got := r.Header.Get(AdminTokenHeader)
	return m.adminToken != "" && subtle.ConstantTimeCompare([]byte(got), []byte(m.adminToken)) == 1
}

// usernameFromRequest extracts and validates the token from header or cookie
func (m *AuthMiddleware) usernameFromRequest(r *http.Request) (string, error) {
	token := ""
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}
	}
	if token == "" {
		if cookie, err := r.Cookie("auth_token"); err == nil {
			token = cookie.Value
		}
	}
	if token == "" || m.authService == nil {
		return "", http.ErrNoCookie
	}

	claims, err := m.authService.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// GetUserFromContext returns the authenticated username, or "" if none
func GetUserFromContext(r *http.Request) string {
	if user, ok := r.Context().Value(UserKey).(string); ok {
		return user
	}
	return ""
}

// IsAuthenticated checks if the request has an authenticated user
func IsAuthenticated(r *http.Request) bool {
	return GetUserFromContext(r) != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
