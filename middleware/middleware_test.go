package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/services"
)

func newAuth(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()
	store := database.NewMemoryStore()
	auth := services.NewAuthService(store, "mw-secret", time.Hour)
	resp, err := auth.Register(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return NewAuthMiddleware(auth, "admin-secret"), resp.Token
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetUserFromContext(r)))
	})
}

func TestRequireAuth(t *testing.T) {
	mw, token := newAuth(t)
	h := mw.RequireAuth(echoUser())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "alice"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth_token", Value: token}) }, http.StatusOK, "alice"},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != tt.body {
				t.Fatalf("body %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestOptionalAuthPassesThrough(t *testing.T) {
	mw, _ := newAuth(t)
	rec := httptest.NewRecorder()
	mw.OptionalAuth(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("unexpected %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, _ := newAuth(t)
	h := mw.RequireAdmin(echoUser())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing token: got %d", rec.Code)
	}

	req.Header.Set(AdminTokenHeader, "admin-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: got %d", rec.Code)
	}

	open := NewAuthMiddleware(nil, "").RequireAdmin(echoUser())
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unconfigured admin token must refuse, got %d", rec.Code)
	}
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	var seen string
	h := RequestID(SecurityMiddleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("missing security headers: %v", rec.Header())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Fatalf("caller id not reused, got %q", seen)
	}
}

func TestSecurityBehindProxySkipsHSTSOnPlainHTTP(t *testing.T) {
	h := SecurityMiddleware(true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS should be omitted for non-https proxied requests")
	}
}
