package handlers

import (
	"net/http"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/metrics"
	"cfb-pickem/middleware"
	"cfb-pickem/services"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

// RouterConfig carries the HTTP-level settings
type RouterConfig struct {
	CORSOrigins  []string
	RateLimit    int // requests per window per IP on write routes; 0 disables
	RateWindow   time.Duration
	BehindProxy  bool
	AuthRequired bool
	AdminToken   string
	TokenExpiry  time.Duration
}

// Dependencies are the services the router exposes
type Dependencies struct {
	Store       *database.Store
	Catalog     *services.GameCatalog
	Predictions *services.PredictionService
	Board       *services.LeaderboardService
	Loader      *services.DataLoader
	Auth        *services.AuthService
	Recorder    *metrics.Recorder
	Clock       services.Clock
}

// NewRouter builds the API routes and wraps them in the shared middleware chain
func NewRouter(cfg RouterConfig, deps Dependencies) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Recorder))
	r.Use(middleware.SecurityMiddleware(cfg.BehindProxy))

	authMW := middleware.NewAuthMiddleware(deps.Auth, cfg.AdminToken)
	identify := authMW.OptionalAuth
	if cfg.AuthRequired {
		identify = authMW.RequireAuth
	}
	limit := func(h http.Handler) http.Handler { return h }
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		limit = httprate.LimitByIP(cfg.RateLimit, window)
	}

	games := NewGameHandler(deps.Catalog, deps.Loader, deps.Clock)
	predictions := NewPredictionHandler(deps.Predictions, deps.Clock)
	board := NewLeaderboardHandler(deps.Board, deps.Clock)
	auth := NewAuthHandler(deps.Auth, cfg.BehindProxy, cfg.TokenExpiry)
	admin := NewAdminHandler(deps.Loader)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", games.ListGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", games.GetGame).Methods(http.MethodGet)

	api.Handle("/predictions", limit(identify(http.HandlerFunc(predictions.Submit)))).Methods(http.MethodPost)
	api.Handle("/predictions", authMW.OptionalAuth(http.HandlerFunc(predictions.List))).Methods(http.MethodGet)

	api.HandleFunc("/leaderboard", board.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/profile", board.Profile).Methods(http.MethodGet)
	selfOrAdmin := authMW.RequireSelfOrAdmin("user")
	api.Handle("/users/{user}/achievements", limit(selfOrAdmin(http.HandlerFunc(board.Award)))).Methods(http.MethodPost)

	if deps.Auth != nil {
		api.Handle("/auth/register", limit(http.HandlerFunc(auth.Register))).Methods(http.MethodPost)
		api.Handle("/auth/login", limit(http.HandlerFunc(auth.Login))).Methods(http.MethodPost)
	}

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(authMW.RequireAdmin)
	if deps.Loader != nil {
		adminRouter.HandleFunc("/refresh", admin.Refresh).Methods(http.MethodPost)
		adminRouter.HandleFunc("/games/{id}/result", admin.ApplyResult).Methods(http.MethodPost)
	}

	r.HandleFunc("/healthz", healthHandler(deps.Store)).Methods(http.MethodGet)
	r.Handle("/metrics", deps.Recorder.Handler()).Methods(http.MethodGet)

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.AdminTokenHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}

type healthResponse struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
	Error  string `json:"error,omitempty"`
}

func healthHandler(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
			return
		}
		ctx, cancel := database.WithShortTimeout(r.Context())
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Driver: store.Driver, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Driver: store.Driver})
	}
}
