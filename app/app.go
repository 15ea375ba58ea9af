// Package app assembles storage, feed and services from configuration. The
// HTTP server and the admin CLI share it.
package app

import (
	"context"
	"fmt"
	"net/http"

	"cfb-pickem/config"
	"cfb-pickem/database"
	"cfb-pickem/handlers"
	"cfb-pickem/logging"
	"cfb-pickem/metrics"
	"cfb-pickem/services"

	"github.com/redis/go-redis/v9"
)

// App holds the wired components
type App struct {
	Config      *config.Config
	Store       *database.Store
	Recorder    *metrics.Recorder
	Feed        services.Feed
	Catalog     *services.GameCatalog
	Predictions *services.PredictionService
	Board       *services.LeaderboardService
	Loader      *services.DataLoader
	Auth        *services.AuthService
	Clock       services.Clock

	redis *redis.Client
}

// Options tweak assembly
type Options struct {
	// FallbackToMemory swaps in in-memory storage when the configured backend is unreachable
	FallbackToMemory bool
}

// New connects storage and builds the service graph
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := logging.WithPrefix("App")

	store, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		if !opts.FallbackToMemory {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Database.Driver, err)
		}
		logger.Errorf("Storage %s unavailable, continuing with in-memory storage: %v", cfg.Database.Driver, err)
		store = database.NewMemoryBundle(database.NewMemoryStore())
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Recorder: metrics.NewRecorder(),
		Clock:    services.SystemClock,
	}

	feedCfg := cfg.ToFeedConfig()
	var feed services.Feed = services.NewRetryingFeed(
		services.NewESPNService(feedCfg.ScoreboardURL, feedCfg.Timeout),
		"espn", a.Recorder, feedCfg.RetryAttempts, feedCfg.RetryBackoff,
	)
	if redisOpts := cfg.RedisOptions(); redisOpts != nil {
		client := redis.NewClient(redisOpts)
		pingCtx, cancel := database.WithShortTimeout(ctx)
		perr := client.Ping(pingCtx).Err()
		cancel()
		if perr != nil {
			logger.Warnf("Redis %s unreachable, feed cache disabled: %v", redisOpts.Addr, perr)
			_ = client.Close()
		} else {
			logger.Infof("Feed cache enabled on %s (ttl %s)", redisOpts.Addr, feedCfg.CacheTTL)
			feed = services.NewCachedFeed(feed, client, feedCfg.CacheTTL)
			a.redis = client
		}
	}
	a.Feed = feed

	a.Catalog = services.NewGameCatalog(store.Games, a.Clock, a.Recorder)
	a.Predictions = services.NewPredictionService(store, a.Recorder)
	a.Board = services.NewLeaderboardService(store, services.NewAchievementService(store.Achievements, a.Recorder))
	a.Loader = services.NewDataLoader(feed, a.Catalog, store.Predictions, a.Board, a.Clock)
	a.Auth = services.NewAuthService(store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return a, nil
}

// Handler builds the HTTP router over the wired services
func (a *App) Handler() http.Handler {
	cfg := a.Config
	return handlers.NewRouter(handlers.RouterConfig{
		CORSOrigins:  cfg.Server.CORSOrigins,
		RateLimit:    cfg.Server.RateLimit,
		RateWindow:   cfg.Server.RateLimitEvery,
		BehindProxy:  cfg.Server.BehindProxy,
		AuthRequired: cfg.Auth.AuthRequired,
		AdminToken:   cfg.Auth.AdminToken,
		TokenExpiry:  cfg.Auth.TokenTTL,
	}, handlers.Dependencies{
		Store:       a.Store,
		Catalog:     a.Catalog,
		Predictions: a.Predictions,
		Board:       a.Board,
		Loader:      a.Loader,
		Auth:        a.Auth,
		Recorder:    a.Recorder,
		Clock:       a.Clock,
	})
}

// Close releases storage and cache connections
func (a *App) Close() error {
	var cerr error
	if a.redis != nil {
		cerr = a.redis.Close()
	}
	if err := a.Store.Close(); err != nil {
		return err
	}
	return cerr
}
