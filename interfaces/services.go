package interfaces

import (
	"context"
	"time"

	"cfb-pickem/models"
	"cfb-pickem/services"
)

// GameCatalog defines the game ingestion and lookup operations
type GameCatalog interface {
	UpsertGames(ctx context.Context, records []models.FeedRecord) services.IngestReport
	ApplyFinalResult(ctx context.Context, gameID string, homeScore, awayScore int, finalized bool) error
	Get(ctx context.Context, id string) (*models.Game, error)
	List(ctx context.Context) ([]*models.Game, error)
	ListViews(ctx context.Context, now time.Time) ([]models.GameView, error)
}

// PredictionService defines prediction submission operations
type PredictionService interface {
	Submit(ctx context.Context, user, gameID string, winner models.Side, total models.TotalDirection, now time.Time) (*models.Prediction, error)
	SubmitBatch(ctx context.Context, user string, inputs []models.PredictionInput, now time.Time) []models.SubmitOutcome
	ListByUser(ctx context.Context, user string) ([]*models.Prediction, error)
}

// LeaderboardService defines the derived read model and badge awarding
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	Profile(ctx context.Context, user string) (*models.Profile, error)
	AwardForUser(ctx context.Context, user string, now time.Time) ([]models.Badge, error)
}

// AchievementService defines badge persistence
type AchievementService interface {
	AwardAchievements(ctx context.Context, user string, currentStreak int, winRatePercent float64, scored int, now time.Time) ([]models.Badge, error)
	Badges(ctx context.Context, user string) ([]models.Badge, error)
}

// Refresher defines the feed-to-catalog pipeline
type Refresher interface {
	RefreshWeek(ctx context.Context) (*services.RefreshReport, error)
	Refresh(ctx context.Context, r services.DateRange) (*services.RefreshReport, error)
	ApplyResult(ctx context.Context, gameID string, homeScore, awayScore int, finalized bool) (*services.RefreshReport, error)
}

// AuthService defines authentication operations used by handlers
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	ValidateToken(tokenString string) (*services.JWTClaims, error)
}
