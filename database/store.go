package database

import (
	"context"
	"errors"
	"time"

	"cfb-pickem/models"
)

// ErrUserExists is returned when registering a username that already has credentials
var ErrUserExists = errors.New("user already exists")

// Storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Lookups return (nil, nil) when the record does not exist.

// GameRepository persists the game catalog
type GameRepository interface {
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGames(ctx context.Context) ([]*models.Game, error)
	SaveGame(ctx context.Context, game *models.Game) error
}

// PredictionRepository persists one prediction per (user, game)
type PredictionRepository interface {
	GetPrediction(ctx context.Context, user, gameID string) (*models.Prediction, error)
	// UpsertPrediction overwrites winner, total, line and UpdatedAt; CreatedAt is kept from the first write
	UpsertPrediction(ctx context.Context, p *models.Prediction) error
	ListPredictions(ctx context.Context) ([]*models.Prediction, error)
	ListPredictionsByUser(ctx context.Context, user string) ([]*models.Prediction, error)
	ListPredictionsByGame(ctx context.Context, gameID string) ([]*models.Prediction, error)
}

// AchievementRepository persists awarded badges
type AchievementRepository interface {
	// Award stores the achievement unless (user, badge) already exists. created is false on repeats.
	Award(ctx context.Context, a models.Achievement) (created bool, err error)
	ListAchievements(ctx context.Context, user string) ([]models.Achievement, error)
}

// UserRepository persists participants
type UserRepository interface {
	EnsureUser(ctx context.Context, username string, now time.Time) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	// ClaimUser stores the password hash unless the username already has one.
	// claimed is false when another registration got there first.
	ClaimUser(ctx context.Context, user *models.User) (claimed bool, err error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Store bundles the repositories of one storage backend
type Store struct {
	Driver       string
	Games        GameRepository
	Predictions  PredictionRepository
	Achievements AchievementRepository
	Users        UserRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases backend resources
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
