package database

import (
	"context"
	"fmt"

	"cfb-pickem/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	short_name  TEXT NOT NULL DEFAULT '',
	home_id     TEXT NOT NULL DEFAULT '',
	home_name   TEXT NOT NULL DEFAULT '',
	away_id     TEXT NOT NULL DEFAULT '',
	away_name   TEXT NOT NULL DEFAULT '',
	kickoff     TIMESTAMPTZ NULL,
	over_under  DOUBLE PRECISION NULL,
	home_score  INTEGER NULL,
	away_score  INTEGER NULL,
	finalized   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS predictions (
	username     TEXT NOT NULL,
	game_id      TEXT NOT NULL,
	winner       TEXT NOT NULL,
	total        TEXT NOT NULL,
	line_at_pick DOUBLE PRECISION NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (username, game_id)
);

CREATE INDEX IF NOT EXISTS predictions_game_id_idx ON predictions (game_id);

CREATE TABLE IF NOT EXISTS achievements (
	username   TEXT NOT NULL,
	badge      TEXT NOT NULL,
	awarded_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (username, badge)
);
`

// NewPostgresPool connects to Postgres and makes sure the schema exists
func NewPostgresPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	logger := logging.WithPrefix("Postgres")

	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	pool, err := pgxpool.New(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply postgres schema: %w", err)
	}

	logger.Info("Connected to Postgres and ensured schema")
	return pool, nil
}

// NewPostgresStore builds the repository bundle on top of a pgx pool
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Driver:       DriverPostgres,
		Games:        NewPostgresGameRepository(pool),
		Predictions:  NewPostgresPredictionRepository(pool),
		Achievements: NewPostgresAchievementRepository(pool),
		Users:        NewPostgresUserRepository(pool),
		ping: func(ctx context.Context) error {
			ctx, cancel := WithShortTimeout(ctx)
			defer cancel()
			return pool.Ping(ctx)
		},
		close: func() error {
			pool.Close()
			return nil
		},
	}
}
