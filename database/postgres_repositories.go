package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresGameRepository struct {
	db *pgxpool.Pool
}

func NewPostgresGameRepository(db *pgxpool.Pool) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

const gameColumns = `id, short_name, home_id, home_name, away_id, away_name,
	kickoff, over_under, home_score, away_score, finalized, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID,
		&g.ShortName,
		&g.HomeID,
		&g.HomeName,
		&g.AwayID,
		&g.AwayName,
		&g.Kickoff,
		&g.OverUnder,
		&g.HomeScore,
		&g.AwayScore,
		&g.Finalized,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresGameRepository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	g, err := scanGame(r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return g, nil
}

func (r *PostgresGameRepository) ListGames(ctx context.Context) ([]*models.Game, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY kickoff NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *PostgresGameRepository) SaveGame(ctx context.Context, g *models.Game) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			short_name = EXCLUDED.short_name,
			home_id = EXCLUDED.home_id,
			home_name = EXCLUDED.home_name,
			away_id = EXCLUDED.away_id,
			away_name = EXCLUDED.away_name,
			kickoff = EXCLUDED.kickoff,
			over_under = EXCLUDED.over_under,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			finalized = EXCLUDED.finalized,
			updated_at = EXCLUDED.updated_at
	`,
		g.ID, g.ShortName, g.HomeID, g.HomeName, g.AwayID, g.AwayName,
		g.Kickoff, g.OverUnder, g.HomeScore, g.AwayScore, g.Finalized, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game %s: %w", g.ID, err)
	}
	return nil
}

type PostgresPredictionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPredictionRepository(db *pgxpool.Pool) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `username, game_id, winner, total, line_at_pick, created_at, updated_at`

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var (
		p             models.Prediction
		winner, total string
	)
	if err := row.Scan(&p.User, &p.GameID, &winner, &total, &p.LineAtPick, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Winner = models.Side(winner)
	p.Total = models.TotalDirection(total)
	return &p, nil
}

func (r *PostgresPredictionRepository) GetPrediction(ctx context.Context, user, gameID string) (*models.Prediction, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	p, err := scanPrediction(r.db.QueryRow(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE username = $1 AND game_id = $2`, user, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prediction %s/%s: %w", user, gameID, err)
	}
	return p, nil
}

func (r *PostgresPredictionRepository) UpsertPrediction(ctx context.Context, p *models.Prediction) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO predictions (`+predictionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username, game_id) DO UPDATE SET
			winner = EXCLUDED.winner,
			total = EXCLUDED.total,
			line_at_pick = EXCLUDED.line_at_pick,
			updated_at = EXCLUDED.updated_at
	`, p.User, p.GameID, string(p.Winner), string(p.Total), p.LineAtPick, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction %s/%s: %w", p.User, p.GameID, err)
	}
	return nil
}

func (r *PostgresPredictionRepository) ListPredictions(ctx context.Context) ([]*models.Prediction, error) {
	return r.query(ctx, `SELECT `+predictionColumns+` FROM predictions ORDER BY username, game_id`)
}

func (r *PostgresPredictionRepository) ListPredictionsByUser(ctx context.Context, user string) ([]*models.Prediction, error) {
	return r.query(ctx, `SELECT `+predictionColumns+` FROM predictions WHERE username = $1 ORDER BY game_id`, user)
}

func (r *PostgresPredictionRepository) ListPredictionsByGame(ctx context.Context, gameID string) ([]*models.Prediction, error) {
	return r.query(ctx, `SELECT `+predictionColumns+` FROM predictions WHERE game_id = $1 ORDER BY username`, gameID)
}

func (r *PostgresPredictionRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Prediction, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

type PostgresAchievementRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAchievementRepository(db *pgxpool.Pool) *PostgresAchievementRepository {
	return &PostgresAchievementRepository{db: db}
}

func (r *PostgresAchievementRepository) Award(ctx context.Context, a models.Achievement) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO achievements (username, badge, awarded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username, badge) DO NOTHING
	`, a.User, string(a.Badge), a.AwardedAt)
	if err != nil {
		return false, fmt.Errorf("failed to award %s to %s: %w", a.Badge, a.User, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresAchievementRepository) ListAchievements(ctx context.Context, user string) ([]models.Achievement, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT username, badge, awarded_at FROM achievements WHERE username = $1 ORDER BY badge`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for %s: %w", user, err)
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var (
			a     models.Achievement
			badge string
		)
		if err := rows.Scan(&a.User, &badge, &a.AwardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		a.Badge = models.Badge(badge)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) EnsureUser(ctx context.Context, username string, now time.Time) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (username, created_at) VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, now)
	if err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", username, err)
	}
	return nil
}

func (r *PostgresUserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var u models.User
	err := r.db.QueryRow(ctx, `SELECT username, password_hash, created_at FROM users WHERE username = $1`, username).
		Scan(&u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &u, nil
}

func (r *PostgresUserRepository) ClaimUser(ctx context.Context, u *models.User) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		WHERE users.password_hash = ''
	`, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to claim user %s: %w", u.Username, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT username, password_hash, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
