package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/models"
)

// BuildLeaderboard totals points per user over finalized games. Users with no
// scored prediction are left out. Ordering is points descending, then
// username case-insensitively, then the raw username so equal-folding names
// still order the same way every time. Ranks use competition ranking.
func BuildLeaderboard(predictions []*models.Prediction, games []*models.Game) []models.LeaderboardEntry {
	index := IndexGames(games)
	totals := make(map[string]*models.LeaderboardEntry)

	for _, p := range predictions {
		r := Score(index[p.GameID], p)
		if r == nil {
			continue
		}
		entry, ok := totals[p.User]
		if !ok {
			entry = &models.LeaderboardEntry{User: p.User}
			totals[p.User] = entry
		}
		entry.Points += r.Points
		entry.Scored++
	}

	board := make([]models.LeaderboardEntry, 0, len(totals))
	for _, e := range totals {
		board = append(board, *e)
	}

	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		la, lb := strings.ToLower(a.User), strings.ToLower(b.User)
		if la != lb {
			return la < lb
		}
		return a.User < b.User
	})

	for i := range board {
		if i > 0 && board[i].Points == board[i-1].Points {
			board[i].Rank = board[i-1].Rank
		} else {
			board[i].Rank = i + 1
		}
	}
	return board
}

// LeaderboardService loads current games and predictions and ranks users.
// Nothing is cached so the board always reflects stored data.
type LeaderboardService struct {
	games        database.GameRepository
	predictions  database.PredictionRepository
	users        database.UserRepository
	achievements *AchievementService
}

func NewLeaderboardService(store *database.Store, achievements *AchievementService) *LeaderboardService {
	return &LeaderboardService{
		games:        store.Games,
		predictions:  store.Predictions,
		users:        store.Users,
		achievements: achievements,
	}
}

// Leaderboard returns the current ranking
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	predictions, err := s.predictions.ListPredictions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	return BuildLeaderboard(predictions, games), nil
}

// userResults loads and scores one user's predictions oldest first
func (s *LeaderboardService) userResults(ctx context.Context, user string) ([]models.ScoredResult, int, error) {
	predictions, err := s.predictions.ListPredictionsByUser(ctx, user)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load predictions for %s: %w", user, err)
	}
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load games: %w", err)
	}
	results := ScoreChronological(predictions, IndexGames(games))
	return results, len(predictions) - len(results), nil
}

// Profile returns a user's derived record. It never writes.
func (s *LeaderboardService) Profile(ctx context.Context, user string) (*models.Profile, error) {
	u, err := s.users.GetUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", user, err)
	}
	if u == nil {
		return nil, &models.NotFoundError{Kind: "user", ID: user}
	}

	results, pending, err := s.userResults(ctx, user)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(results)

	badges, err := s.achievements.Badges(ctx, user)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		User:           user,
		WinRatePercent: stats.WinRatePercent,
		CurrentStreak:  stats.CurrentStreak,
		Badges:         badges,
		Stats:          stats,
		Pending:        pending,
	}, nil
}

// AwardForUser computes the user's stats, decides badges and applies them
func (s *LeaderboardService) AwardForUser(ctx context.Context, user string, now time.Time) ([]models.Badge, error) {
	results, _, err := s.userResults(ctx, user)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(results)
	return s.achievements.AwardAchievements(ctx, user, stats.CurrentStreak, stats.WinRatePercent, stats.Scored, now)
}
