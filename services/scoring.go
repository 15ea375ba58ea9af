package services

import (
	"sort"

	"cfb-pickem/models"
)

// Score grades one prediction against its game. It returns nil unless the
// game is finalized with both scores recorded.
//
// The winner call is correct only when the picked side strictly outscored the
// other, so a tie credits nobody. The total call needs the line frozen at pick
// time: over wins when total > line, under when total < line, and an exact
// match or a missing line earns nothing.
func Score(game *models.Game, prediction *models.Prediction) *models.ScoredResult {
	if game == nil || prediction == nil || !game.Finalized || !game.HasScores() {
		return nil
	}

	result := &models.ScoredResult{
		User:        prediction.User,
		GameID:      prediction.GameID,
		PredictedAt: prediction.CreatedAt,
	}

	if winner, ok := game.Winner(); ok {
		result.WinnerCorrect = prediction.Winner == winner
	}

	if prediction.LineAtPick != nil {
		total, _ := game.TotalPoints()
		line := *prediction.LineAtPick
		switch prediction.Total {
		case models.TotalOver:
			result.TotalCorrect = float64(total) > line
		case models.TotalUnder:
			result.TotalCorrect = float64(total) < line
		}
	}

	if result.WinnerCorrect {
		result.Points++
	}
	if result.TotalCorrect {
		result.Points++
	}
	return result
}

// IndexGames maps games by id
func IndexGames(games []*models.Game) map[string]*models.Game {
	index := make(map[string]*models.Game, len(games))
	for _, g := range games {
		index[g.ID] = g
	}
	return index
}

// ScoreChronological scores predictions and returns the results oldest first.
// Predictions on unknown or unfinished games are dropped.
// Order is prediction time, then kickoff, then game id.
func ScoreChronological(predictions []*models.Prediction, games map[string]*models.Game) []models.ScoredResult {
	type scored struct {
		result  models.ScoredResult
		kickoff int64
	}

	var items []scored
	for _, p := range predictions {
		game := games[p.GameID]
		r := Score(game, p)
		if r == nil {
			continue
		}
		var kick int64
		if game.Kickoff != nil {
			kick = game.Kickoff.UnixNano()
		}
		items = append(items, scored{result: *r, kickoff: kick})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.result.PredictedAt.Equal(b.result.PredictedAt) {
			return a.result.PredictedAt.Before(b.result.PredictedAt)
		}
		if a.kickoff != b.kickoff {
			return a.kickoff < b.kickoff
		}
		return a.result.GameID < b.result.GameID
	})

	results := make([]models.ScoredResult, len(items))
	for i, it := range items {
		results[i] = it.result
	}
	return results
}
