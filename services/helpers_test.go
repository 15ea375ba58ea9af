package services

import (
	"context"
	"testing"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/models"
)

var baseNow = time.Date(2025, 9, 4, 12, 0, 0, 0, time.UTC) // Thursday

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// mutableClock lets a test move time forward between calls
type mutableClock struct {
	now time.Time
}

func (c *mutableClock) Now() time.Time { return c.now }

func newTestStore() (*database.Store, *database.MemoryStore) {
	mem := database.NewMemoryStore()
	return database.NewMemoryBundle(mem), mem
}

func record(id string, kickoff time.Time, line float64) models.FeedRecord {
	return models.FeedRecord{
		ID:         id,
		ShortName:  "AWAY @ HOME " + id,
		HomeID:     "h" + id,
		HomeName:   "Home " + id,
		AwayID:     "a" + id,
		AwayName:   "Away " + id,
		KickoffUTC: kickoff.Format(time.RFC3339),
		OverUnder:  models.Float(line),
	}
}

// seedFinal stores a finalized game directly
func seedFinal(t *testing.T, store *database.Store, id string, kickoff time.Time, home, away int) {
	t.Helper()
	g := &models.Game{
		ID:        id,
		Kickoff:   &kickoff,
		HomeScore: models.Int(home),
		AwayScore: models.Int(away),
		Finalized: true,
	}
	if err := store.Games.SaveGame(context.Background(), g); err != nil {
		t.Fatalf("seed game %s: %v", id, err)
	}
}

// seedPrediction stores a prediction directly, bypassing the lock gate
func seedPrediction(t *testing.T, store *database.Store, user, gameID string, winner models.Side, total models.TotalDirection, line float64, at time.Time) {
	t.Helper()
	ctx := context.Background()
	p := &models.Prediction{
		User:       user,
		GameID:     gameID,
		Winner:     winner,
		Total:      total,
		LineAtPick: models.Float(line),
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	if err := store.Predictions.UpsertPrediction(ctx, p); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
	if err := store.Users.EnsureUser(ctx, user, at); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}
