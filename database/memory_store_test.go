package database

import (
	"context"
	"testing"
	"time"

	"cfb-pickem/models"
)

func TestMemoryStoreGameRoundTripReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveGame(ctx, &models.Game{ID: "401", OverUnder: models.Float(50)}); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	g, err := s.GetGame(ctx, "401")
	if err != nil || g == nil {
		t.Fatalf("expected game, got %v, %v", g, err)
	}
	*g.OverUnder = 10

	again, _ := s.GetGame(ctx, "401")
	if *again.OverUnder != 50 {
		t.Fatalf("expected store to remain unchanged, got %v", *again.OverUnder)
	}
}

func TestMemoryStoreGetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if g, err := s.GetGame(ctx, "missing"); g != nil || err != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", g, err)
	}
	if p, err := s.GetPrediction(ctx, "alice", "missing"); p != nil || err != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", p, err)
	}
}

func TestMemoryStoreUpsertPredictionKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	_ = s.UpsertPrediction(ctx, &models.Prediction{User: "alice", GameID: "1", Winner: models.SideHome, Total: models.TotalOver, CreatedAt: first, UpdatedAt: first})
	_ = s.UpsertPrediction(ctx, &models.Prediction{User: "alice", GameID: "1", Winner: models.SideAway, Total: models.TotalUnder, CreatedAt: second, UpdatedAt: second})

	all, _ := s.ListPredictions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one prediction per key, got %d", len(all))
	}
	p := all[0]
	if p.Winner != models.SideAway || p.Total != models.TotalUnder {
		t.Fatalf("expected overwrite, got %+v", p)
	}
	if !p.CreatedAt.Equal(first) || !p.UpdatedAt.Equal(second) {
		t.Fatalf("timestamps wrong: created %v updated %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestMemoryStoreAwardIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := models.Achievement{User: "alice", Badge: models.BadgeStreak5, AwardedAt: time.Now()}

	created, err := s.Award(ctx, a)
	if err != nil || !created {
		t.Fatalf("first award: created=%v err=%v", created, err)
	}
	created, err = s.Award(ctx, a)
	if err != nil || created {
		t.Fatalf("second award: created=%v err=%v", created, err)
	}

	list, _ := s.ListAchievements(ctx, "alice")
	if len(list) != 1 {
		t.Fatalf("expected 1 achievement, got %d", len(list))
	}
}

func TestMemoryStoreEnsureUserDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &models.User{Username: "bob", PasswordHash: "hash", CreatedAt: time.Unix(100, 0)}
	_, _ = s.ClaimUser(ctx, u)

	if err := s.EnsureUser(ctx, "bob", time.Unix(200, 0)); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	got, _ := s.GetUser(ctx, "bob")
	if got.PasswordHash != "hash" || got.CreatedAt.Unix() != 100 {
		t.Fatalf("EnsureUser overwrote existing user: %+v", got)
	}
}

func TestMemoryStoreClaimUserOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.EnsureUser(ctx, "dana", time.Unix(100, 0))

	claimed, err := s.ClaimUser(ctx, &models.User{Username: "dana", PasswordHash: "first", CreatedAt: time.Unix(500, 0)})
	if err != nil || !claimed {
		t.Fatalf("expected first claim to succeed, got %v %v", claimed, err)
	}
	claimed, err = s.ClaimUser(ctx, &models.User{Username: "dana", PasswordHash: "second"})
	if err != nil || claimed {
		t.Fatalf("expected second claim to be refused, got %v %v", claimed, err)
	}

	got, _ := s.GetUser(ctx, "dana")
	if got.PasswordHash != "first" || got.CreatedAt.Unix() != 100 {
		t.Fatalf("unexpected user after claims: %+v", got)
	}
}
