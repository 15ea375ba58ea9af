package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cfb-pickem/app"
	"cfb-pickem/config"
	"cfb-pickem/database"
	"cfb-pickem/models"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: database.DriverMemory},
		Feed:     config.FeedConfig{RetryAttempts: 1},
		Auth:     config.AuthConfig{JWTSecret: "cli-secret"},
	}
	a, err := app.New(context.Background(), cfg, app.Options{})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	kick := time.Now().Add(48 * time.Hour).UTC()
	report := a.Catalog.UpsertGames(context.Background(), []models.FeedRecord{{
		ID: "401", HomeName: "Home", AwayName: "Away", KickoffUTC: kick.Format(time.RFC3339), OverUnder: models.Float(52.5),
	}})
	if report.Inserted != 1 {
		t.Fatalf("seed: %+v", report)
	}
	if _, err := a.Predictions.Submit(context.Background(), "alice", "401", models.SideAway, models.TotalUnder, time.Now()); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
	return a
}

func TestResultThenLeaderboard(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, a, "result", []string{"-game", "401", "-home", "17", "-away", "24"}, &out); err != nil {
		t.Fatalf("result: %v", err)
	}
	if !strings.Contains(out.String(), `"401"`) {
		t.Fatalf("expected newly final game in report: %s", out.String())
	}

	out.Reset()
	if err := run(ctx, a, "leaderboard", nil, &out); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out.String(), "alice") || !strings.Contains(out.String(), "2 pts") {
		t.Fatalf("unexpected leaderboard output: %q", out.String())
	}

	out.Reset()
	if err := run(ctx, a, "award", []string{"-user", "alice"}, &out); err != nil {
		t.Fatalf("award: %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if err := run(ctx, a, "result", []string{"-game", "401"}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run(ctx, a, "award", nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run(ctx, a, "bogus", nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := parseRange("2025-09-06", ""); err == nil {
		t.Fatal("expected invalid range")
	}
	if r, err := parseRange("20250906", "20250907"); err != nil || r.String() != "20250906-20250907" {
		t.Fatalf("parseRange: %v %v", r, err)
	}
}

func TestUsersListsRegistrationState(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if _, err := a.Auth.Register(ctx, "bob", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var out bytes.Buffer
	if err := run(ctx, a, "users", nil, &out); err != nil {
		t.Fatalf("users: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two users, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "alice") || !strings.Contains(lines[0], "predictions only") {
		t.Fatalf("unexpected alice line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "bob") || !strings.Contains(lines[1], "registered") {
		t.Fatalf("unexpected bob line %q", lines[1])
	}
}
