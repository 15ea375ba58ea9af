package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"cfb-pickem/models"
)

func results(fullyCorrect ...bool) []models.ScoredResult {
	out := make([]models.ScoredResult, len(fullyCorrect))
	for i, ok := range fullyCorrect {
		if ok {
			out[i] = models.ScoredResult{WinnerCorrect: true, TotalCorrect: true, Points: 2}
		} else {
			out[i] = models.ScoredResult{WinnerCorrect: true, Points: 1}
		}
	}
	return out
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name string
		in   []models.ScoredResult
		want int
	}{
		{"empty", nil, 0},
		{"trailing single after break", results(true, true, false, true), 1},
		{"all correct", results(true, true, true), 3},
		{"ends on miss", results(true, true, false), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(tt.in); got != tt.want {
				t.Fatalf("ComputeStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	in := append(results(true, true, true, false), models.ScoredResult{TotalCorrect: true, Points: 1}, models.ScoredResult{WinnerCorrect: true, TotalCorrect: true, Points: 2})
	stats := ComputeStats(in)

	want := models.UserStats{
		Scored:         6,
		Points:         10,
		WinnersCorrect: 5,
		TotalsCorrect:  5,
		FullyCorrect:   4,
		WinRatePercent: float64(5) / 6 * 100,
		CurrentStreak:  1,
		LongestStreak:  3,
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("ComputeStats = %+v, want %+v", stats, want)
	}
	if ComputeStreak(in) != stats.CurrentStreak {
		t.Fatalf("stats streak disagrees with ComputeStreak")
	}
}

func TestDecideBadges(t *testing.T) {
	tests := []struct {
		streak int
		rate   float64
		scored int
		want   []models.Badge
	}{
		{4, 100, 20, []models.Badge{models.BadgeWin80}},
		{5, 50, 5, []models.Badge{models.BadgeStreak5}},
		{6, 80, 10, []models.Badge{models.BadgeStreak5, models.BadgeWin80}},
		{0, 90, 9, nil},
		{0, 79.9, 50, nil},
	}
	for _, tt := range tests {
		got := DecideBadges(tt.streak, tt.rate, tt.scored)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("DecideBadges(%d, %v, %d) = %v, want %v", tt.streak, tt.rate, tt.scored, got, tt.want)
		}
	}
}

func TestAwardAchievementsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	svc := NewAchievementService(store.Achievements, nil)
	now := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)

	first, err := svc.AwardAchievements(ctx, "alice", 5, 50, 8, now)
	if err != nil || len(first) != 1 || first[0] != models.BadgeStreak5 {
		t.Fatalf("first award: %v %v", first, err)
	}
	second, err := svc.AwardAchievements(ctx, "alice", 5, 50, 8, now.Add(time.Hour))
	if err != nil || len(second) != 0 {
		t.Fatalf("second award should add nothing: %v %v", second, err)
	}

	stored, _ := store.Achievements.ListAchievements(ctx, "alice")
	if len(stored) != 1 || stored[0].Badge != models.BadgeStreak5 || !stored[0].AwardedAt.Equal(now) {
		t.Fatalf("expected exactly one Streak5, got %+v", stored)
	}
}
