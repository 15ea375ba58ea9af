package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"cfb-pickem/models"
)

func TestBuildLeaderboardTieBreakIsCaseInsensitive(t *testing.T) {
	games := []*models.Game{finalGame(30, 24)} // total 54
	predictions := []*models.Prediction{
		{User: "Bob", GameID: "g", Winner: models.SideHome, Total: models.TotalOver, LineAtPick: models.Float(50)},
		{User: "alice", GameID: "g", Winner: models.SideHome, Total: models.TotalOver, LineAtPick: models.Float(50)},
	}
	// give both 3 points with a second game
	g2 := &models.Game{ID: "g2", HomeScore: models.Int(7), AwayScore: models.Int(10), Finalized: true}
	games = append(games, g2)
	predictions = append(predictions,
		&models.Prediction{User: "Bob", GameID: "g2", Winner: models.SideAway, Total: models.TotalOver, LineAtPick: models.Float(45)},
		&models.Prediction{User: "alice", GameID: "g2", Winner: models.SideAway, Total: models.TotalOver, LineAtPick: models.Float(45)},
	)

	board := BuildLeaderboard(predictions, games)
	want := []models.LeaderboardEntry{
		{Rank: 1, User: "alice", Points: 3, Scored: 2},
		{Rank: 1, User: "Bob", Points: 3, Scored: 2},
	}
	if !reflect.DeepEqual(board, want) {
		t.Fatalf("BuildLeaderboard = %+v, want %+v", board, want)
	}
}

func TestBuildLeaderboardRanksAndOmitsUnscoredUsers(t *testing.T) {
	pending := &models.Game{ID: "p"}
	games := []*models.Game{finalGame(30, 24), pending}
	predictions := []*models.Prediction{
		{User: "carol", GameID: "g", Winner: models.SideHome, Total: models.TotalOver, LineAtPick: models.Float(50)},  // 2
		{User: "dave", GameID: "g", Winner: models.SideAway, Total: models.TotalUnder, LineAtPick: models.Float(50)},  // 0
		{User: "erin", GameID: "g", Winner: models.SideHome, Total: models.TotalUnder, LineAtPick: models.Float(50)},  // 1
		{User: "frank", GameID: "g", Winner: models.SideHome, Total: models.TotalUnder, LineAtPick: models.Float(50)}, // 1
		{User: "gina", GameID: "p", Winner: models.SideHome, Total: models.TotalOver, LineAtPick: models.Float(50)},
		{User: "hal", GameID: "unknown", Winner: models.SideHome, Total: models.TotalOver},
	}

	board := BuildLeaderboard(predictions, games)

	var got []string
	var ranks []int
	for _, e := range board {
		got = append(got, e.User)
		ranks = append(ranks, e.Rank)
	}
	if !reflect.DeepEqual(got, []string{"carol", "erin", "frank", "dave"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !reflect.DeepEqual(ranks, []int{1, 2, 2, 4}) {
		t.Fatalf("unexpected ranks %v", ranks)
	}
}

func TestBuildLeaderboardIsDeterministicForFoldedNames(t *testing.T) {
	games := []*models.Game{finalGame(1, 0)}
	predictions := []*models.Prediction{
		{User: "sam", GameID: "g", Winner: models.SideHome, Total: models.TotalOver},
		{User: "Sam", GameID: "g", Winner: models.SideHome, Total: models.TotalOver},
		{User: "SAM", GameID: "g", Winner: models.SideHome, Total: models.TotalOver},
	}
	for i := 0; i < 5; i++ {
		board := BuildLeaderboard(predictions, games)
		if board[0].User != "SAM" || board[1].User != "Sam" || board[2].User != "sam" {
			t.Fatalf("non-deterministic order: %+v", board)
		}
		predictions[0], predictions[2] = predictions[2], predictions[0]
	}
}

func TestLeaderboardServiceProfileAndAwards(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	achievements := NewAchievementService(store.Achievements, nil)
	board := NewLeaderboardService(store, achievements)

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		seedFinal(t, store, id, start.Add(time.Duration(i)*time.Hour*24), 30, 24)
		seedPrediction(t, store, "alice", id, models.SideHome, models.TotalOver, 50, start.Add(time.Duration(i)*time.Hour))
	}
	// pending game
	kick := start.Add(30 * 24 * time.Hour)
	_ = store.Games.SaveGame(ctx, &models.Game{ID: "later", Kickoff: &kick})
	seedPrediction(t, store, "alice", "later", models.SideHome, models.TotalOver, 50, start.Add(time.Hour*48))

	profile, err := board.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.CurrentStreak != 5 || profile.WinRatePercent != 100 || profile.Pending != 1 {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if len(profile.Badges) != 0 {
		t.Fatalf("profile read must not award badges, got %v", profile.Badges)
	}

	awarded, err := board.AwardForUser(ctx, "alice", start.Add(10*24*time.Hour))
	if err != nil || !reflect.DeepEqual(awarded, []models.Badge{models.BadgeStreak5}) {
		t.Fatalf("AwardForUser = %v, %v", awarded, err)
	}
	again, _ := board.AwardForUser(ctx, "alice", start.Add(11*24*time.Hour))
	if len(again) != 0 {
		t.Fatalf("repeat award should be empty, got %v", again)
	}

	profile, _ = board.Profile(ctx, "alice")
	if !reflect.DeepEqual(profile.Badges, []models.Badge{models.BadgeStreak5}) {
		t.Fatalf("expected Streak5 on profile, got %v", profile.Badges)
	}

	if _, err := board.Profile(ctx, "nobody"); !models.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for unknown user, got %v", err)
	}
}
