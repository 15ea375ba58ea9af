package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cfb-pickem/models"
)

func TestUpsertGamesInsertsThenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	clock := &mutableClock{now: baseNow}
	catalog := NewGameCatalog(store.Games, clock.Now, nil)

	kick := baseNow.Add(48 * time.Hour)
	batch := []models.FeedRecord{record("1", kick, 50.5), record("2", kick.Add(time.Hour), 61)}

	first := catalog.UpsertGames(ctx, batch)
	if first.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %+v", first)
	}
	after1, _ := store.Games.ListGames(ctx)

	clock.now = baseNow.Add(time.Minute)
	second := catalog.UpsertGames(ctx, batch)
	if second.Unchanged != 2 || second.Inserted != 0 || second.Updated != 0 {
		t.Fatalf("expected 2 unchanged on repeat, got %+v", second)
	}
	after2, _ := store.Games.ListGames(ctx)

	if !reflect.DeepEqual(after1, after2) {
		t.Fatalf("catalog changed on identical upsert:\n%+v\n%+v", after1, after2)
	}
}

func TestUpsertGamesSkipsMalformedAndContinues(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	kick := baseNow.Add(24 * time.Hour)
	bad := record("", kick, 40)
	report := catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 40), bad, record("3", kick, 44)})

	if report.Inserted != 2 {
		t.Fatalf("expected good records to apply, got %+v", report)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Index != 1 {
		t.Fatalf("expected record 1 skipped, got %+v", report.Skipped)
	}
}

func TestUpsertGamesOverwritesDescriptiveFieldsBeforeKickoff(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	kick := baseNow.Add(24 * time.Hour)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 50)})

	moved := record("1", kick.Add(30*time.Minute), 52.5)
	moved.HomeName = "Renamed"
	report := catalog.UpsertGames(ctx, []models.FeedRecord{moved})
	if report.Updated != 1 {
		t.Fatalf("expected update, got %+v", report)
	}

	g, _ := catalog.Get(ctx, "1")
	if *g.OverUnder != 52.5 || g.HomeName != "Renamed" || !g.Kickoff.Equal(kick.Add(30*time.Minute)) {
		t.Fatalf("descriptive fields not refreshed: %+v", g)
	}
}

func TestUpsertGamesFreezesLineAfterKickoff(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	clock := &mutableClock{now: baseNow}
	catalog := NewGameCatalog(store.Games, clock.Now, nil)

	kick := baseNow.Add(time.Hour)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 50)})

	clock.now = kick.Add(time.Minute)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 58)})

	g, _ := catalog.Get(ctx, "1")
	if *g.OverUnder != 50 {
		t.Fatalf("line changed after kickoff: %v", *g.OverUnder)
	}
}

func TestUpsertGamesKeepsLineWhenOddsMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	kick := baseNow.Add(24 * time.Hour)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 47.5)})

	noOdds := record("1", kick, 0)
	noOdds.OverUnder = nil
	catalog.UpsertGames(ctx, []models.FeedRecord{noOdds})

	g, _ := catalog.Get(ctx, "1")
	if g.OverUnder == nil || *g.OverUnder != 47.5 {
		t.Fatalf("expected known line to survive, got %v", g.OverUnder)
	}
}

func TestUpsertGamesNeverTouchesScores(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	kick := baseNow.Add(-5 * time.Hour)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", kick, 50)})
	if err := catalog.ApplyFinalResult(ctx, "1", 30, 24, true); err != nil {
		t.Fatalf("ApplyFinalResult: %v", err)
	}

	stale := record("1", kick, 50)
	stale.FinalHomeScore = models.Int(0)
	stale.FinalAwayScore = models.Int(0)
	stale.Finalized = models.Bool(false)
	catalog.UpsertGames(ctx, []models.FeedRecord{stale})

	g, _ := catalog.Get(ctx, "1")
	if !g.Finalized || *g.HomeScore != 30 || *g.AwayScore != 24 {
		t.Fatalf("upsert clobbered result: %+v", g)
	}
}

func TestUpsertGamesUnknownKickoffStaysOpen(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	rec := record("tbd", baseNow, 50)
	rec.KickoffUTC = "TBD"
	report := catalog.UpsertGames(ctx, []models.FeedRecord{rec})

	if len(report.UnknownKickoff) != 1 || report.UnknownKickoff[0] != "tbd" {
		t.Fatalf("expected unknown kickoff reported, got %+v", report)
	}
	g, _ := catalog.Get(ctx, "tbd")
	if g.Kickoff != nil || IsLocked(g, baseNow.Add(1000*time.Hour)) {
		t.Fatalf("expected game without kickoff to stay unlocked")
	}
}

func TestApplyFinalResultRules(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)
	catalog.UpsertGames(ctx, []models.FeedRecord{record("1", baseNow.Add(-4*time.Hour), 50)})

	if err := catalog.ApplyFinalResult(ctx, "missing", 1, 0, true); !models.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// provisional
	newlyFinal, err := catalog.RecordResult(ctx, "1", 14, 10, false)
	if err != nil || newlyFinal {
		t.Fatalf("provisional: newlyFinal=%v err=%v", newlyFinal, err)
	}

	newlyFinal, err = catalog.RecordResult(ctx, "1", 30, 24, true)
	if err != nil || !newlyFinal {
		t.Fatalf("final: newlyFinal=%v err=%v", newlyFinal, err)
	}

	// identical re-apply is a no-op
	newlyFinal, err = catalog.RecordResult(ctx, "1", 30, 24, true)
	if err != nil || newlyFinal {
		t.Fatalf("re-apply: newlyFinal=%v err=%v", newlyFinal, err)
	}

	if err := catalog.ApplyFinalResult(ctx, "1", 31, 24, true); !errors.Is(err, models.ErrResultFinalized) {
		t.Fatalf("expected ErrResultFinalized, got %v", err)
	}
	if err := catalog.ApplyFinalResult(ctx, "1", 30, 24, false); err != nil {
		t.Fatalf("provisional identical after final should be a no-op, got %v", err)
	}

	g, _ := catalog.Get(ctx, "1")
	if !g.Finalized || *g.HomeScore != 30 || *g.AwayScore != 24 {
		t.Fatalf("final result changed: %+v", g)
	}
}

func TestApplyFinalResultRejectsNegativeScores(t *testing.T) {
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	if err := catalog.ApplyFinalResult(context.Background(), "1", -1, 3, true); !models.IsInvalidSelection(err) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
}

func TestListViewsOrdersByKickoffAndFlagsLocks(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	catalog := NewGameCatalog(store.Games, fixedClock(baseNow), nil)

	tbd := record("c", baseNow, 40)
	tbd.KickoffUTC = ""
	catalog.UpsertGames(ctx, []models.FeedRecord{
		record("b", baseNow.Add(2*time.Hour), 40),
		tbd,
		record("a", baseNow.Add(-time.Hour), 40),
	})

	views, err := catalog.ListViews(ctx, baseNow)
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	got := []string{views[0].ID, views[1].ID, views[2].ID}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !views[0].Locked || views[1].Locked || views[2].Locked {
		t.Fatalf("unexpected lock flags %v %v %v", views[0].Locked, views[1].Locked, views[2].Locked)
	}
}
