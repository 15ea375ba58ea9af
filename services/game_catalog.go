package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/metrics"
	"cfb-pickem/models"
)

// IngestReport summarizes one UpsertGames batch
type IngestReport struct {
	Inserted       int                            `json:"inserted"`
	Updated        int                            `json:"updated"`
	Unchanged      int                            `json:"unchanged"`
	Skipped        []*models.MalformedRecordError `json:"-"`
	Failed         []error                        `json:"-"`
	UnknownKickoff []string                       `json:"unknownKickoff,omitempty"`
}

// GameCatalog is the only writer of games. Merges are serialized; reads go
// straight to the repository.
type GameCatalog struct {
	games    database.GameRepository
	clock    Clock
	recorder *metrics.Recorder
	logger   *logging.Logger

	mu sync.Mutex
}

// NewGameCatalog creates a catalog over the given repository
func NewGameCatalog(games database.GameRepository, clock Clock, recorder *metrics.Recorder) *GameCatalog {
	if clock == nil {
		clock = SystemClock
	}
	return &GameCatalog{
		games:    games,
		clock:    clock,
		recorder: recorder,
		logger:   logging.WithPrefix("GameCatalog"),
	}
}

// UpsertGames merges freshly fetched records. New ids are inserted; known ids
// get their descriptive fields overwritten. Scores and the finalized flag are
// never touched here. Bad records are skipped and reported.
func (c *GameCatalog) UpsertGames(ctx context.Context, records []models.FeedRecord) IngestReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	var report IngestReport
	now := c.clock()

	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			report.Skipped = append(report.Skipped, &models.MalformedRecordError{Index: i, Reason: "missing id"})
			c.recorder.RecordIngest(metrics.OutcomeMalformed)
			c.logger.Warnf("Skipping record %d: missing id", i)
			continue
		}

		existing, err := c.games.GetGame(ctx, id)
		if err != nil {
			report.Failed = append(report.Failed, fmt.Errorf("load game %s: %w", id, err))
			c.recorder.RecordIngest(metrics.OutcomeError)
			continue
		}

		kickoff, ok := ParseKickoff(rec.KickoffUTC)
		if !ok {
			report.UnknownKickoff = append(report.UnknownKickoff, id)
			c.logger.Warnf("Game %s has missing or unparseable kickoff %q; it stays open for predictions", id, rec.KickoffUTC)
		}

		if existing == nil {
			game := &models.Game{
				ID:        id,
				ShortName: rec.ShortName,
				HomeID:    rec.HomeID,
				HomeName:  rec.HomeName,
				AwayID:    rec.AwayID,
				AwayName:  rec.AwayName,
				OverUnder: copyFloat(rec.OverUnder),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if ok {
				game.Kickoff = &kickoff
			}
			if err := c.games.SaveGame(ctx, game); err != nil {
				report.Failed = append(report.Failed, fmt.Errorf("insert game %s: %w", id, err))
				c.recorder.RecordIngest(metrics.OutcomeError)
				continue
			}
			report.Inserted++
			c.recorder.RecordIngest(metrics.OutcomeInserted)
			continue
		}

		next := mergeDescriptive(existing, rec, kickoff, ok, now)
		if sameDescriptive(existing, next) {
			report.Unchanged++
			c.recorder.RecordIngest(metrics.OutcomeUnchanged)
			continue
		}

		next.UpdatedAt = now
		if err := c.games.SaveGame(ctx, next); err != nil {
			report.Failed = append(report.Failed, fmt.Errorf("update game %s: %w", id, err))
			c.recorder.RecordIngest(metrics.OutcomeError)
			continue
		}
		report.Updated++
		c.recorder.RecordIngest(metrics.OutcomeUpdated)
	}

	c.logger.Infof("Ingested %d records: %d inserted, %d updated, %d unchanged, %d skipped, %d failed",
		len(records), report.Inserted, report.Updated, report.Unchanged, len(report.Skipped), len(report.Failed))
	return report
}

// mergeDescriptive overlays a feed record on a stored game.
// The line is frozen once the stored game has kicked off, and a record
// without odds or kickoff keeps the stored value.
func mergeDescriptive(existing *models.Game, rec models.FeedRecord, kickoff time.Time, kickoffOK bool, now time.Time) *models.Game {
	next := existing.Clone()
	next.ShortName = rec.ShortName
	next.HomeID = rec.HomeID
	next.HomeName = rec.HomeName
	next.AwayID = rec.AwayID
	next.AwayName = rec.AwayName

	if rec.OverUnder != nil && !IsLocked(existing, now) {
		next.OverUnder = copyFloat(rec.OverUnder)
	}
	if kickoffOK {
		next.Kickoff = &kickoff
	}
	return next
}

func sameDescriptive(a, b *models.Game) bool {
	return a.ShortName == b.ShortName &&
		a.HomeID == b.HomeID &&
		a.HomeName == b.HomeName &&
		a.AwayID == b.AwayID &&
		a.AwayName == b.AwayName &&
		sameTime(a.Kickoff, b.Kickoff) &&
		sameFloat(a.OverUnder, b.OverUnder)
}

// ApplyFinalResult is the only path that writes scores
func (c *GameCatalog) ApplyFinalResult(ctx context.Context, gameID string, homeScore, awayScore int, finalized bool) error {
	_, err := c.RecordResult(ctx, gameID, homeScore, awayScore, finalized)
	return err
}

// RecordResult applies a result and reports whether this call moved the game
// to finalized. A finalized game accepts only an identical result, which is a
// no-op. A provisional result never clears an existing final.
func (c *GameCatalog) RecordResult(ctx context.Context, gameID string, homeScore, awayScore int, finalized bool) (bool, error) {
	gameID = strings.TrimSpace(gameID)
	if homeScore < 0 || awayScore < 0 {
		c.recorder.RecordResult(metrics.OutcomeInvalid)
		return false, &models.InvalidSelectionError{Field: "score", Value: fmt.Sprintf("%d-%d", homeScore, awayScore)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		c.recorder.RecordResult(metrics.OutcomeError)
		return false, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	if game == nil {
		c.recorder.RecordResult(metrics.OutcomeNotFound)
		return false, &models.NotFoundError{Kind: "game", ID: gameID}
	}

	if game.Finalized {
		if game.HasScores() && *game.HomeScore == homeScore && *game.AwayScore == awayScore {
			c.recorder.RecordResult(metrics.OutcomeUnchanged)
			return false, nil
		}
		c.recorder.RecordResult(metrics.OutcomeLocked)
		return false, fmt.Errorf("game %s: %w", gameID, models.ErrResultFinalized)
	}

	if game.HasScores() && *game.HomeScore == homeScore && *game.AwayScore == awayScore && !finalized {
		c.recorder.RecordResult(metrics.OutcomeUnchanged)
		return false, nil
	}

	game.HomeScore = models.Int(homeScore)
	game.AwayScore = models.Int(awayScore)
	game.Finalized = finalized
	game.UpdatedAt = c.clock()

	if err := c.games.SaveGame(ctx, game); err != nil {
		c.recorder.RecordResult(metrics.OutcomeError)
		return false, fmt.Errorf("failed to save result for game %s: %w", gameID, err)
	}

	c.recorder.RecordResult(metrics.OutcomeUpdated)
	if finalized {
		c.logger.Infof("Game %s final: home %d, away %d", gameID, homeScore, awayScore)
	}
	return finalized, nil
}

// Get returns a game or a NotFoundError
func (c *GameCatalog) Get(ctx context.Context, id string) (*models.Game, error) {
	game, err := c.games.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	if game == nil {
		return nil, &models.NotFoundError{Kind: "game", ID: id}
	}
	return game, nil
}

// List returns all games ordered by kickoff, unknown kickoffs last
func (c *GameCatalog) List(ctx context.Context) ([]*models.Game, error) {
	games, err := c.games.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	SortGamesByKickoff(games)
	return games, nil
}

// ListViews annotates each game with its lock state at now
func (c *GameCatalog) ListViews(ctx context.Context, now time.Time) ([]models.GameView, error) {
	games, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.GameView, 0, len(games))
	for _, g := range games {
		views = append(views, models.GameView{Game: g, Locked: IsLocked(g, now)})
	}
	return views, nil
}

// SortGamesByKickoff orders games by kickoff ascending then id
func SortGamesByKickoff(games []*models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i].Kickoff, games[j].Kickoff
		switch {
		case a == nil && b == nil:
			return games[i].ID < games[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return games[i].ID < games[j].ID
	})
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
