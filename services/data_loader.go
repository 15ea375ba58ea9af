package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/models"
)

// RefreshReport summarizes one RefreshWeek run
type RefreshReport struct {
	Range          string                    `json:"range"`
	Fetched        int                       `json:"fetched"`
	Ingest         IngestReport              `json:"ingest"`
	ResultsApplied int                       `json:"resultsApplied"`
	NewlyFinal     []string                  `json:"newlyFinal,omitempty"`
	ResultErrors   []string                  `json:"resultErrors,omitempty"`
	Awarded        map[string][]models.Badge `json:"awarded,omitempty"`
}

// DataLoader pulls the weekly slate from the feed and pushes it through the
// catalog. Newly final games trigger badge awards for everyone who picked them.
type DataLoader struct {
	feed        Feed
	catalog     *GameCatalog
	predictions database.PredictionRepository
	board       *LeaderboardService
	clock       Clock
	logger      *logging.Logger
}

func NewDataLoader(feed Feed, catalog *GameCatalog, predictions database.PredictionRepository, board *LeaderboardService, clock Clock) *DataLoader {
	if clock == nil {
		clock = SystemClock
	}
	return &DataLoader{
		feed:        feed,
		catalog:     catalog,
		predictions: predictions,
		board:       board,
		clock:       clock,
		logger:      logging.WithPrefix("DataLoader"),
	}
}

// RefreshWeek fetches this week's slate, merges it and applies any results
func (dl *DataLoader) RefreshWeek(ctx context.Context) (*RefreshReport, error) {
	return dl.Refresh(ctx, WeekRange(dl.clock()))
}

// Refresh runs fetch, upsert, results and awards for one date range. Only a
// feed failure is returned as an error; per-record problems land in the report.
func (dl *DataLoader) Refresh(ctx context.Context, r DateRange) (*RefreshReport, error) {
	dl.logger.Infof("Refreshing games for %s", r)

	records, err := dl.feed.Fetch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games for %s: %w", r, err)
	}

	report := &RefreshReport{
		Range:   r.String(),
		Fetched: len(records),
		Ingest:  dl.catalog.UpsertGames(ctx, records),
		Awarded: map[string][]models.Badge{},
	}

	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" || !rec.HasResult() {
			continue
		}
		newlyFinal, err := dl.catalog.RecordResult(ctx, id, *rec.FinalHomeScore, *rec.FinalAwayScore, rec.IsFinal())
		if err != nil {
			if errors.Is(err, models.ErrResultFinalized) {
				dl.logger.Warnf("Feed disagrees with recorded final for game %s: %v", id, err)
			}
			report.ResultErrors = append(report.ResultErrors, err.Error())
			continue
		}
		report.ResultsApplied++
		if newlyFinal {
			report.NewlyFinal = append(report.NewlyFinal, id)
		}
	}

	if len(report.NewlyFinal) > 0 {
		dl.awardAffected(ctx, report)
	}

	dl.logger.Infof("Refresh %s done: %d fetched, %d results applied, %d newly final",
		r, report.Fetched, report.ResultsApplied, len(report.NewlyFinal))
	return report, nil
}

// ApplyResult records one manual result and awards badges if it made the game final
func (dl *DataLoader) ApplyResult(ctx context.Context, gameID string, homeScore, awayScore int, finalized bool) (*RefreshReport, error) {
	newlyFinal, err := dl.catalog.RecordResult(ctx, gameID, homeScore, awayScore, finalized)
	if err != nil {
		return nil, err
	}
	report := &RefreshReport{ResultsApplied: 1, Awarded: map[string][]models.Badge{}}
	if newlyFinal {
		report.NewlyFinal = []string{gameID}
		dl.awardAffected(ctx, report)
	}
	return report, nil
}

// awardAffected re-evaluates badges for every user with a prediction on a newly final game
func (dl *DataLoader) awardAffected(ctx context.Context, report *RefreshReport) {
	users := map[string]struct{}{}
	for _, gameID := range report.NewlyFinal {
		predictions, err := dl.predictions.ListPredictionsByGame(ctx, gameID)
		if err != nil {
			dl.logger.Errorf("Failed to load predictions for game %s: %v", gameID, err)
			continue
		}
		for _, p := range predictions {
			users[p.User] = struct{}{}
		}
	}

	names := make([]string, 0, len(users))
	for u := range users {
		names = append(names, u)
	}
	sort.Strings(names)

	now := dl.clock()
	for _, user := range names {
		badges, err := dl.board.AwardForUser(ctx, user, now)
		if err != nil {
			dl.logger.Errorf("Failed to award achievements for %s: %v", user, err)
		}
		if len(badges) > 0 {
			report.Awarded[user] = badges
		}
	}
}
