package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/models"
)

// DefaultScoreboardURL is ESPN's college football scoreboard. Without a group
// filter it returns the ranked slate.
const DefaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/football/college-football/scoreboard"

// ESPNService handles ESPN API interactions
type ESPNService struct {
	client  *http.Client
	baseURL string
	logger  *logging.Logger
}

// NewESPNService creates a new ESPN service
func NewESPNService(baseURL string, timeout time.Duration) *ESPNService {
	if baseURL == "" {
		baseURL = DefaultScoreboardURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ESPNService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logging.WithPrefix("ESPN"),
	}
}

// ESPN API response structures
type ESPNResponse struct {
	Events []ESPNEvent `json:"events"`
}

type ESPNEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	ShortName    string            `json:"shortName"`
	Status       *ESPNStatus       `json:"status,omitempty"`
	Competitions []ESPNCompetition `json:"competitions"`
}

type ESPNStatus struct {
	Type ESPNStatusType `json:"type"`
}

type ESPNStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type ESPNCompetition struct {
	Date        string           `json:"date"`
	Status      *ESPNStatus      `json:"status,omitempty"`
	Competitors []ESPNCompetitor `json:"competitors"`
	Odds        []ESPNOdds       `json:"odds"`
}

type ESPNCompetitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     ESPNTeam `json:"team"`
}

type ESPNTeam struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type ESPNOdds struct {
	Details   string    `json:"details"`
	OverUnder flexFloat `json:"overUnder"`
}

// flexFloat accepts a JSON number, a numeric string, or null
type flexFloat struct {
	Value *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Unusable odds are treated as absent
		return nil
	}
	f.Value = &v
	return nil
}

// Fetch implements Feed for the scoreboard of the given date range
func (e *ESPNService) Fetch(ctx context.Context, r DateRange) ([]models.FeedRecord, error) {
	url := fmt.Sprintf("%s?dates=%s", e.baseURL, r)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ESPN request: %w", err)
	}

	e.logger.Debugf("Fetching scoreboard from %s", url)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ESPN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ESPN API returned status %d", resp.StatusCode)
	}

	var espnResp ESPNResponse
	if err := json.NewDecoder(resp.Body).Decode(&espnResp); err != nil {
		return nil, fmt.Errorf("failed to decode ESPN response: %w", err)
	}

	records := ConvertEvents(espnResp.Events)
	e.logger.Infof("Received %d events for %s, converted %d records", len(espnResp.Events), r, len(records))
	return records, nil
}

// ConvertEvents maps scoreboard events to feed records. Events without a
// competition still produce a record so the catalog can report them.
func ConvertEvents(events []ESPNEvent) []models.FeedRecord {
	records := make([]models.FeedRecord, 0, len(events))
	for _, ev := range events {
		records = append(records, convertEvent(ev))
	}
	return records
}

func convertEvent(ev ESPNEvent) models.FeedRecord {
	rec := models.FeedRecord{
		ID:         ev.ID,
		ShortName:  ev.ShortName,
		KickoffUTC: ev.Date,
	}
	if len(ev.Competitions) == 0 {
		return rec
	}

	comp := ev.Competitions[0]
	if comp.Date != "" {
		rec.KickoffUTC = comp.Date
	}

	var home, away *ESPNCompetitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home != nil {
		rec.HomeID = home.Team.ID
		rec.HomeName = home.Team.DisplayName
	}
	if away != nil {
		rec.AwayID = away.Team.ID
		rec.AwayName = away.Team.DisplayName
	}

	if len(comp.Odds) > 0 {
		rec.OverUnder = comp.Odds[0].OverUnder.Value
	}

	status := comp.Status
	if status == nil {
		status = ev.Status
	}
	if status == nil || home == nil || away == nil {
		return rec
	}

	// Scores are only meaningful once the game has started
	if status.Type.Completed || strings.EqualFold(status.Type.State, "in") || strings.EqualFold(status.Type.State, "post") {
		hs, herr := strconv.Atoi(strings.TrimSpace(home.Score))
		as, aerr := strconv.Atoi(strings.TrimSpace(away.Score))
		if herr == nil && aerr == nil {
			rec.FinalHomeScore = models.Int(hs)
			rec.FinalAwayScore = models.Int(as)
			rec.Finalized = models.Bool(status.Type.Completed)
		}
	}
	return rec
}
