package models

import "time"

// Side identifies one team in a game
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is home or away
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// FeedRecord is one game as delivered by the upstream schedule/odds/results feed.
// Optional fields are nil when the feed does not carry them.
type FeedRecord struct {
	ID             string   `json:"id"`
	ShortName      string   `json:"shortName"`
	HomeID         string   `json:"homeId"`
	HomeName       string   `json:"homeName"`
	AwayID         string   `json:"awayId"`
	AwayName       string   `json:"awayName"`
	KickoffUTC     string   `json:"kickoffUtc"`
	OverUnder      *float64 `json:"overUnder,omitempty"`
	FinalHomeScore *int     `json:"finalHomeScore,omitempty"`
	FinalAwayScore *int     `json:"finalAwayScore,omitempty"`
	Finalized      *bool    `json:"finalized,omitempty"`
}

// HasResult returns true when the record carries both scores
func (r *FeedRecord) HasResult() bool {
	return r.FinalHomeScore != nil && r.FinalAwayScore != nil
}

// IsFinal returns true when the feed marks the game as finished with scores
func (r *FeedRecord) IsFinal() bool {
	return r.HasResult() && r.Finalized != nil && *r.Finalized
}

// Game represents a college football game in the weekly catalog
type Game struct {
	ID        string     `json:"id" bson:"_id"`
	ShortName string     `json:"shortName" bson:"short_name"`
	HomeID    string     `json:"homeId" bson:"home_id"`
	HomeName  string     `json:"homeName" bson:"home_name"`
	AwayID    string     `json:"awayId" bson:"away_id"`
	AwayName  string     `json:"awayName" bson:"away_name"`
	Kickoff   *time.Time `json:"kickoff,omitempty" bson:"kickoff,omitempty"` // nil when missing or unparseable
	OverUnder *float64   `json:"overUnder,omitempty" bson:"over_under,omitempty"`
	HomeScore *int       `json:"homeScore,omitempty" bson:"home_score,omitempty"`
	AwayScore *int       `json:"awayScore,omitempty" bson:"away_score,omitempty"`
	Finalized bool       `json:"finalized" bson:"finalized"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// HasScores returns true if both scores are recorded
func (g *Game) HasScores() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the side with the strictly higher score. The second return
// value is false when the game is not finalized or ended tied.
func (g *Game) Winner() (Side, bool) {
	if !g.Finalized || !g.HasScores() {
		return "", false
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return SideHome, true
	case *g.AwayScore > *g.HomeScore:
		return SideAway, true
	}
	return "", false
}

// TotalPoints returns the combined score, or false if scores are missing
func (g *Game) TotalPoints() (int, bool) {
	if !g.HasScores() {
		return 0, false
	}
	return *g.HomeScore + *g.AwayScore, true
}

// Clone returns a deep copy so callers can mutate it without touching shared state
func (g *Game) Clone() *Game {
	c := *g
	if g.Kickoff != nil {
		k := *g.Kickoff
		c.Kickoff = &k
	}
	c.OverUnder = cloneFloat(g.OverUnder)
	c.HomeScore = cloneInt(g.HomeScore)
	c.AwayScore = cloneInt(g.AwayScore)
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }
