package models

import (
	"strings"
	"time"
)

// TotalDirection is the over/under call on a game's combined score
type TotalDirection string

const (
	TotalOver  TotalDirection = "over"
	TotalUnder TotalDirection = "under"
)

// Valid reports whether d is over or under
func (d TotalDirection) Valid() bool {
	return d == TotalOver || d == TotalUnder
}

// Prediction is a user's winner and total call on one game. There is at most
// one per (User, GameID).
type Prediction struct {
	User       string         `json:"user" bson:"user"`
	GameID     string         `json:"gameId" bson:"game_id"`
	Winner     Side           `json:"winner" bson:"winner"`
	Total      TotalDirection `json:"total" bson:"total"`
	LineAtPick *float64       `json:"lineAtPick,omitempty" bson:"line_at_pick,omitempty"` // frozen from the game at write time
	CreatedAt  time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Key returns the composite identity of the prediction
func (p *Prediction) Key() string {
	return PredictionKey(p.User, p.GameID)
}

// PredictionKey builds the composite (user, game) key
func PredictionKey(user, gameID string) string {
	return user + "\x00" + gameID
}

// Clone returns a deep copy
func (p *Prediction) Clone() *Prediction {
	c := *p
	c.LineAtPick = cloneFloat(p.LineAtPick)
	return &c
}

// PredictionInput is one game's selection as submitted by a user
type PredictionInput struct {
	GameID string         `json:"gameId"`
	Winner Side           `json:"winner"`
	Total  TotalDirection `json:"total"`
}

// Normalize trims and lower-cases the selection values
func (in PredictionInput) Normalize() PredictionInput {
	return PredictionInput{
		GameID: strings.TrimSpace(in.GameID),
		Winner: Side(strings.ToLower(strings.TrimSpace(string(in.Winner)))),
		Total:  TotalDirection(strings.ToLower(strings.TrimSpace(string(in.Total)))),
	}
}

// ScoredResult is the derived outcome of a prediction on a finalized game
type ScoredResult struct {
	User          string    `json:"user"`
	GameID        string    `json:"gameId"`
	WinnerCorrect bool      `json:"winnerCorrect"`
	TotalCorrect  bool      `json:"totalCorrect"`
	Points        int       `json:"points"`
	PredictedAt   time.Time `json:"predictedAt"`
}

// FullyCorrect returns true when both the winner and total calls hit
func (r *ScoredResult) FullyCorrect() bool {
	return r.WinnerCorrect && r.TotalCorrect
}

// SubmitOutcome reports what happened to one item of a batch submission
type SubmitOutcome struct {
	GameID     string      `json:"gameId"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Err        error       `json:"-"`
	Error      string      `json:"error,omitempty"`
}

// Accepted returns true if the item was stored
func (o *SubmitOutcome) Accepted() bool {
	return o.Err == nil
}
