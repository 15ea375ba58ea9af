package services

import (
	"strings"
	"time"

	"cfb-pickem/models"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock returns the current UTC time
func SystemClock() time.Time {
	return time.Now().UTC()
}

// kickoffLayouts are tried in order; the feed mixes minute and second precision.
var kickoffLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseKickoff parses a feed kickoff timestamp as UTC. ok is false when the
// value is empty or matches no known layout.
func ParseKickoff(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsLocked reports whether predictions on game may no longer change.
// A game is locked once now >= kickoff. A game with no known kickoff is
// treated as unlocked so it stays pickable.
func IsLocked(game *models.Game, now time.Time) bool {
	if game == nil || game.Kickoff == nil {
		return false
	}
	return !now.Before(*game.Kickoff)
}
