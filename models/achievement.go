package models

import "time"

// Badge is the name of a one-time achievement
type Badge string

const (
	BadgeStreak5 Badge = "Streak5"
	BadgeWin80   Badge = "Win80"
)

// Thresholds for awarding badges
const (
	Streak5Threshold   = 5
	Win80RateThreshold = 80.0
	Win80MinimumScored = 10
)

// Achievement records that a user earned a badge. (User, Badge) is unique.
type Achievement struct {
	User      string    `json:"user" bson:"user"`
	Badge     Badge     `json:"badge" bson:"badge"`
	AwardedAt time.Time `json:"awardedAt" bson:"awarded_at"`
}
