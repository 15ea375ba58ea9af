package models

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	Points int    `json:"points"`
	Scored int    `json:"scored"`
}

// UserStats is derived from a user's chronologically ordered scored results
type UserStats struct {
	Scored         int     `json:"scored"`
	Points         int     `json:"points"`
	WinnersCorrect int     `json:"winnersCorrect"`
	TotalsCorrect  int     `json:"totalsCorrect"`
	FullyCorrect   int     `json:"fullyCorrect"`
	WinRatePercent float64 `json:"winRatePercent"`
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
}

// Profile is the read-only view of a user's record
type Profile struct {
	User           string    `json:"user"`
	WinRatePercent float64   `json:"winRatePercent"`
	CurrentStreak  int       `json:"currentStreak"`
	Badges         []Badge   `json:"badges"`
	Stats          UserStats `json:"stats"`
	Pending        int       `json:"pending"` // predictions on games not yet final
}

// GameView is a game annotated for listing
type GameView struct {
	*Game
	Locked bool `json:"locked"`
}
