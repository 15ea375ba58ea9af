package services

import "cfb-pickem/models"

// ComputeStreak walks results oldest to newest. A fully correct result extends
// the streak; anything else resets it. The value after the last result is the
// current streak.
func ComputeStreak(results []models.ScoredResult) int {
	streak := 0
	for _, r := range results {
		if r.FullyCorrect() {
			streak++
		} else {
			streak = 0
		}
	}
	return streak
}

// ComputeStats derives a user's aggregate record from chronologically ordered results
func ComputeStats(results []models.ScoredResult) models.UserStats {
	var stats models.UserStats
	run := 0

	for _, r := range results {
		stats.Scored++
		stats.Points += r.Points
		if r.WinnerCorrect {
			stats.WinnersCorrect++
		}
		if r.TotalCorrect {
			stats.TotalsCorrect++
		}
		if r.FullyCorrect() {
			stats.FullyCorrect++
			run++
			if run > stats.LongestStreak {
				stats.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	stats.CurrentStreak = run
	if stats.Scored > 0 {
		stats.WinRatePercent = float64(stats.WinnersCorrect) / float64(stats.Scored) * 100
	}
	return stats
}

// DecideBadges lists the badges a user qualifies for
func DecideBadges(currentStreak int, winRatePercent float64, scored int) []models.Badge {
	var badges []models.Badge
	if currentStreak >= models.Streak5Threshold {
		badges = append(badges, models.BadgeStreak5)
	}
	if winRatePercent >= models.Win80RateThreshold && scored >= models.Win80MinimumScored {
		badges = append(badges, models.BadgeWin80)
	}
	return badges
}
