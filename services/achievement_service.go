package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/metrics"
	"cfb-pickem/models"
)

// AchievementService applies badge awards. Awarding is idempotent: the
// repository keeps (user, badge) unique.
type AchievementService struct {
	achievements database.AchievementRepository
	recorder     *metrics.Recorder
	logger       *logging.Logger
}

func NewAchievementService(achievements database.AchievementRepository, recorder *metrics.Recorder) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		recorder:     recorder,
		logger:       logging.WithPrefix("Achievements"),
	}
}

// AwardAchievements grants every badge the inputs qualify for and returns the
// badges that were new. Repeating a call with the same inputs awards nothing.
func (s *AchievementService) AwardAchievements(ctx context.Context, user string, currentStreak int, winRatePercent float64, scored int, now time.Time) ([]models.Badge, error) {
	var (
		awarded []models.Badge
		errs    []error
	)

	for _, badge := range DecideBadges(currentStreak, winRatePercent, scored) {
		created, err := s.achievements.Award(ctx, models.Achievement{User: user, Badge: badge, AwardedAt: now})
		if err != nil {
			errs = append(errs, fmt.Errorf("award %s: %w", badge, err))
			continue
		}
		if created {
			awarded = append(awarded, badge)
			s.recorder.RecordBadge(string(badge))
			s.logger.Infof("Awarded %s to %s", badge, user)
		}
	}
	return awarded, errors.Join(errs...)
}

// Badges returns the badge names a user holds
func (s *AchievementService) Badges(ctx context.Context, user string) ([]models.Badge, error) {
	list, err := s.achievements.ListAchievements(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for %s: %w", user, err)
	}
	badges := make([]models.Badge, 0, len(list))
	for _, a := range list {
		badges = append(badges, a.Badge)
	}
	return badges, nil
}
