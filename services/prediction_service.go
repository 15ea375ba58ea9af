package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/metrics"
	"cfb-pickem/models"
)

// PredictionService is the only writer of predictions. The lock check and the
// write for one (user, game) run under the same key lock, so no write can land
// after a concurrent caller has seen the game locked.
type PredictionService struct {
	games       database.GameRepository
	predictions database.PredictionRepository
	users       database.UserRepository
	recorder    *metrics.Recorder
	logger      *logging.Logger
	locks       *keyedMutex
}

// NewPredictionService creates a new prediction service
func NewPredictionService(store *database.Store, recorder *metrics.Recorder) *PredictionService {
	return &PredictionService{
		games:       store.Games,
		predictions: store.Predictions,
		users:       store.Users,
		recorder:    recorder,
		logger:      logging.WithPrefix("PredictionService"),
		locks:       newKeyedMutex(),
	}
}

// Submit creates or overwrites user's prediction on gameID as of now
func (s *PredictionService) Submit(ctx context.Context, user, gameID string, winner models.Side, total models.TotalDirection, now time.Time) (*models.Prediction, error) {
	in := models.PredictionInput{GameID: gameID, Winner: winner, Total: total}.Normalize()
	user = strings.TrimSpace(user)

	if err := validateSubmission(user, in); err != nil {
		s.recorder.RecordPrediction(metrics.OutcomeInvalid)
		return nil, err
	}

	unlock := s.locks.Lock(models.PredictionKey(user, in.GameID))
	defer unlock()

	game, err := s.games.GetGame(ctx, in.GameID)
	if err != nil {
		s.recorder.RecordPrediction(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load game %s: %w", in.GameID, err)
	}
	if game == nil {
		s.recorder.RecordPrediction(metrics.OutcomeNotFound)
		return nil, &models.NotFoundError{Kind: "game", ID: in.GameID}
	}

	if IsLocked(game, now) {
		s.recorder.RecordPrediction(metrics.OutcomeLocked)
		s.logger.Debugf("Rejected late prediction from %s on game %s", user, in.GameID)
		return nil, &models.LockedError{GameID: game.ID, Kickoff: *game.Kickoff}
	}

	existing, err := s.predictions.GetPrediction(ctx, user, in.GameID)
	if err != nil {
		s.recorder.RecordPrediction(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}

	if err := s.users.EnsureUser(ctx, user, now); err != nil {
		s.recorder.RecordPrediction(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	prediction := &models.Prediction{
		User:       user,
		GameID:     in.GameID,
		Winner:     in.Winner,
		Total:      in.Total,
		LineAtPick: copyFloat(game.OverUnder),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing != nil {
		prediction.CreatedAt = existing.CreatedAt
	}

	if err := s.predictions.UpsertPrediction(ctx, prediction); err != nil {
		s.recorder.RecordPrediction(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	s.recorder.RecordPrediction(metrics.OutcomeAccepted)
	return prediction, nil
}

// SubmitBatch evaluates every input on its own. One bad item never stops the rest.
func (s *PredictionService) SubmitBatch(ctx context.Context, user string, inputs []models.PredictionInput, now time.Time) []models.SubmitOutcome {
	outcomes := make([]models.SubmitOutcome, 0, len(inputs))
	accepted := 0

	for _, in := range inputs {
		p, err := s.Submit(ctx, user, in.GameID, in.Winner, in.Total, now)
		outcome := models.SubmitOutcome{GameID: strings.TrimSpace(in.GameID), Prediction: p, Err: err}
		if err != nil {
			outcome.Error = err.Error()
		} else {
			accepted++
		}
		outcomes = append(outcomes, outcome)
	}

	s.logger.Infof("Batch from %s: %d of %d predictions accepted", user, accepted, len(inputs))
	return outcomes
}

// ListByUser returns a user's predictions
func (s *PredictionService) ListByUser(ctx context.Context, user string) ([]*models.Prediction, error) {
	predictions, err := s.predictions.ListPredictionsByUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions for %s: %w", user, err)
	}
	return predictions, nil
}

func validateSubmission(user string, in models.PredictionInput) error {
	if user == "" {
		return &models.InvalidSelectionError{Field: "user", Value: user}
	}
	if in.GameID == "" {
		return &models.InvalidSelectionError{Field: "gameId", Value: in.GameID}
	}
	if !in.Winner.Valid() {
		return &models.InvalidSelectionError{Field: "winner", Value: string(in.Winner)}
	}
	if !in.Total.Valid() {
		return &models.InvalidSelectionError{Field: "total", Value: string(in.Total)}
	}
	return nil
}
