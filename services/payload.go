package services

import (
	"fmt"
	"strings"

	"cfb-pickem/models"
)

// ParsePredictionPayload reads the pick form payload: one "gameId|winner|total"
// per line. Lines may be separated by real newlines or a literal "\n".
// Blank lines are ignored; malformed lines are returned as errors and the rest
// still parse.
func ParsePredictionPayload(payload string) ([]models.PredictionInput, []error) {
	payload = strings.ReplaceAll(payload, `\n`, "\n")
	payload = strings.ReplaceAll(payload, "\r\n", "\n")

	var (
		inputs []models.PredictionInput
		errs   []error
	)
	for n, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			errs = append(errs, fmt.Errorf("line %d: %w", n+1, &models.InvalidSelectionError{Field: "line", Value: line}))
			continue
		}
		inputs = append(inputs, models.PredictionInput{
			GameID: parts[0],
			Winner: models.Side(parts[1]),
			Total:  models.TotalDirection(parts[2]),
		}.Normalize())
	}
	return inputs, errs
}
