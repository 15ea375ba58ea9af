package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrResultFinalized is returned when a different result is applied to a game
// that is already final.
var ErrResultFinalized = errors.New("game result already finalized")

// LockedError is returned when a prediction write is attempted at or after kickoff
type LockedError struct {
	GameID  string
	Kickoff time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("game %s is locked (kickoff %s)", e.GameID, e.Kickoff.UTC().Format(time.RFC3339))
}

// NotFoundError is returned when a referenced entity does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// MalformedRecordError describes a feed record that could not be ingested
type MalformedRecordError struct {
	Index  int
	ID     string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("record %d malformed: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("record %d (%s) malformed: %s", e.Index, e.ID, e.Reason)
}

// InvalidSelectionError is returned for an unknown side, direction or empty field
type InvalidSelectionError struct {
	Field string
	Value string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// IsLocked reports whether err is or wraps a LockedError
func IsLocked(err error) bool {
	var le *LockedError
	return errors.As(err, &le)
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidSelection reports whether err is or wraps an InvalidSelectionError
func IsInvalidSelection(err error) bool {
	var ie *InvalidSelectionError
	return errors.As(err, &ie)
}
