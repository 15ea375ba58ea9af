package services

import (
	"context"
	"fmt"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/metrics"
	"cfb-pickem/models"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// Feed returns the game records for a date range
type Feed interface {
	Fetch(ctx context.Context, r DateRange) ([]models.FeedRecord, error)
}

// FeedConfig configures the upstream scoreboard feed
type FeedConfig struct {
	ScoreboardURL string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	CacheTTL      time.Duration
}

// DateRange is an inclusive range of calendar days in UTC
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String formats the range the way the scoreboard query expects: YYYYMMDD-YYYYMMDD
func (r DateRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start.Format("20060102"), r.End.Format("20060102"))
}

// NextSaturday returns the first Saturday on or after t, at t's time of day
func NextSaturday(t time.Time) time.Time {
	daysAhead := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, daysAhead)
}

// WeekRange is the Saturday..Sunday slate for the week containing now
func WeekRange(now time.Time) DateRange {
	now = now.UTC()
	sat := NextSaturday(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	return DateRange{Start: sat, End: sat.AddDate(0, 0, 1)}
}

type backoffFunc func(attempt int) time.Duration

// RetryingFeed wraps a Feed with linear backoff retries
type RetryingFeed struct {
	inner       Feed
	source      string
	recorder    *metrics.Recorder
	logger      *logging.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingFeed wraps inner with retries. Non-positive attempts or backoff use defaults.
func NewRetryingFeed(inner Feed, source string, recorder *metrics.Recorder, maxAttempts int, backoff time.Duration) *RetryingFeed {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &RetryingFeed{
		inner:       inner,
		source:      source,
		recorder:    recorder,
		logger:      logging.WithPrefix("Feed"),
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (f *RetryingFeed) Fetch(ctx context.Context, r DateRange) ([]models.FeedRecord, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		start := time.Now()
		records, err := f.inner.Fetch(ctx, r)
		f.recorder.RecordFeedFetch(f.source, time.Since(start), err)
		if err == nil {
			return records, nil
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}

		f.logger.Warnf("Fetch %s attempt %d/%d failed: %v", r, attempt, f.maxAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.backoffFn(attempt)):
		}
	}

	f.logger.Errorf("Fetch %s failed after %d attempts: %v", r, f.maxAttempts, lastErr)
	return nil, lastErr
}

// StaticFeed serves a fixed slate. Used when no upstream is configured and by tests.
type StaticFeed struct {
	Records []models.FeedRecord
	Err     error
}

func (f *StaticFeed) Fetch(_ context.Context, _ DateRange) ([]models.FeedRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]models.FeedRecord, len(f.Records))
	copy(out, f.Records)
	return out, nil
}
