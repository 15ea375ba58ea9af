package services

import (
	"context"
	"sync"
	"time"

	"cfb-pickem/logging"
)

// weekRefresher is the part of DataLoader the updater drives
type weekRefresher interface {
	RefreshWeek(ctx context.Context) (*RefreshReport, error)
}

// BackgroundUpdater polls the scoreboard on an interval so results land
// without anyone loading the games page
type BackgroundUpdater struct {
	loader   weekRefresher
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewBackgroundUpdater creates a new background updater service
func NewBackgroundUpdater(loader weekRefresher, interval time.Duration) *BackgroundUpdater {
	return &BackgroundUpdater{
		loader:   loader,
		interval: interval,
		logger:   logging.WithPrefix("BackgroundUpdater"),
	}
}

// Start begins polling until ctx is done or Stop is called. A non-positive
// interval leaves the updater idle.
func (bu *BackgroundUpdater) Start(ctx context.Context) {
	bu.mu.Lock()
	defer bu.mu.Unlock()

	if bu.running {
		bu.logger.Debug("Already running")
		return
	}
	if bu.interval <= 0 {
		bu.logger.Info("Polling disabled")
		return
	}

	ctx, bu.cancel = context.WithCancel(ctx)
	bu.done = make(chan struct{})
	bu.running = true
	bu.logger.Infof("Polling scoreboard every %s", bu.interval)

	go bu.loop(ctx, bu.done)
}

func (bu *BackgroundUpdater) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer bu.finish(done)
	ticker := time.NewTicker(bu.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bu.update(ctx)
		case <-ctx.Done():
			bu.logger.Info("Stopping background updates")
			return
		}
	}
}

// finish clears the running flag unless a newer loop has already replaced this one
func (bu *BackgroundUpdater) finish(done chan struct{}) {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	if bu.done == done {
		bu.running = false
	}
}

// update runs one refresh; ticks that arrive while it runs are dropped by the ticker
func (bu *BackgroundUpdater) update(ctx context.Context) {
	start := time.Now()
	report, err := bu.loader.RefreshWeek(ctx)
	if err != nil {
		bu.logger.Warnf("Refresh failed: %v", err)
		return
	}
	changed := report.Ingest.Inserted + report.Ingest.Updated
	if changed > 0 || len(report.NewlyFinal) > 0 {
		bu.logger.Infof("Refresh %s: %d games changed, %d newly final in %s",
			report.Range, changed, len(report.NewlyFinal), time.Since(start))
	}
}

// Stop halts polling and waits for an in-flight refresh to return
func (bu *BackgroundUpdater) Stop() {
	bu.mu.Lock()
	if !bu.running {
		bu.mu.Unlock()
		return
	}
	bu.running = false
	cancel, done := bu.cancel, bu.done
	bu.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the polling loop is active
func (bu *BackgroundUpdater) IsRunning() bool {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	return bu.running
}
