package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsPredictionsByOutcome(t *testing.T) {
	rec := NewRecorder()
	rec.RecordPrediction(OutcomeAccepted)
	rec.RecordPrediction(OutcomeAccepted)
	rec.RecordPrediction(OutcomeLocked)

	if got := testutil.ToFloat64(rec.predictions.WithLabelValues(OutcomeAccepted)); got != 2 {
		t.Fatalf("expected 2 accepted, got %v", got)
	}
	if got := testutil.ToFloat64(rec.predictions.WithLabelValues(OutcomeLocked)); got != 1 {
		t.Fatalf("expected 1 locked, got %v", got)
	}
}

func TestRecorderFeedFetchSplitsErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordFeedFetch("espn", 10*time.Millisecond, nil)
	rec.RecordFeedFetch("espn", 15*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(rec.feedFetches.WithLabelValues("espn", "ok")); got != 1 {
		t.Fatalf("expected 1 ok fetch, got %v", got)
	}
	if got := testutil.ToFloat64(rec.feedFetches.WithLabelValues("espn", "error")); got != 1 {
		t.Fatalf("expected 1 failed fetch, got %v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordPrediction(OutcomeAccepted)
	rec.RecordIngest(OutcomeInserted)
	rec.RecordFeedFetch("espn", time.Second, nil)
	rec.RecordHTTP("/x", 200)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != 404 {
		t.Fatalf("expected 404 from nil recorder handler, got %d", w.Code)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	rec := NewRecorder()
	rec.RecordBadge("Streak5")

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(w.Body.String(), `pickem_badges_awarded_total{badge="Streak5"} 1`) {
		t.Fatalf("expected badge counter in output, got:\n%s", w.Body.String())
	}
}
