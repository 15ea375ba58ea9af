package middleware

import (
	"context"
	"net/http"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader is echoed on every response
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID tags each request with an id, reusing a caller-supplied one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// GetRequestID returns the id assigned by RequestID
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs each request and counts it by route template
func RequestLogger(recorder *metrics.Recorder) func(http.Handler) http.Handler {
	logger := logging.WithPrefix("HTTP")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			recorder.RecordHTTP(route, rec.status)

			logger.WithFields(map[string]interface{}{
				"request_id": GetRequestID(r.Context()),
				"method":     r.Method,
				"route":      route,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}).Debug("request handled")
		})
	}
}
