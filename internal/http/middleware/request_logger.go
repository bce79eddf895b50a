package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wellvitas/booking-platform/pkg/logging"
)

// statusWriter records the status code so the completion log can carry it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger emits one structured log line per request, after the
// handler returns. The request id is taken from X-Request-ID when the
// caller supplies one and minted otherwise, and is echoed back on the
// response so support tickets can quote it. The wizard session id, when
// present, is logged alongside it so a visitor's requests can be
// correlated across the draft store and the submission endpoint.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if sessionID := r.Header.Get("X-Session-Id"); sessionID != "" {
				attrs = append(attrs, "session_id", sessionID)
			}
			logger.Info("http request", attrs...)
		})
	}
}
