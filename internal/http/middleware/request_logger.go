package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

// RequestLogger emits one structured log line per HTTP request and echoes the
// request ID back in X-Request-ID.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestID(r)
			w.Header().Set("X-Request-ID", reqID)

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.status,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
