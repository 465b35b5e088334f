package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID makes sure every request carries an X-Request-ID, reusing the
// one set by the gateway when present, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// AccessLog writes one structured line per request after it completes.
func AccessLog(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
			log.WithFields(logrus.Fields{
				"method":      p.Request.Method,
				"path":        p.URL.Path,
				"status":      p.StatusCode,
				"size":        p.Size,
				"duration_ms": time.Since(p.TimeStamp).Milliseconds(),
				"request_id":  p.Request.Header.Get(RequestIDHeader),
			}).Info("http request")
		})
	}
}

// Recover turns handler panics into plain 500s and logs them.
func Recover(log *logrus.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(false))
}
