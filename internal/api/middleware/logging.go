package middleware

import (
	"net/http"
	"time"

	"github.com/ManuGH/ytaudio/internal/log"
)

// Logging emits one structured access log line per request after the handler
// returns, capturing full latency.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &metricsWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(mw, r)

		logger := log.WithComponentFromContext(r.Context(), "http")
		logger.Info().
			Str("event", "http.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", mw.statusCode).
			Int("bytes", mw.bytesWritten).
			Dur("elapsed", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}
