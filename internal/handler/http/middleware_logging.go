package http

import (
	"net/http"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
)

// withLogging emits one structured entry per request: method, uri, status,
// duration, and response size. Validation outcomes and issuance decisions are
// logged by their handlers; this line is the shared request envelope.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		logger.FromRequest(r).Info().
			Str("method", method).
			Str("uri", uri).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
