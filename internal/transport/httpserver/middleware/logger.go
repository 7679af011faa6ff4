package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"staff-console-go/pkg/logger"
)

// RequestLogger attaches a logger tagged with the request id to the request
// context. Place it after chi's RequestID middleware.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLog = log.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), reqLog)))
		})
	}
}
