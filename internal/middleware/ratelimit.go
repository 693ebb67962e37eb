package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// WithRateLimit ограничивает частоту запросов токен-бакетом.
// Превышение — 429 с конвертом ошибки, без вызова следующего хендлера.
func WithRateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warnw("rate limit exceeded", "uri", r.RequestURI)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"message":"Too many flashcard creations, please try again later"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
