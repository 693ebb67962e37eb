package middleware

import "net/http"

// WithBodyLimit ограничивает размер тела запроса.
// Чтение сверх лимита возвращает *http.MaxBytesError, и декодер JSON
// падает раньше, чем тело будет прочитано целиком.
func WithBodyLimit(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
