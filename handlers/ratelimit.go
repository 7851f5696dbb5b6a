package handlers

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimited rejects requests once the shared limiter runs dry. It guards
// the public endpoints, which accept arbitrary text from anonymous callers.
func RateLimited(limiter *rate.Limiter, handler Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) Result {
		if !limiter.Allow() {
			slog.Debug("rate limited", "path", r.URL.Path)
			return TooManyRequests("Too many requests.")
		}
		return handler(w, r)
	}
}
