package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/api/problem"
	"github.com/go-chi/httprate"
)

// UpdateRateLimiter limits country updates per operator, falling back to the
// client IP when the route is not authenticated.
func UpdateRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if operator := OperatorFromContext(r.Context()); operator != "" {
				return operator, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			problem.Write(
				w,
				r,
				http.StatusTooManyRequests,
				problem.Type("rate-limit-exceeded"),
				http.StatusText(http.StatusTooManyRequests),
				fmt.Sprintf("Rate limit of %d req/s exceeded", rps),
			)
		}),
	)
}
