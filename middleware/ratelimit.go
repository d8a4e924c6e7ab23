package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/allamaprabhu/management-api/utils"
)

// RateLimit returns an HTTP middleware that limits requests per client IP
// to requestsPerMinute over a sliding one minute window. The key is
// r.RemoteAddr, which only reflects forwarding headers when RealIP ran first.
// Rejections use the standard response envelope.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = utils.WriteTooManyRequests(w, "Too many requests", "Please try again later")
		}),
	)
}
