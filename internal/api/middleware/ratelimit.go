package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/communityhq/backend/internal/api/response"
	"github.com/communityhq/backend/internal/ratelimit"
)

// RateLimit is middleware enforcing a fixed-window quota keyed by client
// address. Each instance carries its own limiter, so the general and auth
// pools count independently. On exceed it responds 429 with a Retry-After
// header in seconds and the pool's error code.
func RateLimit(limiter *ratelimit.Limiter, code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := limiter.Allow(clientAddr(r))
			if !ok {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				response.Err(w, http.StatusTooManyRequests, code, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr returns the client address used as the rate-limit key. RealIP
// middleware upstream rewrites RemoteAddr from forwarding headers.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
