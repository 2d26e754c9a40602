package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/apierr"
)

// ThrottleConfig holds the request quotas per window. A non-positive limit
// disables that quota.
type ThrottleConfig struct {
	UserLimit int
	AnonLimit int
	Window    time.Duration
}

// Throttle limits authenticated callers per user and anonymous callers per
// client IP. It must run after Authenticate on protected routes. The returned
// middleware shares its counters between every router it is mounted on.
func Throttle(cfg ThrottleConfig) func(http.Handler) http.Handler {
	user := newRateLimiter(cfg.UserLimit, cfg.Window, func(r *http.Request) (string, error) {
		p, _ := auth.FromContext(r.Context())
		return "user:" + p.UserID.String(), nil
	})
	anon := newRateLimiter(cfg.AnonLimit, cfg.Window, func(r *http.Request) (string, error) {
		ip, err := httprate.KeyByIP(r)
		return "anon:" + ip, err
	})

	return func(next http.Handler) http.Handler {
		userNext, anonNext := next, next
		if user != nil {
			userNext = user.Handler(next)
		}
		if anon != nil {
			anonNext = anon.Handler(next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.FromContext(r.Context()); ok {
				userNext.ServeHTTP(w, r)
				return
			}
			anonNext.ServeHTTP(w, r)
		})
	}
}

func newRateLimiter(limit int, window time.Duration, key httprate.KeyFunc) *httprate.RateLimiter {
	if limit <= 0 || window <= 0 {
		return nil
	}

	return httprate.NewRateLimiter(limit, window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			//nolint:errcheck
			apierr.Write(w, apierr.New(apperr.ThrottledErr))
		}),
		httprate.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, _ error) {
			//nolint:errcheck
			apierr.Write(w, apierr.InternalServerErr)
		}),
	)
}
