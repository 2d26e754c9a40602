package middleware

import (
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http/apierr"
)

type TokenParser interface {
	ParseAccessToken(token string) (auth.Principal, error)
}

// Authenticate requires a valid "Authorization: Bearer <access token>" header
// and stores the caller in the request context.
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				//nolint:errcheck
				apierr.Write(w, apierr.New(apperr.MissingCredentialsErr))
				return
			}

			principal, err := parser.ParseAccessToken(strings.TrimSpace(token))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				//nolint:errcheck
				apierr.Write(w, apierr.New(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), principal)))
		})
	}
}
