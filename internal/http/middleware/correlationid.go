package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/sales-analytics/pkg/correlationid"
)

// maxCorrelationIDLen bounds client supplied ids before they reach logs and
// message headers.
const maxCorrelationIDLen = 128

// CorrelationID reuses the caller's correlation id, or assigns a new one, and
// echoes it on the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" || len(id) > maxCorrelationIDLen {
				id = correlationid.New()
			}

			w.Header().Set(correlationid.Header, id)
			next.ServeHTTP(w, r.WithContext(correlationid.NewContext(r.Context(), id)))
		})
	}
}
