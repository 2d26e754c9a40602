package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/tuanvumaihuynh/sales-analytics/internal/http/apierr"
)

// Recoverer turns a panicking handler into a 500 error response and logs the
// panic with its stack.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						// we don't recover http.ErrAbortHandler so the response
						// to the client is aborted, this should not be logged
						panic(rvr)
					}

					log.ErrorContext(r.Context(), "panic",
						slog.Any("recover", rvr),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())))

					if r.Header.Get("Connection") != "Upgrade" {
						//nolint:errcheck
						apierr.Write(w, apierr.InternalServerErr)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
