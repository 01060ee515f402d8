// Package requesttime pins one timestamp per request so every audit event
// and log line for it agrees on "now".
package requesttime

import (
	"net/http"
	"time"

	"greenforge/pkg/requestcontext"
)

// Middleware stores the request's arrival time, in UTC, in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), time.Now().UTC())))
	})
}
