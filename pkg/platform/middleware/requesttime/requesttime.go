// Package requesttime pins one "now" per request so timeline entries, audit
// events and updated_at stamps written by a single request agree.
package requesttime

import (
	"net/http"
	"time"

	"onegov/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
