// Package version tags requests with the API version of the matched route.
package version

import (
	"net/http"

	"greenforge/pkg/requestcontext"
)

// Header reports the API version that served the request.
const Header = "X-API-Version"

// ExtractVersion creates middleware that records the API version of a chi
// subrouter. With r.Route("/api/v1", ...) the version is fixed by the route
// match, so the middleware only needs to publish it.
//
//	r.Route("/api/v1", func(v1 chi.Router) {
//	    v1.Use(version.ExtractVersion("v1"))
//	})
func ExtractVersion(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(Header, v)
			ctx := requestcontext.WithAPIVersion(r.Context(), v)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
