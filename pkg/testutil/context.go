package testutil

import (
	"net/http"

	"greenforge/pkg/requestcontext"
)

// WithClientIP attaches the client address the metadata middleware would
// have resolved.
func WithClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, req.UserAgent()))
}
