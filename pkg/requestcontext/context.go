// Package requestcontext carries request-scoped values through context so
// services and the audit trail can read them without importing net/http.
// Middleware sets them; tests can set them directly with the With helpers.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	clientIPKey key = iota
	userAgentKey
	requestIDKey
	requestTimeKey
	apiVersionKey
)

func stringValue(ctx context.Context, k key) string {
	s, _ := ctx.Value(k).(string)
	return s
}

// ClientIP returns the caller address recorded by the metadata middleware.
func ClientIP(ctx context.Context) string { return stringValue(ctx, clientIPKey) }

// UserAgent returns the caller's User-Agent header.
func UserAgent(ctx context.Context) string { return stringValue(ctx, userAgentKey) }

// WithClientMetadata records the caller address and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// RequestID returns the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// APIVersion returns the version of the matched route, e.g. "v1".
func APIVersion(ctx context.Context) string { return stringValue(ctx, apiVersionKey) }

func WithAPIVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, apiVersionKey, version)
}

// Now returns the request's arrival time. Outside a request, such as in the
// audit worker, it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
