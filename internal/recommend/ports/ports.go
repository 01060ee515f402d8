// Package ports declares what the recommendation service needs from the
// rest of the system.
package ports

import (
	"context"

	"greenforge/internal/scoring"
	"greenforge/pkg/platform/audit"
)

// CatalogPort resolves every compound a request mentions in one call, so
// scoring never performs I/O.
type CatalogPort interface {
	Snapshot(ctx context.Context, compounds []scoring.Compound) (scoring.Snapshot, error)
}

// AuditPort records completed recommendations.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
