package httptransport

import (
	"context"
	"net/http"
	"time"

	"greenforge/pkg/platform/httputil"
)

const healthTimeout = 2 * time.Second

// Check probes one backend.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthHandler reports backend status for GET /health.
type HealthHandler struct {
	catalogBackend string
	degraded       func() bool
	checks         []Check
}

// NewHealthHandler builds a health endpoint. degraded may be nil.
func NewHealthHandler(catalogBackend string, degraded func() bool, checks ...Check) *HealthHandler {
	return &HealthHandler{catalogBackend: catalogBackend, degraded: degraded, checks: checks}
}

type healthResponse struct {
	Status         string            `json:"status"`
	CatalogBackend string            `json:"catalogBackend"`
	Fallback       bool              `json:"fallback"`
	Checks         map[string]string `json:"checks"`
}

// HandleHealth answers 200 while the service can score, including when the
// compound catalog is served from the embedded fallback, and 503 otherwise.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:         "ok",
		CatalogBackend: h.catalogBackend,
		Checks:         make(map[string]string, len(h.checks)),
	}
	failed := false
	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			resp.Checks[c.Name] = err.Error()
			failed = true
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	if h.degraded != nil && h.degraded() {
		resp.Fallback = true
		resp.Status = "degraded"
	}

	status := http.StatusOK
	if failed && !resp.Fallback {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else if failed {
		resp.Status = "degraded"
	}
	httputil.WriteJSON(w, status, resp)
}
