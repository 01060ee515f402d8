package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"greenforge/internal/platform/metrics"
	"greenforge/pkg/platform/httputil"
	"greenforge/pkg/platform/middleware/metadata"
	"greenforge/pkg/platform/middleware/requestid"
	"greenforge/pkg/platform/middleware/requestlog"
	"greenforge/pkg/platform/middleware/requesttime"
	"greenforge/pkg/platform/middleware/version"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Health   *HealthHandler
	Handlers []RouteRegistrar
	// APIMiddleware runs only for /api/v1 routes.
	APIMiddleware []func(http.Handler) http.Handler
}

// NewRouter wires the middleware chain, the versioned API, and the
// operational endpoints. Handlers stay free of transport wiring.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(requestlog.Middleware(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(version.ExtractVersion("v1"))
		api.Use(deps.APIMiddleware...)
		for _, h := range deps.Handlers {
			h.Register(api)
		}
	})

	if deps.Health != nil {
		r.Get("/health", deps.Health.HandleHealth)
	}
	r.Get("/", handleIndex)
	r.Handle("/metrics", metrics.Handler())
	return r
}

type indexResponse struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, indexResponse{
		Service: "greenforge",
		Endpoints: []string{
			"POST /api/v1/recommend",
			"GET /api/v1/compounds",
			"GET /api/v1/thermal-zones",
			"GET /api/v1/strains",
			"GET /api/v1/strains/{name}",
			"GET /health",
			"GET /metrics",
		},
	})
}
