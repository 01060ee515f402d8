package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"greenforge/internal/strain/models"
	"greenforge/pkg/platform/httputil"
	"greenforge/pkg/requestcontext"
)

// Service reads the strain library.
type Service interface {
	ListNames(ctx context.Context) ([]string, error)
	Variants(ctx context.Context, name string) ([]models.Variant, error)
}

// Handler exposes the strain library.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a strain handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts strain endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/strains", h.HandleList)
	r.Get("/strains/{name}", h.HandleGet)
}

// HandleList handles GET /strains.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	names, err := h.service.ListNames(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list strains failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Strains: names, Count: len(names)})
}

// HandleGet handles GET /strains/{name}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	variants, err := h.service.Variants(ctx, name)
	if err != nil {
		h.logger.InfoContext(ctx, "strain lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"strain", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVariants(variants))
}
