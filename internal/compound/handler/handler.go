package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"greenforge/internal/compound/models"
	"greenforge/pkg/platform/httputil"
	"greenforge/pkg/requestcontext"
)

// Service lists the compound catalog.
type Service interface {
	List(ctx context.Context) ([]models.Compound, error)
}

// Handler exposes the compound reference catalog.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compound handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts compound endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/compounds", h.HandleList)
}

// HandleList handles GET /compounds.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list compounds failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCompounds(rows))
}
