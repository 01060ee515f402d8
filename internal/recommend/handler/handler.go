package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"greenforge/internal/recommend"
	"greenforge/internal/scoring"
	"greenforge/pkg/platform/httputil"
	"greenforge/pkg/requestcontext"
)

// Service scores recommendation requests.
type Service interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// Handler exposes recommendation and thermal zone endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a recommendation handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts recommendation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recommend", h.HandleRecommend)
	r.Get("/thermal-zones", h.HandleZones)
}

// HandleRecommend handles POST /recommend.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[RecommendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.Recommend(ctx, body.ToRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResponse(resp))
}

// HandleZones handles GET /thermal-zones.
func (h *Handler) HandleZones(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromZones(scoring.Zones()))
}
