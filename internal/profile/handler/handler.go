package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onegov/internal/profile/metrics"
	"onegov/internal/profile/models"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/httputil"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the profile operations the handler needs.
type Service interface {
	Get(ctx context.Context, citizenID id.CitizenID) (*models.CitizenProfile, error)
	Save(ctx context.Context, input models.CitizenProfile) (*models.CitizenProfile, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts profile endpoints. Callers wrap the router with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/profile", h.HandleGet)
	r.Put("/v1/profile", h.HandleSave)
}

// HandleGet handles GET /v1/profile.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID := requestcontext.CitizenID(ctx)
	if citizenID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	p, err := h.service.Get(ctx, citizenID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load profile",
				"request_id", requestcontext.RequestID(ctx),
				"citizen_id", citizenID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleSave handles PUT /v1/profile.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.Save(ctx, req.ToModel())
	if err != nil {
		h.metrics.IncSaveFailure()
		h.logger.WarnContext(ctx, "profile save failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncSaved()
	httputil.WriteJSON(w, http.StatusOK, p)
}
