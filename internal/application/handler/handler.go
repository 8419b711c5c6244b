package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"onegov/internal/application/models"
	"onegov/internal/application/service"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/httputil"
	"onegov/pkg/requestcontext"
)

// Service defines the lifecycle operations exposed over HTTP. Submission
// lives with the portal because it needs the profile and the vault.
type Service interface {
	ListMine(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Queue(ctx context.Context, status models.Status, limit int) ([]models.Application, error)
	Transition(ctx context.Context, appID id.ApplicationID, in service.TransitionInput) (*models.Application, error)
	Track(ctx context.Context, trackingID string) (*service.TrackView, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the anonymous tracking endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/v1/track/{trackingID}", h.HandleTrack)
}

// RegisterCitizen mounts the citizen's own history.
func (h *Handler) RegisterCitizen(r chi.Router) {
	r.Get("/v1/applications", h.HandleListMine)
}

// RegisterAuthenticated mounts endpoints open to owners and staff alike.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/v1/applications/{applicationID}", h.HandleGet)
}

// RegisterStaff mounts the officer queue and the transition endpoint.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/v1/applications/queue", h.HandleQueue)
	r.Post("/v1/applications/{applicationID}/transitions", h.HandleTransition)
}

type applicationsResponse struct {
	Applications []models.Application `json:"applications"`
}

func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Track(r.Context(), chi.URLParam(r, "trackingID"))
	if err != nil {
		h.fail(r.Context(), w, "track failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListMine(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "list applications failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, applicationsResponse{Applications: apps})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	app, err := h.service.Get(r.Context(), appID)
	if err != nil {
		h.fail(r.Context(), w, "get application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.StatusSubmitted
	if raw := q.Get("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = st
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	apps, err := h.service.Queue(r.Context(), status, limit)
	if err != nil {
		h.fail(r.Context(), w, "queue failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, applicationsResponse{Applications: apps})
}

func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.Transition(ctx, appID, service.TransitionInput{
		Target:            req.Target(),
		Remarks:           req.Remarks,
		CertificateNumber: req.CertificateNumber,
	})
	if err != nil {
		h.fail(ctx, w, "transition failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
