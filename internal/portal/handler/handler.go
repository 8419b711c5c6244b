package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appmodels "onegov/internal/application/models"
	"onegov/internal/portal/service"
	schemes "onegov/internal/scheme/models"
	schemesvc "onegov/internal/scheme/service"
	"onegov/pkg/platform/httputil"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the citizen-facing portal.
type Service interface {
	Eligibility(ctx context.Context, schemeID string) (schemes.Result, error)
	Recommendations(ctx context.Context) (*schemesvc.Recommendations, error)
	PreviewScheme(ctx context.Context, schemeID string) (*service.Draft, error)
	SubmitScheme(ctx context.Context, schemeID string) (*service.Submitted, error)
	PreviewService(ctx context.Context, family appmodels.Family) (*service.Draft, error)
	SubmitService(ctx context.Context, req service.ServiceRequest) (*service.Submitted, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the portal endpoints; all of them need a citizen session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/schemes/{schemeID}/eligibility", h.HandleEligibility)
	r.Get("/v1/recommendations", h.HandleRecommendations)
	r.Post("/v1/applications/preview", h.HandlePreviewScheme)
	r.Post("/v1/applications", h.HandleSubmitScheme)
	r.Post("/v1/service-requests/preview", h.HandlePreviewService)
	r.Post("/v1/service-requests", h.HandleSubmitService)
}

func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Eligibility(r.Context(), chi.URLParam(r, "schemeID"))
	if err != nil {
		h.fail(r.Context(), w, "eligibility failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.Recommendations(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "recommendations failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) HandlePreviewScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SchemeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	draft, err := h.service.PreviewScheme(ctx, req.SchemeID)
	if err != nil {
		h.fail(ctx, w, "scheme preview failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) HandleSubmitScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SchemeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	out, err := h.service.SubmitScheme(ctx, req.SchemeID)
	if err != nil {
		h.fail(ctx, w, "scheme submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) HandlePreviewService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ServiceRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	draft, err := h.service.PreviewService(ctx, req.ParsedFamily())
	if err != nil {
		h.fail(ctx, w, "service preview failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) HandleSubmitService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ServiceRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	out, err := h.service.SubmitService(ctx, service.ServiceRequest{
		Family:      req.ParsedFamily(),
		ServiceName: req.ServiceName,
		Details:     req.Details,
	})
	if err != nil {
		h.fail(ctx, w, "service request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
