package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onegov/internal/scheme/models"
	"onegov/pkg/platform/httputil"
)

// Service is the read side of the scheme catalog.
type Service interface {
	ListSchemes(ctx context.Context) []models.Scheme
	GetScheme(ctx context.Context, schemeID string) (models.Scheme, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public catalog endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/schemes", h.HandleList)
	r.Get("/v1/schemes/{schemeID}", h.HandleGet)
}

type listResponse struct {
	Schemes []models.Scheme `json:"schemes"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, listResponse{Schemes: h.service.ListSchemes(r.Context())})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetScheme(r.Context(), chi.URLParam(r, "schemeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s)
}
