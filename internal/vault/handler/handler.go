package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onegov/internal/vault/models"
	"onegov/internal/vault/service"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/httputil"
	"onegov/pkg/requestcontext"
)

// Service defines the vault operations exposed over HTTP.
type Service interface {
	Upload(ctx context.Context, in service.UploadInput) (*models.VaultDocument, error)
	List(ctx context.Context) ([]models.VaultDocument, error)
	Missing(ctx context.Context) ([]id.DocumentKind, error)
	Delete(ctx context.Context, docID id.DocumentID) error
	Verify(ctx context.Context, docID id.DocumentID, decision models.VerificationStatus, remarks string) (*models.VaultDocument, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterCitizen mounts the citizen-owned vault endpoints.
func (h *Handler) RegisterCitizen(r chi.Router) {
	r.Post("/v1/vault/documents", h.HandleUpload)
	r.Get("/v1/vault/documents", h.HandleList)
	r.Get("/v1/vault/missing", h.HandleMissing)
	r.Delete("/v1/vault/documents/{documentID}", h.HandleDelete)
}

// RegisterStaff mounts the officer verification endpoint.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Post("/v1/vault/documents/{documentID}/verification", h.HandleVerify)
}

type documentsResponse struct {
	Documents []models.VaultDocument `json:"documents"`
}

type missingResponse struct {
	Missing []id.DocumentKind `json:"missing"`
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[UploadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	doc, err := h.service.Upload(ctx, service.UploadInput{
		Kind:      req.Kind,
		FileName:  req.FileName,
		SizeBytes: req.SizeBytes,
	})
	if err != nil {
		h.fail(ctx, w, "vault upload failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "vault list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, documentsResponse{Documents: docs})
}

func (h *Handler) HandleMissing(w http.ResponseWriter, r *http.Request) {
	missing, err := h.service.Missing(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "vault missing view failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, missingResponse{Missing: missing})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), docID); err != nil {
		h.fail(r.Context(), w, "vault delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerificationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	doc, err := h.service.Verify(ctx, docID, req.ParsedDecision(), req.Remarks)
	if err != nil {
		h.fail(ctx, w, "vault verification failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
