// Package service owns the citizen's document vault and exposes the matcher
// over stored documents.
package service

import (
	"context"
	"errors"
	"log/slog"

	"onegov/internal/vault/matcher"
	"onegov/internal/vault/metrics"
	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/audit"
	"onegov/pkg/platform/sentinel"
	"onegov/pkg/platform/tx"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

type Store interface {
	Save(ctx context.Context, d *models.VaultDocument) error
	FindByID(ctx context.Context, docID id.DocumentID) (*models.VaultDocument, error)
	ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]models.VaultDocument, error)
	UpdateVerification(ctx context.Context, d *models.VaultDocument) error
	Delete(ctx context.Context, docID id.DocumentID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// UploadInput is the metadata of a file a citizen adds to the vault.
type UploadInput struct {
	Kind      string
	FileName  string
	SizeBytes int64
}

type Service struct {
	store          Store
	tx             tx.Runner
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

// WithTxRunner makes verification and deletion commit atomically with their
// audit records.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, tx: tx.NopRunner{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireCitizen(ctx context.Context) (id.CitizenID, error) {
	session := requestcontext.SessionFrom(ctx)
	if session.IsAnonymous() {
		return id.CitizenID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if session.Role != id.RoleCitizen {
		return id.CitizenID{}, dErrors.New(dErrors.CodeForbidden, "only citizens hold a vault")
	}
	return session.CitizenID, nil
}

// Upload records a new pending document for the session citizen.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.VaultDocument, error) {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	kind, err := id.ParseDocumentKind(in.Kind)
	if err != nil {
		return nil, err
	}
	doc, err := models.NewVaultDocument(citizenID, kind, in.FileName, in.SizeBytes, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, translate(err, "failed to save document")
	}

	s.metrics.IncUpload(string(kind))
	s.emitBestEffort(ctx, audit.Event{
		CitizenID: citizenID,
		Subject:   doc.ID.String(),
		Action:    audit.EventDocumentUploaded,
		Status:    string(doc.Status),
		ActorRole: id.RoleCitizen,
	})
	s.logger.InfoContext(ctx, "vault document uploaded",
		"request_id", requestcontext.RequestID(ctx),
		"citizen_id", citizenID,
		"document_id", doc.ID,
		"kind", kind,
	)
	return doc, nil
}

// List returns the session citizen's documents oldest first.
func (s *Service) List(ctx context.Context) ([]models.VaultDocument, error) {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListFor(ctx, citizenID)
}

// ListFor lists citizenID's vault. Callers other than the owner must be staff.
func (s *Service) ListFor(ctx context.Context, citizenID id.CitizenID) ([]models.VaultDocument, error) {
	session := requestcontext.SessionFrom(ctx)
	if session.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if session.CitizenID != citizenID && !session.Role.IsStaff() {
		return nil, dErrors.New(dErrors.CodeForbidden, "vault belongs to another citizen")
	}
	docs, err := s.store.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, translate(err, "failed to list documents")
	}
	return docs, nil
}

// Missing returns the portal-wide required kinds the citizen does not hold.
func (s *Service) Missing(ctx context.Context) ([]id.DocumentKind, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.MissingRequired(docs), nil
}

// Match runs the matcher over citizenID's current vault.
func (s *Service) Match(ctx context.Context, citizenID id.CitizenID, required []string) (matcher.Result, error) {
	docs, err := s.ListFor(ctx, citizenID)
	if err != nil {
		return matcher.Result{}, err
	}
	res := matcher.Match(docs, required)
	s.metrics.IncMatchMissing(res.Missing)
	return res, nil
}

// Delete removes a document owned by the session citizen. Documents of other
// citizens are reported as not found.
func (s *Service) Delete(ctx context.Context, docID id.DocumentID) error {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		doc, err := s.store.FindByID(ctx, docID)
		if err != nil {
			return translate(err, "failed to load document")
		}
		if doc.CitizenID != citizenID {
			return dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		event := audit.Event{
			CitizenID: citizenID,
			Subject:   docID.String(),
			Action:    audit.EventDocumentDeleted,
			ActorRole: id.RoleCitizen,
		}
		return tx.Ordered(ctx, s.tx,
			func(ctx context.Context) error { return s.emit(ctx, event) },
			func(ctx context.Context) error {
				if err := s.store.Delete(ctx, docID); err != nil {
					return translate(err, "failed to delete document")
				}
				return nil
			},
		)
	})
}

// Verify records an officer decision on a pending document.
//
// Errors: CodeForbidden for non-staff, CodeNotFound, CodeConflict when the
// document was already decided, CodeValidation for a rejection without remark.
func (s *Service) Verify(ctx context.Context, docID id.DocumentID, decision models.VerificationStatus, remarks string) (*models.VaultDocument, error) {
	role := requestcontext.Role(ctx)
	if !role.IsStaff() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only officers may verify documents")
	}

	var out *models.VaultDocument
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		doc, err := s.store.FindByID(ctx, docID)
		if err != nil {
			return translate(err, "failed to load document")
		}
		if err := doc.ApplyVerification(decision, role, remarks, requestcontext.Now(ctx)); err != nil {
			return err
		}
		event := audit.Event{
			CitizenID: doc.CitizenID,
			Subject:   doc.ID.String(),
			Action:    audit.EventDocumentVerified,
			Status:    string(doc.Status),
			ActorRole: role,
			Remarks:   doc.Remarks,
		}
		err = tx.Ordered(ctx, s.tx,
			func(ctx context.Context) error { return s.emit(ctx, event) },
			func(ctx context.Context) error {
				if err := s.store.UpdateVerification(ctx, doc); err != nil {
					return translate(err, "failed to record verification")
				}
				return nil
			},
		)
		if err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncVerification(string(out.Status))
	s.logger.InfoContext(ctx, "vault document verified",
		"request_id", requestcontext.RequestID(ctx),
		"document_id", out.ID,
		"status", out.Status,
	)
	return out, nil
}

// emit is fail-closed: a failed compliance event aborts the surrounding
// transaction.
func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) emitBestEffort(ctx context.Context, event audit.Event) {
	if err := s.emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "vault audit failed",
			"subject", event.Subject,
			"action", event.Action,
			"error", err,
		)
	}
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "document already decided")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
