// Package service is the Profile Store Adapter: it normalizes declared citizen
// attributes into the canonical profile the eligibility engine consumes.
package service

import (
	"context"
	"errors"
	"log/slog"

	"onegov/internal/profile/models"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/audit"
	"onegov/pkg/platform/sentinel"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

type Store interface {
	FindByCitizen(ctx context.Context, citizenID id.CitizenID) (*models.CitizenProfile, error)
	Upsert(ctx context.Context, p *models.CitizenProfile) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the citizen's profile.
// Errors: CodeNotFound when no profile was saved yet.
func (s *Service) Get(ctx context.Context, citizenID id.CitizenID) (*models.CitizenProfile, error) {
	p, err := s.store.FindByCitizen(ctx, citizenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, translateStoreError(err, "failed to load profile")
	}
	return p, nil
}

// Save creates the profile on first call and replaces it in place afterwards.
// Only the owning citizen may save; no history is kept.
func (s *Service) Save(ctx context.Context, input models.CitizenProfile) (*models.CitizenProfile, error) {
	session := requestcontext.SessionFrom(ctx)
	if session.Role != id.RoleCitizen || session.CitizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the citizen may edit their profile")
	}

	p := input
	p.CitizenID = session.CitizenID
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	existing, err := s.store.FindByCitizen(ctx, session.CitizenID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, sentinel.ErrNotFound):
		p.CreatedAt = now
	default:
		return nil, translateStoreError(err, "failed to load profile")
	}
	p.UpdatedAt = now

	if err := s.store.Upsert(ctx, &p); err != nil {
		return nil, translateStoreError(err, "failed to save profile")
	}

	s.emit(ctx, p.CitizenID)
	s.logger.InfoContext(ctx, "profile saved",
		"request_id", requestcontext.RequestID(ctx),
		"citizen_id", p.CitizenID,
	)
	return &p, nil
}

// emit is best-effort: profile saves are operational events, not compliance.
func (s *Service) emit(ctx context.Context, citizenID id.CitizenID) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		CitizenID: citizenID,
		Subject:   citizenID.String(),
		Action:    audit.EventProfileSaved,
		ActorRole: id.RoleCitizen,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "profile audit failed",
			"citizen_id", citizenID,
			"error", err,
		)
	}
}

func translateStoreError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
