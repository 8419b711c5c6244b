// Package service runs the application lifecycle: opening applications under
// a fresh tracking id, staff transitions with optimistic concurrency, and the
// anonymous tracking view.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onegov/internal/application/metrics"
	"onegov/internal/application/models"
	"onegov/internal/application/tracking"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/audit"
	"onegov/pkg/platform/sentinel"
	"onegov/pkg/platform/tx"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Issuer,TrackingCache,AuditPublisher

var tracer = otel.Tracer("onegov/internal/application/service")

const (
	DefaultMaxIssueRetries = 5
	DefaultQueueLimit      = 50
)

type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error)
	ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]models.Application, error)
	ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Application, error)
	Transition(ctx context.Context, app *models.Application, prevStatus models.Status, prevUpdatedAt time.Time) error
}

type Issuer interface {
	Issue(prefix string) (string, error)
}

// TrackingCache fronts anonymous tracking lookups.
type TrackingCache interface {
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error)
	Invalidate(ctx context.Context, trackingID string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TransitionInput is a staff request to move an application.
type TransitionInput struct {
	Target            models.Status
	Remarks           string
	CertificateNumber string
}

// TrackView is what anyone holding a tracking id may see. It carries no
// citizen identity.
type TrackView struct {
	TrackingID        string              `json:"tracking_id"`
	Family            models.Family       `json:"family"`
	ServiceName       string              `json:"service_name"`
	Status            models.Status       `json:"status"`
	StageLabel        string              `json:"stage_label"`
	CertificateNumber string              `json:"certificate_number,omitempty"`
	DaysRemaining     int                 `json:"estimated_days_remaining"`
	Progress          int                 `json:"progress_percent"`
	Timeline          []TrackTimelineItem `json:"timeline"`
	SubmittedAt       time.Time           `json:"submitted_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type TrackTimelineItem struct {
	Status     models.Status `json:"status"`
	Label      string        `json:"label"`
	ActorRole  id.ActorRole  `json:"actor_role"`
	Remarks    string        `json:"remarks,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type Service struct {
	store          Store
	issuer         Issuer
	tx             tx.Runner
	cache          TrackingCache
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	maxRetries     int
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

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func WithTrackingCache(c TrackingCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithIssuer(i Issuer) Option {
	return func(s *Service) { s.issuer = i }
}

// WithMaxIssueRetries bounds how many tracking ids Create tries before giving up.
func WithMaxIssueRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		issuer:     tracking.NewIssuer(),
		tx:         tx.NopRunner{},
		logger:     slog.Default(),
		maxRetries: DefaultMaxIssueRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens an application for the session citizen. The submission must
// already carry the matcher-derived attachments and the profile snapshot.
//
// A tracking id collision reported by the store is retried with a fresh id;
// each attempt runs in its own transaction with the submission audit record,
// and a rejected attempt leaves no audit record behind.
func (s *Service) Create(ctx context.Context, sub models.Submission) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Create")
	defer span.End()

	session := requestcontext.SessionFrom(ctx)
	if session.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if session.Role != id.RoleCitizen {
		return nil, dErrors.New(dErrors.CodeForbidden, "only citizens submit applications")
	}
	sub.CitizenID = session.CitizenID
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		trackingID, err := s.issuer.Issue(sub.Family.Prefix())
		if err != nil {
			return nil, err
		}
		app, err := models.NewApplication(sub, trackingID, now)
		if err != nil {
			return nil, err
		}

		event := audit.Event{
			CitizenID: app.CitizenID,
			Subject:   app.TrackingID,
			Action:    audit.EventApplicationSubmitted,
			Status:    string(app.Status),
			ActorRole: id.RoleCitizen,
		}
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return tx.Ordered(ctx, s.tx,
				func(ctx context.Context) error { return s.emit(ctx, event) },
				func(ctx context.Context) error { return s.store.Create(ctx, app) },
			)
		})
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.metrics.IncIssueRetry()
			s.logger.WarnContext(ctx, "tracking id collision, reissuing",
				"request_id", requestcontext.RequestID(ctx),
				"tracking_id", trackingID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create failed")
			return nil, translate(err, "failed to create application")
		}

		span.SetAttributes(
			attribute.String("tracking_id", app.TrackingID),
			attribute.String("family", string(app.Family)),
			attribute.Int("attempts", attempt),
		)
		s.metrics.IncSubmission(string(app.Family))
		s.logger.InfoContext(ctx, "application submitted",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", app.ID,
			"tracking_id", app.TrackingID,
			"family", app.Family,
			"documents", len(app.DocumentIDs),
			"missing", len(app.MissingKinds),
		)
		return app, nil
	}

	span.SetStatus(codes.Error, "tracking ids exhausted")
	return nil, dErrors.New(dErrors.CodeConflict,
		fmt.Sprintf("could not allocate a unique tracking id after %d attempts", s.maxRetries))
}

// Transition moves an application on behalf of the session officer or admin.
// A request for the current status returns the application unchanged.
//
// Errors: CodeForbidden, CodeNotFound, CodeValidation, CodeTerminalState,
// CodeImmutableField, and CodeStaleState when another transition committed
// first; callers re-read and retry on the latter.
func (s *Service) Transition(ctx context.Context, appID id.ApplicationID, in TransitionInput) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Transition", trace.WithAttributes(
		attribute.String("application_id", appID.String()),
		attribute.String("target", string(in.Target)),
	))
	defer span.End()

	role := requestcontext.Role(ctx)
	if !role.IsStaff() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only officers and admins may change application status")
	}

	var (
		out     *models.Application
		from    models.Status
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		app, err := s.store.FindByID(ctx, appID)
		if err != nil {
			return translate(err, "failed to load application")
		}
		from = app.Status
		prevUpdatedAt := app.UpdatedAt

		changed, err = app.Apply(models.Transition{
			Target:            in.Target,
			Actor:             role,
			Remarks:           in.Remarks,
			CertificateNumber: in.CertificateNumber,
		}, requestcontext.Now(ctx))
		if err != nil {
			return err
		}
		out = app
		if !changed {
			return nil
		}

		event := audit.Event{
			CitizenID: app.CitizenID,
			Subject:   app.TrackingID,
			Action:    audit.EventApplicationTransitioned,
			Status:    string(app.Status),
			ActorRole: role,
			Remarks:   app.LastEntry().Remarks,
		}
		return tx.Ordered(ctx, s.tx,
			func(ctx context.Context) error { return s.emit(ctx, event) },
			func(ctx context.Context) error {
				if err := s.store.Transition(ctx, app, from, prevUpdatedAt); err != nil {
					return translate(err, "failed to record transition")
				}
				return nil
			},
		)
	})
	if err != nil {
		err = translate(err, "failed to transition application")
		if de, ok := dErrors.From(err); ok && de.Code != dErrors.CodeInternal {
			s.metrics.IncConflict(string(de.Code))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		s.logger.InfoContext(ctx, "application transition refused",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"target", in.Target,
			"error", err,
		)
		return nil, err
	}
	if !changed {
		return out, nil
	}

	s.invalidate(ctx, out.TrackingID)
	s.metrics.IncTransition(string(from), string(out.Status))
	s.logger.InfoContext(ctx, "application transitioned",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", out.ID,
		"tracking_id", out.TrackingID,
		"from", from,
		"status", out.Status,
		"actor_role", role,
	)
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, trackingID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, trackingID); err != nil {
		s.logger.WarnContext(ctx, "tracking cache invalidation failed",
			"tracking_id", trackingID,
			"error", err,
		)
	}
}

// Track looks an application up by tracking id without any session. Ids that
// are malformed or unknown are both reported as not found.
func (s *Service) Track(ctx context.Context, trackingID string) (*TrackView, error) {
	ctx, span := tracer.Start(ctx, "application.Track", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if !tracking.Valid(trackingID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	var (
		app *models.Application
		err error
	)
	if s.cache != nil {
		app, err = s.cache.FindByTrackingID(ctx, trackingID)
	} else {
		app, err = s.store.FindByTrackingID(ctx, trackingID)
	}
	if err != nil {
		return nil, translate(err, "failed to load application")
	}
	span.SetAttributes(attribute.String("status", string(app.Status)))
	return newTrackView(app), nil
}

func newTrackView(app *models.Application) *TrackView {
	items := make([]TrackTimelineItem, 0, len(app.Timeline))
	for _, e := range app.Timeline {
		items = append(items, TrackTimelineItem{
			Status:     e.Status,
			Label:      e.Label(),
			ActorRole:  e.ActorRole,
			Remarks:    e.Remarks,
			OccurredAt: e.OccurredAt,
		})
	}
	return &TrackView{
		TrackingID:        app.TrackingID,
		Family:            app.Family,
		ServiceName:       app.ServiceName,
		Status:            app.Status,
		StageLabel:        app.Status.Label(),
		CertificateNumber: app.CertificateNumber,
		DaysRemaining:     app.DaysRemaining(),
		Progress:          app.Progress(),
		Timeline:          items,
		SubmittedAt:       app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

// ListMine returns the session citizen's applications newest first.
func (s *Service) ListMine(ctx context.Context) ([]models.Application, error) {
	session := requestcontext.SessionFrom(ctx)
	if session.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if session.Role != id.RoleCitizen {
		return nil, dErrors.New(dErrors.CodeForbidden, "only citizens have an application history")
	}
	apps, err := s.store.ListByCitizen(ctx, session.CitizenID)
	if err != nil {
		return nil, translate(err, "failed to list applications")
	}
	return apps, nil
}

// Get returns one application to its owner or to staff.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	session := requestcontext.SessionFrom(ctx)
	if session.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	app, err := s.store.FindByID(ctx, appID)
	if err != nil {
		return nil, translate(err, "failed to load application")
	}
	if !session.Role.IsStaff() && app.CitizenID != session.CitizenID {
		return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return app, nil
}

// Queue lists applications waiting in status for officer dashboards.
func (s *Service) Queue(ctx context.Context, status models.Status, limit int) ([]models.Application, error) {
	if !requestcontext.Role(ctx).IsStaff() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only officers and admins see the queue")
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown status")
	}
	if limit <= 0 || limit > 500 {
		limit = DefaultQueueLimit
	}
	apps, err := s.store.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, translate(err, "failed to list queue")
	}
	return apps, nil
}

// emit is fail-closed: a failed audit record aborts the surrounding
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

func translate(err error, msg string) error {
	if _, ok := dErrors.From(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeStaleState, "application changed since it was read")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
