// Package service composes the profile, scheme catalog, vault and
// application lifecycle into the citizen-facing portal operations:
// eligibility, recommendations, draft previews and submission.
package service

import (
	"context"
	"log/slog"
	"maps"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	appmodels "onegov/internal/application/models"
	profile "onegov/internal/profile/models"
	schemes "onegov/internal/scheme/models"
	schemesvc "onegov/internal/scheme/service"
	"onegov/internal/vault/matcher"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Profiles,Schemes,Vault,Applications

var tracer = otel.Tracer("onegov/internal/portal/service")

type Profiles interface {
	Get(ctx context.Context, citizenID id.CitizenID) (*profile.CitizenProfile, error)
}

type Schemes interface {
	GetScheme(ctx context.Context, schemeID string) (schemes.Scheme, error)
	Evaluate(ctx context.Context, p *profile.CitizenProfile, schemeID string) (schemes.Result, error)
	Recommend(ctx context.Context, p *profile.CitizenProfile) (*schemesvc.Recommendations, error)
}

type Vault interface {
	Match(ctx context.Context, citizenID id.CitizenID, required []string) (matcher.Result, error)
}

type Applications interface {
	Create(ctx context.Context, sub appmodels.Submission) (*appmodels.Application, error)
}

// Draft is what a citizen sees before submitting: their eligibility (for
// scheme applications) and which required documents the vault can supply.
type Draft struct {
	Family      appmodels.Family     `json:"family"`
	ServiceRef  string               `json:"service_ref"`
	ServiceName string               `json:"service_name"`
	Eligibility *schemes.Result      `json:"eligibility,omitempty"`
	Attached    []matcher.Attachment `json:"attached"`
	Missing     []string             `json:"missing"`
}

// Submitted is the outcome of a submission.
type Submitted struct {
	Application *appmodels.Application `json:"application"`
	Missing     []string               `json:"missing"`
}

// ServiceRequest opens a certificate, health or complaint request.
type ServiceRequest struct {
	Family      appmodels.Family
	ServiceName string
	Details     map[string]any
}

type Service struct {
	profiles     Profiles
	schemes      Schemes
	vault        Vault
	applications Applications
	logger       *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(profiles Profiles, schemes Schemes, vault Vault, applications Applications, opts ...Option) *Service {
	s := &Service{
		profiles:     profiles,
		schemes:      schemes,
		vault:        vault,
		applications: applications,
		logger:       slog.Default(),
	}
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
		return id.CitizenID{}, dErrors.New(dErrors.CodeForbidden, "only citizens use the portal")
	}
	return session.CitizenID, nil
}

// loadProfile reports a missing profile as a validation problem: the citizen
// has to fill it in before anything can be evaluated or submitted.
func (s *Service) loadProfile(ctx context.Context, citizenID id.CitizenID) (*profile.CitizenProfile, error) {
	p, err := s.profiles.Get(ctx, citizenID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "complete your profile first")
		}
		return nil, err
	}
	return p, nil
}

// Eligibility evaluates one scheme for the session citizen.
func (s *Service) Eligibility(ctx context.Context, schemeID string) (schemes.Result, error) {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return schemes.Result{}, err
	}
	p, err := s.loadProfile(ctx, citizenID)
	if err != nil {
		return schemes.Result{}, err
	}
	return s.schemes.Evaluate(ctx, p, schemeID)
}

// Recommendations lists the schemes the session citizen qualifies or nearly
// qualifies for.
func (s *Service) Recommendations(ctx context.Context) (*schemesvc.Recommendations, error) {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.loadProfile(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	return s.schemes.Recommend(ctx, p)
}

type schemeDraft struct {
	profile *profile.CitizenProfile
	scheme  schemes.Scheme
	result  schemes.Result
	match   matcher.Result
}

// prepareScheme loads the profile, scheme and vault match concurrently, then
// evaluates eligibility. A malformed scheme fails the draft.
func (s *Service) prepareScheme(ctx context.Context, citizenID id.CitizenID, schemeID string) (*schemeDraft, error) {
	var d schemeDraft
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.loadProfile(gctx, citizenID)
		d.profile = p
		return err
	})
	g.Go(func() error {
		sc, err := s.schemes.GetScheme(gctx, schemeID)
		if err != nil {
			return err
		}
		d.scheme = sc
		m, err := s.vault.Match(gctx, citizenID, sc.RequiredDocuments)
		d.match = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res, err := s.schemes.Evaluate(ctx, d.profile, schemeID)
	if err != nil {
		return nil, err
	}
	d.result = res
	return &d, nil
}

// PreviewScheme shows the draft application for schemeID without saving it.
func (s *Service) PreviewScheme(ctx context.Context, schemeID string) (*Draft, error) {
	ctx, span := tracer.Start(ctx, "portal.PreviewScheme")
	defer span.End()

	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.prepareScheme(ctx, citizenID, schemeID)
	if err != nil {
		return nil, err
	}
	return &Draft{
		Family:      appmodels.FamilyScheme,
		ServiceRef:  d.scheme.ID,
		ServiceName: d.scheme.Name,
		Eligibility: &d.result,
		Attached:    d.match.Attached,
		Missing:     d.match.Missing,
	}, nil
}

// SubmitScheme opens a scheme application with the matcher's attachments and
// a snapshot of the profile. Missing documents and unmet criteria are
// recorded, not enforced; officers decide.
func (s *Service) SubmitScheme(ctx context.Context, schemeID string) (*Submitted, error) {
	ctx, span := tracer.Start(ctx, "portal.SubmitScheme")
	defer span.End()

	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.prepareScheme(ctx, citizenID, schemeID)
	if err != nil {
		return nil, err
	}

	snapshot := d.profile.Snapshot()
	snapshot["eligibility"] = string(d.result.Status)
	app, err := s.applications.Create(ctx, appmodels.Submission{
		Family:       appmodels.FamilyScheme,
		ServiceRef:   d.scheme.ID,
		ServiceName:  d.scheme.Name,
		DocumentIDs:  d.match.DocumentIDs(),
		MissingKinds: d.match.Missing,
		FormSnapshot: snapshot,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("tracking_id", app.TrackingID),
		attribute.Int("documents.missing", len(d.match.Missing)),
	)
	return &Submitted{Application: app, Missing: d.match.Missing}, nil
}

// PreviewService shows which documents a service request would carry.
func (s *Service) PreviewService(ctx context.Context, family appmodels.Family) (*Draft, error) {
	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkServiceFamily(family); err != nil {
		return nil, err
	}
	m, err := s.vault.Match(ctx, citizenID, kindTags(family))
	if err != nil {
		return nil, err
	}
	return &Draft{
		Family:      family,
		ServiceRef:  string(family),
		ServiceName: family.DisplayName(),
		Attached:    m.Attached,
		Missing:     m.Missing,
	}, nil
}

// SubmitService opens a service request. Details are stored alongside the
// profile snapshot under "request".
func (s *Service) SubmitService(ctx context.Context, req ServiceRequest) (*Submitted, error) {
	ctx, span := tracer.Start(ctx, "portal.SubmitService")
	defer span.End()

	citizenID, err := requireCitizen(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkServiceFamily(req.Family); err != nil {
		return nil, err
	}

	var (
		p *profile.CitizenProfile
		m matcher.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.loadProfile(gctx, citizenID)
		return err
	})
	g.Go(func() error {
		var err error
		m, err = s.vault.Match(gctx, citizenID, kindTags(req.Family))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := p.Snapshot()
	if len(req.Details) > 0 {
		snapshot["request"] = maps.Clone(req.Details)
	}
	name := req.ServiceName
	if name == "" {
		name = req.Family.DisplayName()
	}
	app, err := s.applications.Create(ctx, appmodels.Submission{
		Family:       req.Family,
		ServiceRef:   string(req.Family),
		ServiceName:  name,
		DocumentIDs:  m.DocumentIDs(),
		MissingKinds: m.Missing,
		FormSnapshot: snapshot,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("tracking_id", app.TrackingID))
	return &Submitted{Application: app, Missing: m.Missing}, nil
}

func checkServiceFamily(f appmodels.Family) error {
	if !f.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown service family")
	}
	if f == appmodels.FamilyScheme {
		return dErrors.New(dErrors.CodeValidation, "scheme applications are submitted by scheme id")
	}
	return nil
}

func kindTags(f appmodels.Family) []string {
	kinds := f.RequiredKinds()
	tags := make([]string, len(kinds))
	for i, k := range kinds {
		tags[i] = string(k)
	}
	return tags
}
