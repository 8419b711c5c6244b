package service

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	profile "onegov/internal/profile/models"
	"onegov/internal/scheme/metrics"
	"onegov/internal/scheme/models"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/requestcontext"
)

var tracer = otel.Tracer("onegov/internal/scheme/service")

type Catalog interface {
	List() []models.Scheme
	Get(schemeID string) (models.Scheme, bool)
}

type Engine interface {
	Evaluate(p *profile.CitizenProfile, s models.Scheme) (models.Result, error)
}

// Recommendation pairs a scheme with its evaluation.
type Recommendation struct {
	Scheme models.Scheme `json:"scheme"`
	Result models.Result `json:"result"`
}

// Undetermined is a scheme whose criteria could not be evaluated.
type Undetermined struct {
	SchemeID string `json:"scheme_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// Recommendations lists eligible schemes first, then nearly eligible ones,
// each group in catalog order.
type Recommendations struct {
	Schemes         []Recommendation `json:"schemes"`
	CannotDetermine []Undetermined   `json:"cannot_determine"`
}

type Service struct {
	catalog  Catalog
	engine   Engine
	logger   *slog.Logger
	metrics  *metrics.Metrics
	maxUnmet int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxUnmet hides nearly eligible schemes with more than n unmet criteria
// from recommendations. Zero means unlimited.
func WithMaxUnmet(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUnmet = n
		}
	}
}

func New(catalog Catalog, engine Engine, opts ...Option) *Service {
	s := &Service{catalog: catalog, engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListSchemes(_ context.Context) []models.Scheme {
	return s.catalog.List()
}

// GetScheme errors with CodeNotFound for an unknown id.
func (s *Service) GetScheme(_ context.Context, schemeID string) (models.Scheme, error) {
	sc, ok := s.catalog.Get(schemeID)
	if !ok {
		return models.Scheme{}, dErrors.New(dErrors.CodeNotFound, "scheme not found")
	}
	return sc, nil
}

// Evaluate runs one scheme against p.
// Errors: CodeNotFound for an unknown scheme, CodeConfiguration for a
// malformed one.
func (s *Service) Evaluate(ctx context.Context, p *profile.CitizenProfile, schemeID string) (models.Result, error) {
	sc, err := s.GetScheme(ctx, schemeID)
	if err != nil {
		return models.Result{}, err
	}
	res, err := s.engine.Evaluate(p, sc)
	if err != nil {
		s.metrics.IncConfigError(sc.ID)
		s.logger.ErrorContext(ctx, "scheme criteria malformed",
			"request_id", requestcontext.RequestID(ctx),
			"scheme_id", sc.ID,
			"error", err,
		)
		return models.Result{}, err
	}
	s.metrics.IncOutcome(string(res.Status))
	return res, nil
}

// Recommend evaluates every catalog scheme. Malformed schemes are reported
// under CannotDetermine instead of failing the listing.
func (s *Service) Recommend(ctx context.Context, p *profile.CitizenProfile) (*Recommendations, error) {
	ctx, span := tracer.Start(ctx, "scheme.Recommend")
	defer span.End()

	out := &Recommendations{
		Schemes:         make([]Recommendation, 0),
		CannotDetermine: make([]Undetermined, 0),
	}
	for _, sc := range s.catalog.List() {
		res, err := s.engine.Evaluate(p, sc)
		if err != nil {
			s.metrics.IncConfigError(sc.ID)
			s.logger.WarnContext(ctx, "scheme skipped from recommendations",
				"request_id", requestcontext.RequestID(ctx),
				"scheme_id", sc.ID,
				"error", err,
			)
			out.CannotDetermine = append(out.CannotDetermine, Undetermined{
				SchemeID: sc.ID,
				Name:     sc.Name,
				Reason:   "eligibility cannot be determined",
			})
			continue
		}
		s.metrics.IncOutcome(string(res.Status))
		if s.maxUnmet > 0 && len(res.Unmet) > s.maxUnmet {
			continue
		}
		out.Schemes = append(out.Schemes, Recommendation{Scheme: sc, Result: res})
	}

	sort.SliceStable(out.Schemes, func(i, j int) bool {
		return out.Schemes[i].Result.Status == models.StatusEligible &&
			out.Schemes[j].Result.Status != models.StatusEligible
	})
	span.SetAttributes(
		attribute.Int("schemes.recommended", len(out.Schemes)),
		attribute.Int("schemes.undetermined", len(out.CannotDetermine)),
	)
	return out, nil
}
