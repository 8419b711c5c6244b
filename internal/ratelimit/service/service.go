// Package service decides whether a caller may spend one more request from an
// endpoint class budget.
package service

import (
	"context"
	"log/slog"

	"onegov/internal/ratelimit/metrics"
	"onegov/internal/ratelimit/models"
	dErrors "onegov/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks BucketStore

// BucketStore counts requests per key over a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit models.Limit) (models.Result, error)
}

type Service struct {
	store   BucketStore
	limits  map[models.EndpointClass]models.Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New validates every configured limit up front.
func New(store BucketStore, limits map[models.EndpointClass]models.Limit, opts ...Option) (*Service, error) {
	for class, limit := range limits {
		if !class.IsValid() {
			return nil, dErrors.New(dErrors.CodeConfiguration, "unknown rate limit class: "+string(class))
		}
		if err := limit.Validate(); err != nil {
			return nil, err
		}
	}
	s := &Service{
		store:  store,
		limits: limits,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check spends one request of class for subject. A class without a configured
// limit is unlimited.
//
// Errors: CodeUnavailable when the bucket store fails. Callers decide whether
// to fail open.
func (s *Service) Check(ctx context.Context, class models.EndpointClass, subject string) (models.Result, error) {
	limit, ok := s.limits[class]
	if !ok {
		return models.Result{Allowed: true}, nil
	}

	result, err := s.store.Allow(ctx, string(class)+":"+subject, limit)
	if err != nil {
		s.metrics.IncStoreError()
		return models.Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "rate limit store unavailable")
	}
	if !result.Allowed {
		s.metrics.IncRejection(string(class))
		s.logger.InfoContext(ctx, "rate limit exceeded",
			"class", class,
			"limit", limit.Requests,
			"window", limit.Window,
		)
	}
	return result, nil
}
