package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	appmetrics "onegov/internal/application/metrics"
	apphandler "onegov/internal/application/handler"
	appservice "onegov/internal/application/service"
	appstore "onegov/internal/application/store"
	"onegov/internal/platform/config"
	"onegov/internal/platform/kafka"
	"onegov/internal/platform/postgres"
	"onegov/internal/platform/redis"
	portalhandler "onegov/internal/portal/handler"
	portalservice "onegov/internal/portal/service"
	profilehandler "onegov/internal/profile/handler"
	profilemetrics "onegov/internal/profile/metrics"
	profileservice "onegov/internal/profile/service"
	profilestore "onegov/internal/profile/store"
	ratelimitmetrics "onegov/internal/ratelimit/metrics"
	ratelimitmw "onegov/internal/ratelimit/middleware"
	ratelimitmodels "onegov/internal/ratelimit/models"
	ratelimitservice "onegov/internal/ratelimit/service"
	ratelimitstore "onegov/internal/ratelimit/store"
	"onegov/internal/scheme/catalog"
	"onegov/internal/scheme/eligibility"
	schemehandler "onegov/internal/scheme/handler"
	schememetrics "onegov/internal/scheme/metrics"
	schemeservice "onegov/internal/scheme/service"
	vaulthandler "onegov/internal/vault/handler"
	vaultmetrics "onegov/internal/vault/metrics"
	vaultservice "onegov/internal/vault/service"
	vaultstore "onegov/internal/vault/store"
	"onegov/pkg/platform/audit"
	"onegov/pkg/platform/audit/publishers/compliance"
	auditmemory "onegov/pkg/platform/audit/store/memory"
	auditpostgres "onegov/pkg/platform/audit/store/postgres"
	"onegov/pkg/platform/audit/worker"
	"onegov/pkg/platform/tx"
)

// infra holds the optional backing services. A nil field means the feature is
// off and an in-memory fallback is used.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kafka.Client
	relay *worker.Worker
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		in.db = db
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(db); err != nil {
				in.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
	} else {
		log.Warn("postgres not configured, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = rc

	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.kafka = kc

	switch {
	case in.kafka != nil && in.db != nil:
		if err := in.kafka.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
			in.Close()
			return nil, err
		}
		in.relay = worker.NewWorker(auditpostgres.New(in.db), in.kafka, log)
	case in.kafka != nil:
		log.Warn("kafka configured without postgres, audit relay disabled")
	}
	return in, nil
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}

func (in *infra) txRunner() tx.Runner {
	if in.db == nil {
		return tx.NopRunner{}
	}
	return tx.NewSQLRunner(in.db)
}

func (in *infra) auditStore() audit.Store {
	if in.db == nil {
		return auditmemory.NewInMemoryStore()
	}
	return auditpostgres.New(in.db)
}

type app struct {
	limiter     *ratelimitmw.Middleware
	profile     *profilehandler.Handler
	scheme      *schemehandler.Handler
	vault       *vaulthandler.Handler
	application *apphandler.Handler
	portal      *portalhandler.Handler
}

func buildApp(cfg config.Config, in *infra, log *slog.Logger) (*app, error) {
	publisher := compliance.New(in.auditStore(),
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	runner := in.txRunner()

	var (
		profiles     profileservice.Store
		documents    vaultservice.Store
		applications appservice.Store
		tracking     appstore.TrackingSource
	)
	if in.db != nil {
		pg := appstore.NewPostgres(in.db)
		profiles = profilestore.NewPostgres(in.db)
		documents = vaultstore.NewPostgres(in.db)
		applications, tracking = pg, pg
	} else {
		mem := appstore.NewInMemoryStore()
		profiles = profilestore.NewInMemoryStore()
		documents = vaultstore.NewInMemoryStore()
		applications, tracking = mem, mem
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	engine, err := eligibility.NewEngine()
	if err != nil {
		return nil, err
	}

	profileSvc := profileservice.New(profiles,
		profileservice.WithLogger(log),
		profileservice.WithAuditPublisher(publisher),
	)
	schemeSvc := schemeservice.New(cat, engine,
		schemeservice.WithLogger(log),
		schemeservice.WithMetrics(schememetrics.New()),
	)
	vaultSvc := vaultservice.New(documents,
		vaultservice.WithLogger(log),
		vaultservice.WithMetrics(vaultmetrics.New()),
		vaultservice.WithAuditPublisher(publisher),
		vaultservice.WithTxRunner(runner),
	)

	appOpts := []appservice.Option{
		appservice.WithLogger(log),
		appservice.WithMetrics(appmetrics.New()),
		appservice.WithAuditPublisher(publisher),
		appservice.WithTxRunner(runner),
		appservice.WithMaxIssueRetries(cfg.Tracking.MaxIssueRetries),
	}
	if in.redis != nil {
		appOpts = append(appOpts, appservice.WithTrackingCache(
			appstore.NewTrackingCache(in.redis.Client, tracking, cfg.Redis.TrackingTTL, log),
		))
	}
	appSvc := appservice.New(applications, appOpts...)

	portalSvc := portalservice.New(profileSvc, schemeSvc, vaultSvc, appSvc,
		portalservice.WithLogger(log),
	)

	limiter, err := buildLimiter(cfg.RateLimit, in, log)
	if err != nil {
		return nil, err
	}

	return &app{
		limiter:     limiter,
		profile:     profilehandler.New(profileSvc, log, profilemetrics.New()),
		scheme:      schemehandler.New(schemeSvc, log),
		vault:       vaulthandler.New(vaultSvc, log),
		application: apphandler.New(appSvc, log),
		portal:      portalhandler.New(portalSvc, log),
	}, nil
}

func buildLimiter(cfg config.RateLimit, in *infra, log *slog.Logger) (*ratelimitmw.Middleware, error) {
	var buckets ratelimitservice.BucketStore = ratelimitstore.NewInMemoryBucketStore()
	if in.redis != nil {
		buckets = ratelimitstore.NewRedisBucketStore(in.redis.Client)
	}

	limits := map[ratelimitmodels.EndpointClass]ratelimitmodels.Limit{}
	if cfg.TrackMax > 0 {
		limits[ratelimitmodels.ClassTrack] = ratelimitmodels.Limit{Requests: cfg.TrackMax, Window: cfg.Window}
	}
	if cfg.SubmitMax > 0 {
		limits[ratelimitmodels.ClassSubmit] = ratelimitmodels.Limit{Requests: cfg.SubmitMax, Window: cfg.Window}
	}

	svc, err := ratelimitservice.New(buckets, limits,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		return nil, err
	}
	return ratelimitmw.New(svc, log, ratelimitmw.WithDisabled(!cfg.Enabled)), nil
}
