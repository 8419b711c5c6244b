package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jwttoken "onegov/internal/jwt_token"
	"onegov/internal/platform/config"
	"onegov/internal/platform/metrics"
	ratelimitmodels "onegov/internal/ratelimit/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/httputil"
	authmw "onegov/pkg/platform/middleware/auth"
	"onegov/pkg/platform/middleware/request"
	"onegov/pkg/platform/middleware/requesttime"
)

const (
	tokenIssuer   = "onegov-identity"
	tokenAudience = "onegov-portal"
	healthTimeout = 2 * time.Second
)

func newRouter(cfg config.Config, a *app, in *infra, log *slog.Logger) http.Handler {
	validator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer, tokenAudience),
	)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(metrics.New().Middleware)

	r.Get("/healthz", healthHandler(in))
	r.Handle("/metrics", promhttp.Handler())

	// Anonymous: catalog browsing and tracking by id.
	a.scheme.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(a.limiter.RateLimit(ratelimitmodels.ClassTrack))
		a.application.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, log))

		a.application.RegisterAuthenticated(r)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(log, id.RoleCitizen))
			a.profile.Register(r)
			a.vault.RegisterCitizen(r)
			a.application.RegisterCitizen(r)
			r.With(a.limiter.RateLimit(ratelimitmodels.ClassSubmit)).Group(a.portal.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(log, id.RoleOfficer, id.RoleAdmin))
			a.vault.RegisterStaff(r)
			a.application.RegisterStaff(r)
		})
	})
	return r
}

type healthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends,omitempty"`
}

func healthHandler(in *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Backends: map[string]string{}}
		check := func(name string, fn func(context.Context) error) {
			if err := fn(ctx); err != nil {
				resp.Status = "degraded"
				resp.Backends[name] = err.Error()
				return
			}
			resp.Backends[name] = "ok"
		}
		if in.db != nil {
			check("postgres", in.db.PingContext)
		}
		if in.redis != nil {
			check("redis", in.redis.Health)
		}
		if in.kafka != nil {
			check("kafka", in.kafka.Health)
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
