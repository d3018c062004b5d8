// Package app wires configuration, Redis, metrics and the report service into
// an HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sales-report/internal/cache"
	"github.com/noah-isme/sales-report/internal/config"
	"github.com/noah-isme/sales-report/internal/events"
	"github.com/noah-isme/sales-report/internal/health"
	"github.com/noah-isme/sales-report/internal/obs"
	"github.com/noah-isme/sales-report/internal/ratelimit"
	"github.com/noah-isme/sales-report/internal/report"
	"github.com/noah-isme/sales-report/internal/sales"
)

// App holds the long-lived dependencies of the API server.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Redis    *redis.Client
	Registry *prometheus.Registry
	Reports  *report.Service
	Limiter  ratelimit.Handler
	Router   http.Handler
}

// New builds the dependency graph. Redis is optional; without it caching and
// event publishing are disabled and readiness only reflects shutdown state.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	policies, err := cfg.Policies()
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		if cfg.Obs.EnableTracing {
			if err := redisotel.InstrumentTracing(a.Redis); err != nil {
				logger.Error().Err(err).Msg("instrument redis tracing")
			}
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			_ = a.Redis.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
	}

	var reportMetrics *obs.ReportMetrics
	var httpMetrics *obs.HTTPMetrics
	if cfg.Obs.EnablePrometheus {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reportMetrics = obs.NewReportMetrics(cfg.Obs.MetricsNamespace, a.Registry)
		httpMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.HTTPBucketsMS), a.Registry)
	}

	bus := &events.Bus{Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}}}
	if a.Redis != nil {
		bus.Notifiers = append(bus.Notifiers, events.RedisPublisher{Client: a.Redis, Prefix: cfg.Events.ChannelPrefix})
	}

	a.Reports = &report.Service{
		Analyzer: sales.Analyzer{
			TopProductsLimit:  cfg.Report.TopProducts,
			SkipOrphanRecords: cfg.Report.SkipOrphanRecords,
		},
		Policies:  policies,
		PolicyKey: cfg.PolicyKey(),
		Cache:     cache.NewJSON(a.Redis, cfg.Report.CacheTTL),
		Events:    bus,
		Metrics:   reportMetrics,
	}
	if cfg.Report.RateLimit != "" {
		lim, err := ratelimit.New(cfg.Report.RateLimit, a.Redis, "ratelimit:reports")
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Limiter = ratelimit.Handler{
			Limiter: lim,
			OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
		}
	}
	a.Router = a.routes(httpMetrics)
	return a, nil
}

func (a *App) routes(httpMetrics *obs.HTTPMetrics) http.Handler {
	cfg := a.Config
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if cfg.Obs.EnableTracing {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: a.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if a.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry}))
	}

	healthHandler := health.Handler{Checker: health.RedisChecker{Client: a.Redis}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	reportHandler := &report.Handler{Svc: a.Reports}
	r.Route("/api/v1", func(v chi.Router) {
		v.With(a.Limiter.Middleware, middleware.RequestSize(cfg.Report.MaxBodyBytes)).Route("/reports", reportHandler.Routes)
	})
	return r
}

// Close releases external connections.
func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
