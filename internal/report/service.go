// Package report serves seller reports over HTTP with Redis caching, domain
// events and metrics around the sales analyzer.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/sales-report/internal/cache"
	"github.com/noah-isme/sales-report/internal/common"
	"github.com/noah-isme/sales-report/internal/events"
	"github.com/noah-isme/sales-report/internal/obs"
	"github.com/noah-isme/sales-report/internal/sales"
)

// Cache stores computed results between identical requests.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) (events.Event, error)
}

// Result is one generated report.
type Result struct {
	ID          uuid.UUID            `json:"id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Cached      bool                 `json:"cached"`
	Stats       sales.Stats          `json:"stats"`
	Reports     []sales.SellerReport `json:"reports"`
}

// GeneratedPayload is the body of the report.generated event.
type GeneratedPayload struct {
	ReportID     uuid.UUID `json:"report_id"`
	Sellers      int       `json:"sellers"`
	Records      int       `json:"records"`
	SkippedItems int       `json:"skipped_items"`
	TopSellerID  string    `json:"top_seller_id,omitempty"`
}

// Service generates seller reports.
type Service struct {
	Analyzer sales.Analyzer
	Policies sales.Policies
	// PolicyKey names the configured policies so cached results never cross policy changes.
	PolicyKey string
	Cache     Cache
	Events    Emitter
	Metrics   *obs.ReportMetrics
	Logger    *zerolog.Logger
	Now       func() time.Time
	NewID     func() uuid.UUID
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() uuid.UUID {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New()
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zerolog.Ctx(ctx)
}

// Generate returns the seller report for ds, served from cache when an identical
// dataset was computed under the same policies. Analyzer errors are returned unwrapped.
func (s *Service) Generate(ctx context.Context, ds *sales.Dataset) (Result, error) {
	ctx, span := obs.Tracer().Start(ctx, "report.generate")
	defer span.End()
	logger := s.logger(ctx)

	key, keyErr := s.cacheKey(ds)
	if keyErr != nil {
		logger.Warn().Err(keyErr).Msg("report cache key unavailable")
	}
	if cached, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("report.cached", true), attribute.Int("report.sellers", len(cached.Reports)))
		return cached, nil
	}

	start := time.Now()
	run, err := s.Analyzer.Run(ctx, ds, s.Policies)
	s.Metrics.ObserveRun(Classify(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	s.Metrics.ObserveStats(run.Stats.SkippedItems, run.Stats.SellersRanked)

	res := Result{
		ID:          s.newID(),
		GeneratedAt: s.now(),
		Stats:       run.Stats,
		Reports:     run.Reports,
	}
	span.SetAttributes(
		attribute.Bool("report.cached", false),
		attribute.Int("report.sellers", len(res.Reports)),
		attribute.String("report.id", res.ID.String()),
	)

	if key != "" && s.Cache != nil {
		if err := s.Cache.Set(ctx, key, res); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("report cache store failed")
		}
	}
	s.emit(ctx, res)
	return res, nil
}

func (s *Service) lookup(ctx context.Context, key string) (Result, bool) {
	if key == "" || s.Cache == nil {
		return Result{}, false
	}
	var cached Result
	ok, err := s.Cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		s.Metrics.ObserveCache(obs.CacheError)
		s.logger(ctx).Warn().Err(err).Str("key", key).Msg("report cache lookup failed")
		return Result{}, false
	case !ok:
		s.Metrics.ObserveCache(obs.CacheMiss)
		return Result{}, false
	}
	s.Metrics.ObserveCache(obs.CacheHit)
	cached.Cached = true
	return cached, true
}

func (s *Service) emit(ctx context.Context, res Result) {
	if s.Events == nil {
		return
	}
	payload := GeneratedPayload{
		ReportID:     res.ID,
		Sellers:      len(res.Reports),
		Records:      res.Stats.Records,
		SkippedItems: res.Stats.SkippedItems,
	}
	if len(res.Reports) > 0 {
		payload.TopSellerID = res.Reports[0].SellerID
	}
	if _, err := s.Events.Emit(ctx, events.TopicReportGenerated, res.ID, payload); err != nil {
		s.logger(ctx).Warn().Err(err).Str("report_id", res.ID.String()).Msg("report event publish failed")
	}
}

func (s *Service) cacheKey(ds *sales.Dataset) (string, error) {
	if s.Cache == nil || ds == nil {
		return "", nil
	}
	fingerprint, err := common.FingerprintJSON(struct {
		Policy string         `json:"policy"`
		Top    int            `json:"top"`
		Skip   bool           `json:"skip_orphans"`
		Data   *sales.Dataset `json:"data"`
	}{s.PolicyKey, s.Analyzer.TopProductsLimit, s.Analyzer.SkipOrphanRecords, ds})
	if err != nil {
		return "", fmt.Errorf("fingerprint dataset: %w", err)
	}
	return cache.Key("report", "sellers", fingerprint), nil
}

// Classify maps a Generate error to its metrics result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return obs.ResultOK
	case errors.Is(err, sales.ErrInvalidData):
		return obs.ResultInvalidData
	case errors.Is(err, sales.ErrMissingPolicy):
		return obs.ResultMissingPolicy
	case errors.Is(err, sales.ErrOrphanRecord):
		return obs.ResultOrphanRecord
	default:
		return obs.ResultError
	}
}
