package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Report run outcomes used as the "result" label.
const (
	ResultOK            = "ok"
	ResultInvalidData   = "invalid_data"
	ResultMissingPolicy = "missing_policy"
	ResultOrphanRecord  = "orphan_record"
	ResultError         = "error"
)

// Cache lookup outcomes used as the "result" label.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ReportMetrics groups collectors describing seller report generation.
// A nil *ReportMetrics records nothing.
type ReportMetrics struct {
	Runs          *prometheus.CounterVec
	Cache         *prometheus.CounterVec
	Duration      prometheus.Histogram
	SkippedItems  prometheus.Counter
	SellersRanked prometheus.Gauge
}

// NewReportMetrics registers and returns the report collectors.
func NewReportMetrics(namespace string, reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &ReportMetrics{
		Runs: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_runs_total",
			Help:      "Count of seller report computations by outcome.",
		}, []string{"result"})),
		Cache: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Count of report cache lookups by outcome.",
		}, []string{"result"})),
		Duration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_ms",
			Help:      "Time spent computing a seller report in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})),
		SkippedItems: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_items_skipped_total",
			Help:      "Receipt lines skipped because their SKU is not in the catalog.",
		})),
		SellersRanked: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_sellers_ranked",
			Help:      "Number of sellers ranked by the most recent computation.",
		})),
	}
}

// ObserveRun records one computation outcome and its latency.
func (m *ReportMetrics) ObserveRun(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(result).Inc()
	m.Duration.Observe(DurationMillis(d))
}

// ObserveStats records accumulation statistics of a successful computation.
func (m *ReportMetrics) ObserveStats(skippedItems, sellers int) {
	if m == nil {
		return
	}
	m.SkippedItems.Add(float64(skippedItems))
	m.SellersRanked.Set(float64(sellers))
}

// ObserveCache records a cache lookup outcome.
func (m *ReportMetrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.Cache.WithLabelValues(result).Inc()
}
