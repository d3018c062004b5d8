package report_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/bonus"
	"github.com/noah-isme/sales-report/internal/cache"
	"github.com/noah-isme/sales-report/internal/events"
	"github.com/noah-isme/sales-report/internal/obs"
	"github.com/noah-isme/sales-report/internal/pricing"
	"github.com/noah-isme/sales-report/internal/report"
	"github.com/noah-isme/sales-report/internal/sales"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// threeSellers yields profits 300, 200 and 100 for seller_1, seller_2 and seller_3.
func threeSellers() *sales.Dataset {
	return &sales.Dataset{
		Sellers: []sales.Seller{
			{ID: "seller_1", FirstName: "Anna", LastName: "Ivanova"},
			{ID: "seller_2", FirstName: "Ivan", LastName: "Petrov"},
			{ID: "seller_3", FirstName: "Olga", LastName: "Smirnova"},
		},
		Products: []sales.Product{{SKU: "SKU_001", PurchasePrice: 0, SalePrice: 100}},
		PurchaseRecords: []sales.PurchaseRecord{
			{ReceiptID: "r1", SellerID: "seller_1", TotalAmount: 300, Items: []sales.Item{{SKU: "SKU_001", Quantity: 3, SalePrice: 100}}},
			{ReceiptID: "r2", SellerID: "seller_2", TotalAmount: 200, Items: []sales.Item{{SKU: "SKU_001", Quantity: 2, SalePrice: 100}}},
			{ReceiptID: "r3", SellerID: "seller_3", TotalAmount: 100, Items: []sales.Item{{SKU: "SKU_001", Quantity: 1, SalePrice: 100}}},
		},
	}
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newService(t *testing.T, rdb *redis.Client, notifier events.Notifier) (*report.Service, *obs.ReportMetrics) {
	t.Helper()
	metrics := obs.NewReportMetrics("test", prometheus.NewRegistry())
	svc := &report.Service{
		Policies:  sales.Policies{Revenue: pricing.Discounted, Bonus: bonus.ProfitTiers()},
		PolicyKey: "discounted+profit-tiers",
		Metrics:   metrics,
		Now:       func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	if rdb != nil {
		svc.Cache = cache.NewJSON(rdb, time.Minute)
	}
	if notifier != nil {
		svc.Events = &events.Bus{Notifiers: []events.Notifier{notifier}}
	}
	return svc, metrics
}

func TestGenerateComputesAndCaches(t *testing.T) {
	rdb := newRedis(t)
	notifier := &captureNotifier{}
	svc, metrics := newService(t, rdb, notifier)
	ctx := context.Background()

	first, err := svc.Generate(ctx, threeSellers())
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.NotEqual(t, uuid.Nil, first.ID)
	require.Len(t, first.Reports, 3)
	require.Equal(t, []float64{45, 20, 0}, []float64{first.Reports[0].Bonus, first.Reports[1].Bonus, first.Reports[2].Bonus})
	require.Equal(t, 3, first.Stats.SellersRanked)

	second, err := svc.Generate(ctx, threeSellers())
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Reports, second.Reports)
	require.True(t, first.GeneratedAt.Equal(second.GeneratedAt))

	require.Equal(t, 1, notifier.count())
	require.Equal(t, events.TopicReportGenerated, notifier.events[0].Topic)
	require.Equal(t, first.ID, notifier.events[0].AggregateID)
	require.JSONEq(t,
		`{"report_id":"`+first.ID.String()+`","sellers":3,"records":3,"skipped_items":0,"top_seller_id":"seller_1"}`,
		string(notifier.events[0].Payload))

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(obs.ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Cache.WithLabelValues(obs.CacheMiss)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Cache.WithLabelValues(obs.CacheHit)))
	require.Equal(t, 3.0, testutil.ToFloat64(metrics.SellersRanked))
}

func TestGenerateCacheKeyTracksPolicies(t *testing.T) {
	rdb := newRedis(t)
	svc, _ := newService(t, rdb, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, threeSellers())
	require.NoError(t, err)

	other, _ := newService(t, rdb, nil)
	other.PolicyKey = "catalog+flat"
	res, err := other.Generate(ctx, threeSellers())
	require.NoError(t, err)
	require.False(t, res.Cached)

	changed := threeSellers()
	changed.PurchaseRecords[0].TotalAmount = 301
	res, err = svc.Generate(ctx, changed)
	require.NoError(t, err)
	require.False(t, res.Cached)
}

func TestGenerateWithoutCacheAlwaysComputes(t *testing.T) {
	svc, metrics := newService(t, nil, nil)
	ctx := context.Background()

	first, err := svc.Generate(ctx, threeSellers())
	require.NoError(t, err)
	second, err := svc.Generate(ctx, threeSellers())
	require.NoError(t, err)

	require.False(t, second.Cached)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(obs.ResultOK)))
}

func TestGenerateReturnsAnalyzerErrors(t *testing.T) {
	notifier := &captureNotifier{}
	svc, metrics := newService(t, newRedis(t), notifier)
	svc.Policies.Bonus = nil

	_, err := svc.Generate(context.Background(), threeSellers())
	require.ErrorIs(t, err, sales.ErrMissingPolicy)
	require.Zero(t, notifier.count())
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(obs.ResultMissingPolicy)))

	svc.Policies.Bonus = bonus.ProfitTiers()
	orphan := threeSellers()
	orphan.PurchaseRecords[1].SellerID = "ghost"
	_, err = svc.Generate(context.Background(), orphan)
	require.ErrorIs(t, err, sales.ErrOrphanRecord)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(obs.ResultOrphanRecord)))
}

func TestGenerateSurvivesEventFailure(t *testing.T) {
	notifier := &captureNotifier{err: errors.New("broker down")}
	svc, _ := newService(t, nil, notifier)

	res, err := svc.Generate(context.Background(), threeSellers())
	require.NoError(t, err)
	require.Len(t, res.Reports, 3)
	require.Equal(t, 1, notifier.count())
}

func TestGenerateTreatsCorruptCacheAsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	svc, metrics := newService(t, rdb, nil)

	res, err := svc.Generate(context.Background(), threeSellers())
	require.NoError(t, err)
	for _, key := range mr.Keys() {
		require.NoError(t, mr.Set(key, "{broken"))
	}

	again, err := svc.Generate(context.Background(), threeSellers())
	require.NoError(t, err)
	require.False(t, again.Cached)
	require.NotEqual(t, res.ID, again.ID)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Cache.WithLabelValues(obs.CacheError)))
}

func TestClassify(t *testing.T) {
	require.Equal(t, obs.ResultOK, report.Classify(nil))
	require.Equal(t, obs.ResultInvalidData, report.Classify(sales.ErrInvalidData))
	require.Equal(t, obs.ResultError, report.Classify(errors.New("boom")))
}
