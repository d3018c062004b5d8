// Package sales computes per-seller performance reports from sellers, products
// and purchase records.
//
// A run validates its input, indexes sellers and products, accumulates revenue,
// profit, sale counts and sold quantities per seller, ranks sellers by profit and
// projects the result into rounded SellerReport values. Revenue per line and the
// bonus per rank are supplied by the caller as strategies.
package sales

import (
	"context"

	"github.com/rs/zerolog"
)

// Analyzer runs the report pipeline. The zero value uses DefaultTopProducts and
// fails on purchase records that reference an unknown seller.
type Analyzer struct {
	// TopProductsLimit caps each seller's top product list. Values outside
	// 1..DefaultTopProducts fall back to DefaultTopProducts.
	TopProductsLimit int
	// SkipOrphanRecords ignores receipts whose seller is unknown instead of failing.
	SkipOrphanRecords bool
	// Logger receives run diagnostics. When nil the logger attached to the context is used.
	Logger *zerolog.Logger
}

// Result is the output of one run along with its accumulation statistics.
type Result struct {
	Reports []SellerReport
	Stats   Stats
}

// Analyze runs the pipeline with default Analyzer settings.
func Analyze(ds *Dataset, p Policies) ([]SellerReport, error) {
	return Analyzer{}.Analyze(context.Background(), ds, p)
}

// Analyze returns the seller reports ordered by descending profit.
func (a Analyzer) Analyze(ctx context.Context, ds *Dataset, p Policies) ([]SellerReport, error) {
	res, err := a.Run(ctx, ds, p)
	if err != nil {
		return nil, err
	}
	return res.Reports, nil
}

// Run executes the pipeline and also reports accumulation statistics.
func (a Analyzer) Run(ctx context.Context, ds *Dataset, p Policies) (Result, error) {
	if err := Validate(ds, p); err != nil {
		return Result{}, err
	}
	logger := a.logger(ctx)

	idx := buildIndex(ds)
	stats, err := accumulate(idx, ds.PurchaseRecords, p.Revenue, a.SkipOrphanRecords)
	if err != nil {
		return Result{}, err
	}
	if stats.OrphanRecords > 0 {
		logger.Warn().Int("orphan_records", stats.OrphanRecords).Msg("skipped purchase records with unknown seller")
	}

	ranked := rank(idx.stats, p.Bonus, a.topLimit())
	stats.SellersRanked = len(ranked)
	reports := buildReports(ranked)

	logger.Debug().
		Int("sellers", stats.SellersRanked).
		Int("records", stats.Records).
		Int("items", stats.Items).
		Int("skipped_items", stats.SkippedItems).
		Msg("sales report computed")

	return Result{Reports: reports, Stats: stats}, nil
}

func (a Analyzer) topLimit() int {
	if a.TopProductsLimit <= 0 || a.TopProductsLimit > DefaultTopProducts {
		return DefaultTopProducts
	}
	return a.TopProductsLimit
}

func (a Analyzer) logger(ctx context.Context) *zerolog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zerolog.Ctx(ctx)
}
