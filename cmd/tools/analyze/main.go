package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/noah-isme/sales-report/internal/bonus"
	"github.com/noah-isme/sales-report/internal/dataset"
	"github.com/noah-isme/sales-report/internal/obs"
	"github.com/noah-isme/sales-report/internal/pricing"
	"github.com/noah-isme/sales-report/internal/sales"
)

func main() {
	in := flag.String("in", "", "dataset file (.json, .yaml, .yml)")
	revenue := flag.String("revenue", pricing.NameDiscounted, "revenue policy: "+strings.Join(pricing.Names(), ", "))
	bonusName := flag.String("bonus", bonus.NameProfitTiers, "bonus policy: "+strings.Join(bonus.Names(), ", "))
	top := flag.Int("top", sales.DefaultTopProducts, "products listed per seller (1-10)")
	skipOrphans := flag.Bool("skip-orphans", false, "skip receipts whose seller is unknown")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger := obs.NewLoggerTo(os.Stderr, "console", *logLevel)
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *top < 1 || *top > sales.DefaultTopProducts {
		logger.Fatal().Int("top", *top).Msg("top must be between 1 and 10")
	}

	revenueStrategy, err := pricing.Lookup(*revenue)
	if err != nil {
		logger.Fatal().Err(err).Msg("revenue policy")
	}
	ladder, err := bonus.Lookup(*bonusName)
	if err != nil {
		logger.Fatal().Err(err).Msg("bonus policy")
	}

	ds, err := dataset.Load(*in)
	if err != nil {
		logger.Fatal().Err(err).Msg("load dataset")
	}
	if err := dataset.Check(ds); err != nil {
		logger.Fatal().Err(err).Msg("check dataset")
	}

	analyzer := sales.Analyzer{TopProductsLimit: *top, SkipOrphanRecords: *skipOrphans, Logger: &logger}
	res, err := analyzer.Run(context.Background(), ds, sales.Policies{Revenue: revenueStrategy, Bonus: ladder})
	if err != nil {
		logger.Fatal().Err(err).Msg("analyze")
	}
	logger.Info().
		Int("sellers", res.Stats.SellersRanked).
		Int("records", res.Stats.Records).
		Int("skipped_items", res.Stats.SkippedItems).
		Msg("report computed")

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res.Reports); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
