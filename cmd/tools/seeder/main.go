package main

import (
	"flag"
	"os"

	"github.com/noah-isme/sales-report/internal/dataset"
	"github.com/noah-isme/sales-report/internal/obs"
)

func main() {
	sellers := flag.Int("sellers", 5, "number of sellers")
	products := flag.Int("products", 20, "number of products")
	records := flag.Int("records", 100, "number of purchase records")
	maxItems := flag.Int("max-items", 5, "maximum lines per receipt")
	seed := flag.Uint64("seed", 1, "random seed")
	out := flag.String("out", "dataset.json", "output file (.json, .yaml, .yml)")
	flag.Parse()

	logger := obs.NewLoggerTo(os.Stderr, "console", "info")

	ds := dataset.Synthesize(dataset.SynthOptions{
		Sellers:  *sellers,
		Products: *products,
		Records:  *records,
		MaxItems: *maxItems,
		Seed:     *seed,
	})
	if err := dataset.Save(*out, ds); err != nil {
		logger.Fatal().Err(err).Str("out", *out).Msg("write dataset")
	}
	logger.Info().
		Str("out", *out).
		Int("sellers", len(ds.Sellers)).
		Int("products", len(ds.Products)).
		Int("records", len(ds.PurchaseRecords)).
		Msg("dataset written")
}
