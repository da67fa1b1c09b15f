package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"lintang/walkability/pkg/config"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/provider"
	"lintang/walkability/pkg/ranking"
	"lintang/walkability/pkg/server/rest/service"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

var (
	regionsFile = flag.String("in", "regions.csv", "csv of regions with region, lat, lon columns")
	outFile     = flag.String("out", "final_score_result.csv", "ranked output csv")
	preset      = flag.String("preset", "", "weight preset: uniform | young | middle | senior")
	workers     = flag.Int("workers", 2, "regions analyzed concurrently")
)

func main() {
	flag.Parse()
	config.LoadEnv()
	cfg, err := config.Load("rank", nil)
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	in, err := os.Open(*regionsFile)
	if err != nil {
		log.Fatal(err)
	}
	regions, err := ranking.ReadRegions(in)
	in.Close()
	if err != nil {
		log.Fatal(err)
	}

	classifier, err := facility.NewClassifier(facility.DefaultCategories())
	if err != nil {
		log.Fatal(err)
	}
	weights, err := facility.Preset(*preset, classifier.Labels())
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.New(classifier, engine.Options{Logger: logger})
	overpass := provider.NewOverpass(cfg.OverpassURL, cfg.OverpassTimeout, classifier.DownloadTags(), logger)

	svc := service.NewAccessibilityService(overpass, eng, service.Defaults{
		RadiusMeters:         cfg.RadiusMeters,
		SpeedMetersPerMinute: cfg.Speed,
	}, logger)

	bar := progressbar.NewOptions(len(regions),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]ranking regions[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	rows := ranking.Rank(context.Background(), weighted{svc, weights}, regions, *workers, logger, func() { _ = bar.Add(1) })

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := ranking.WriteCSV(out, rows); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nranked %d of %d regions into %s\n", len(rows), len(regions), *outFile)
}

// weighted pins the weight preset chosen on the command line.
type weighted struct {
	svc     *service.AccessibilityService
	weights facility.WeightSet
}

func (w weighted) Analyze(ctx context.Context, p service.AnalyzeParams) (*engine.Analysis, error) {
	p.Weights = w.weights
	return w.svc.Analyze(ctx, p)
}
