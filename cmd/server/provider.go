package main

import (
	"context"
	"fmt"
	"log/slog"

	"lintang/walkability/pkg/config"
	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/kv"
	"lintang/walkability/pkg/osmparser"
	"lintang/walkability/pkg/provider"
)

// regionSnapshot loads the preprocessed extract, parsing and storing it on first run.
func regionSnapshot(ctx context.Context, cfg *config.Config, tags map[string][]string, db *kv.KVDB, logger *slog.Logger) (*datastructure.Snapshot, error) {
	key := kv.RegionKey(cfg.Region)
	snap, ok, err := db.GetSnapshot(key)
	if err != nil {
		return nil, err
	}
	if ok {
		logger.Info("loaded region snapshot", slog.String("region", cfg.Region), slog.Int("nodes", snap.Graph.NumNodes()))
		return snap, nil
	}

	logger.Info("region not preprocessed, parsing map file", slog.String("file", cfg.MapFile))
	snap, err = osmparser.NewOSMParser(tags, logger, true).ParseFile(ctx, cfg.MapFile)
	if err != nil {
		return nil, err
	}
	if err := db.SaveSnapshot(key, snap); err != nil {
		logger.Warn("save region snapshot failed", slog.String("error", err.Error()))
	}
	return snap, nil
}

// buildProvider wires the configured map source. The returned func releases whatever the
// provider holds open.
func buildProvider(ctx context.Context, cfg *config.Config, classifier *facility.Classifier, db *kv.KVDB, logger *slog.Logger) (provider.Provider, func(), error) {
	tags := classifier.DownloadTags()
	closeFn := func() {}

	var p provider.Provider
	switch cfg.Source {
	case config.SourcePBF:
		snap, err := regionSnapshot(ctx, cfg, tags, db, logger)
		if err != nil {
			return nil, closeFn, err
		}
		p = provider.NewStatic(snap)
	case config.SourceOSMnx:
		snap, err := provider.LoadOSMnxFiles(cfg.GraphJSON, cfg.POIGeoJSON)
		if err != nil {
			return nil, closeFn, err
		}
		p = provider.NewStatic(snap)
	case config.SourceOverpass:
		p = provider.NewOverpass(cfg.OverpassURL, cfg.OverpassTimeout, tags, logger)
	default:
		return nil, closeFn, fmt.Errorf("source %q: %w", cfg.Source, config.ErrInvalidConfig)
	}

	if cfg.PostgresDSN != "" {
		src, err := provider.NewPostgresPOISource(ctx, cfg.PostgresDSN, cfg.PostgresTable)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = src.Close
		p = provider.WithPOISource(p, src)
	}

	if cfg.Cache && db != nil && cfg.Source == config.SourceOverpass {
		p = provider.NewCached(p, db, logger)
	}
	return p, closeFn, nil
}
