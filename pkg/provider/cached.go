package provider

import (
	"context"
	"io"
	"log/slog"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/kv"
)

type SnapshotStore interface {
	SaveSnapshot(key string, snap *datastructure.Snapshot) error
	GetSnapshot(key string) (*datastructure.Snapshot, bool, error)
}

// Cached keeps fetched snapshots in a store keyed by h3 cell and radius. Queries in the
// same cell are served the snapshot fetched around the cell center.
type Cached struct {
	next  Provider
	store SnapshotStore
	log   *slog.Logger
}

func NewCached(next Provider, store SnapshotStore, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cached{next: next, store: store, log: logger}
}

func (c *Cached) Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error) {
	key, center := kv.CellKey(area.Center, area.RadiusMeters)

	snap, ok, err := c.store.GetSnapshot(key)
	if err != nil {
		c.log.Warn("snapshot cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if ok {
		c.log.Debug("snapshot cache hit", slog.String("key", key))
		return snap, nil
	}

	snap, err = c.next.Fetch(ctx, datastructure.Area{Center: center, RadiusMeters: area.RadiusMeters})
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveSnapshot(key, snap); err != nil {
		c.log.Warn("snapshot cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return snap, nil
}
