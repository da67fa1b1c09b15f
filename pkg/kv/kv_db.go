package kv

import (
	"errors"
	"fmt"

	"lintang/walkability/pkg/datastructure"

	"github.com/cockroachdb/pebble"
	"github.com/uber/h3-go/v4"
)

// h3 resolution of cache cells, roughly 0.1 km2 each
const cellResolution = 9

type KVDB struct {
	db *pebble.DB
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db}
}

// CellKey buckets a query point into its h3 cell. Cached snapshots are fetched around
// the returned cell center, so every point of the cell shares one entry per radius.
func CellKey(c datastructure.Coordinate, radiusMeters float64) (string, datastructure.Coordinate) {
	cell := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), cellResolution)
	center := h3.CellToLatLng(cell)
	return fmt.Sprintf("snapshot:%s:%d", cell.String(), int64(radiusMeters)), datastructure.NewCoordinate(center.Lat, center.Lng)
}

// RegionKey key of a whole preprocessed extract.
func RegionKey(name string) string {
	return "region:" + name
}

func (k *KVDB) SaveSnapshot(key string, snap *datastructure.Snapshot) error {
	val, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	if err := k.db.Set([]byte(key), val, pebble.Sync); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// GetSnapshot returns ok=false when key is not stored.
func (k *KVDB) GetSnapshot(key string) (*datastructure.Snapshot, bool, error) {
	val, closer, err := k.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	defer closer.Close()

	snap, err := DecodeSnapshot(val)
	if err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return snap, true, nil
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
