package kv_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/kv"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *kv.KVDB {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	store := kv.NewKVDB(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot(t *testing.T) *datastructure.Snapshot {
	g := datastructure.NewGraph()
	g.AddNode(1, -7.55, 110.80)
	g.AddNode(2, -7.55, 110.801)
	g.AddNode(3, -7.551, 110.801)
	require.NoError(t, g.AddStreet(1, 2, 110.4, false))
	require.NoError(t, g.AddStreet(2, 3, 110.6, true))
	pois := []datastructure.POI{
		datastructure.NewPOI("node/9", map[string]string{"amenity": "cafe", "name": "Kopi"}, -7.5505, 110.8005),
	}
	return datastructure.NewSnapshot(g, pois)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := openMem(t)
	snap := sampleSnapshot(t)

	require.NoError(t, store.SaveSnapshot("snapshot:test", snap))

	got, ok, err := store.GetSnapshot("snapshot:test")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, snap.Graph.Nodes(), got.Graph.Nodes())
	assert.ElementsMatch(t, snap.Graph.Edges(), got.Graph.Edges())
	assert.Equal(t, snap.POIs, got.POIs)
}

func TestGetSnapshotMissing(t *testing.T) {
	store := openMem(t)
	_, ok, err := store.GetSnapshot("snapshot:nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCellKey(t *testing.T) {
	a, centerA := kv.CellKey(datastructure.NewCoordinate(-7.5568, 110.8317), 3000)
	b, centerB := kv.CellKey(datastructure.NewCoordinate(-7.55681, 110.83171), 3000)
	c, _ := kv.CellKey(datastructure.NewCoordinate(-7.5568, 110.8317), 1500)

	assert.Equal(t, a, b)
	assert.Equal(t, centerA, centerB)
	assert.NotEqual(t, a, c)
	assert.InDelta(t, -7.5568, centerA.Lat, 0.01)
}

func TestCompressRoundTrip(t *testing.T) {
	in := []byte("walkability walkability walkability")
	packed, err := kv.Compress(in)
	require.NoError(t, err)
	out, err := kv.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
