package kv

import (
	"fmt"

	"lintang/walkability/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

type nodeRecord struct {
	ID  int64
	Lat float64
	Lon float64
}

type edgeRecord struct {
	From   int64
	To     int64
	Length float64
}

// tags are stored as parallel slices, keys[i] -> values[i]
type poiRecord struct {
	ID     string
	Keys   []string
	Values []string
	Lat    float64
	Lon    float64
}

type snapshotRecord struct {
	Nodes []nodeRecord
	Edges []edgeRecord
	POIs  []poiRecord
}

func toRecord(snap *datastructure.Snapshot) snapshotRecord {
	rec := snapshotRecord{}
	if snap.Graph != nil {
		rec.Nodes = make([]nodeRecord, 0, snap.Graph.NumNodes())
		for _, n := range snap.Graph.Nodes() {
			rec.Nodes = append(rec.Nodes, nodeRecord{ID: n.ID, Lat: n.Lat, Lon: n.Lon})
		}
		edges := snap.Graph.Edges()
		rec.Edges = make([]edgeRecord, 0, len(edges))
		for _, e := range edges {
			rec.Edges = append(rec.Edges, edgeRecord{From: e.FromID, To: e.ToID, Length: e.Length})
		}
	}
	rec.POIs = make([]poiRecord, 0, len(snap.POIs))
	for _, p := range snap.POIs {
		pr := poiRecord{ID: p.ID, Lat: p.Point.Lat, Lon: p.Point.Lon}
		for k, v := range p.Tags {
			pr.Keys = append(pr.Keys, k)
			pr.Values = append(pr.Values, v)
		}
		rec.POIs = append(rec.POIs, pr)
	}
	return rec
}

func fromRecord(rec snapshotRecord) (*datastructure.Snapshot, error) {
	g := datastructure.NewGraph()
	for _, n := range rec.Nodes {
		g.AddNode(n.ID, n.Lat, n.Lon)
	}
	for _, e := range rec.Edges {
		if err := g.AddEdge(e.From, e.To, e.Length); err != nil {
			return nil, err
		}
	}
	pois := make([]datastructure.POI, 0, len(rec.POIs))
	for _, pr := range rec.POIs {
		if len(pr.Keys) != len(pr.Values) {
			return nil, fmt.Errorf("poi %s: %d tag keys but %d values", pr.ID, len(pr.Keys), len(pr.Values))
		}
		tags := make(map[string]string, len(pr.Keys))
		for i, k := range pr.Keys {
			tags[k] = pr.Values[i]
		}
		pois = append(pois, datastructure.NewPOI(pr.ID, tags, pr.Lat, pr.Lon))
	}
	return datastructure.NewSnapshot(g, pois), nil
}

func EncodeSnapshot(snap *datastructure.Snapshot) ([]byte, error) {
	encoded, err := binary.Marshal(toRecord(snap))
	if err != nil {
		return nil, err
	}
	return Compress(encoded)
}

func DecodeSnapshot(bb []byte) (*datastructure.Snapshot, error) {
	raw, err := Decompress(bb)
	if err != nil {
		return nil, err
	}
	var rec snapshotRecord
	if err := binary.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
