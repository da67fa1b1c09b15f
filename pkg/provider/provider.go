package provider

import (
	"context"
	"errors"
	"fmt"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"
)

var ErrUpstream = errors.New("upstream map data unavailable")

// Provider supplies the street network and POIs around a point.
type Provider interface {
	Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error)
}

// POISource supplies POIs only.
type POISource interface {
	FetchPOIs(ctx context.Context, area datastructure.Area) ([]datastructure.POI, error)
}

// Static serves a snapshot loaded up front, e.g. from a pbf extract.
type Static struct {
	snap *datastructure.Snapshot
}

func NewStatic(snap *datastructure.Snapshot) *Static {
	return &Static{snap: snap}
}

func (s *Static) Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error) {
	return Clip(s.snap, area), nil
}

// Clip keeps the nodes and POIs within the area radius and the edges between kept
// nodes. A non-positive radius returns snap unchanged.
func Clip(snap *datastructure.Snapshot, area datastructure.Area) *datastructure.Snapshot {
	if snap == nil {
		return datastructure.NewSnapshot(nil, nil)
	}
	if area.RadiusMeters <= 0 {
		return snap
	}
	inside := func(c datastructure.Coordinate) bool {
		return geo.DistanceMeters(area.Center, c) <= area.RadiusMeters
	}

	g := datastructure.NewGraph()
	if snap.Graph != nil {
		for _, n := range snap.Graph.Nodes() {
			if inside(datastructure.NewCoordinate(n.Lat, n.Lon)) {
				g.AddNode(n.ID, n.Lat, n.Lon)
			}
		}
		for _, e := range snap.Graph.Edges() {
			_, okFrom := g.NodeIndex(e.FromID)
			_, okTo := g.NodeIndex(e.ToID)
			if okFrom && okTo {
				// both endpoints exist and the length was valid in the source graph
				_ = g.AddEdge(e.FromID, e.ToID, e.Length)
			}
		}
	}

	pois := make([]datastructure.POI, 0)
	for _, p := range snap.POIs {
		if inside(p.Point) {
			pois = append(pois, p)
		}
	}
	return datastructure.NewSnapshot(g, pois)
}

type withPOIs struct {
	streets Provider
	pois    POISource
}

// WithPOISource takes the street network from streets and replaces its POIs with the
// ones from src.
func WithPOISource(streets Provider, src POISource) Provider {
	return &withPOIs{streets: streets, pois: src}
}

func (w *withPOIs) Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error) {
	snap, err := w.streets.Fetch(ctx, area)
	if err != nil {
		return nil, err
	}
	pois, err := w.pois.FetchPOIs(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("fetch pois: %w", err)
	}
	return datastructure.NewSnapshot(snap.Graph, pois), nil
}
