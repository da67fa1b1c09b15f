package osmparser

import (
	"fmt"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"
)

// highway values nobody walks on
var excludedHighway = map[string]bool{
	"abandoned":     true,
	"bus_guideway":  true,
	"construction":  true,
	"cycleway":      true,
	"motorway":      true,
	"motorway_link": true,
	"motor":         true,
	"no":            true,
	"planned":       true,
	"platform":      true,
	"proposed":      true,
	"raceway":       true,
	"razed":         true,
}

// IsWalkable reports whether a way with these tags belongs in the pedestrian network.
func IsWalkable(tags map[string]string) bool {
	highway, ok := tags["highway"]
	if !ok || excludedHighway[highway] {
		return false
	}
	if tags["area"] == "yes" || tags["access"] == "private" || tags["foot"] == "no" || tags["service"] == "private" {
		return false
	}
	return true
}

// WalkWay a walkable way as an ordered list of node ids.
type WalkWay struct {
	ID    int64
	Nodes []int64
}

// BuildWalkGraph turns ways into a graph whose edges join consecutive way nodes. Every
// segment can be walked in both directions regardless of oneway tags. Nodes without a
// known position are skipped together with their segments.
func BuildWalkGraph(ways []WalkWay, coords map[int64]datastructure.Coordinate) (*datastructure.Graph, error) {
	g := datastructure.NewGraph()
	for _, w := range ways {
		for i := 0; i+1 < len(w.Nodes); i++ {
			a, okA := coords[w.Nodes[i]]
			b, okB := coords[w.Nodes[i+1]]
			if !okA || !okB || w.Nodes[i] == w.Nodes[i+1] {
				continue
			}
			g.AddNode(w.Nodes[i], a.Lat, a.Lon)
			g.AddNode(w.Nodes[i+1], b.Lat, b.Lon)
			if err := g.AddStreet(w.Nodes[i], w.Nodes[i+1], geo.DistanceMeters(a, b), false); err != nil {
				return nil, fmt.Errorf("way %d: %w", w.ID, err)
			}
		}
	}
	return g, nil
}
