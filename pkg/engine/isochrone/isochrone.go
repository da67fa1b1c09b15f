package isochrone

import (
	"errors"
	"fmt"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine/routingalgorithm"
	"lintang/walkability/pkg/geo"

	"github.com/paulmach/orb"
	"golang.org/x/exp/slices"
)

var ErrInvalidSpeed = errors.New("walking speed must be positive")

// absorbs float noise when summing edge times against a whole-minute budget
const budgetEpsilon = 1e-9

// Generate builds one polygon per trip time, longest trip first. A single time bounded
// search pruned at the longest budget serves every trip time; a node belongs to a trip
// time when its travel time is within that budget. Trip times reaching fewer than two
// nodes are left out. Non-positive and repeated trip times are dropped.
func Generate(g routingalgorithm.RoadNetwork, source int32, tripTimes []float64, speedMetersPerMinute float64) ([]datastructure.IsochronePolygon, error) {
	if speedMetersPerMinute <= 0 {
		return nil, fmt.Errorf("speed %v: %w", speedMetersPerMinute, ErrInvalidSpeed)
	}
	budgets := normalizeTripTimes(tripTimes)
	if len(budgets) == 0 {
		return []datastructure.IsochronePolygon{}, nil
	}

	costs := routingalgorithm.BoundedSearch(g, source, budgets[0]+budgetEpsilon, routingalgorithm.ByTravelTime(speedMetersPerMinute))

	polygons := make([]datastructure.IsochronePolygon, 0, len(budgets))
	for _, minutes := range budgets {
		points := make([]orb.Point, 0, len(costs))
		for node, cost := range costs {
			if cost <= minutes+budgetEpsilon {
				points = append(points, geo.ProjectNode(g.GetNode(node)))
			}
		}
		if len(points) < 2 {
			continue
		}

		hull := geo.ConvexHull(points)
		ring := make([]datastructure.Coordinate, len(hull))
		for i, p := range hull {
			ring[i] = geo.Unproject(p)
		}
		polygons = append(polygons, datastructure.IsochronePolygon{
			Minutes:        minutes,
			DistanceMeters: minutes * speedMetersPerMinute,
			NodeCount:      len(points),
			Ring:           ring,
		})
	}
	return polygons, nil
}

func normalizeTripTimes(tripTimes []float64) []float64 {
	budgets := make([]float64, 0, len(tripTimes))
	for _, tt := range tripTimes {
		if tt > 0 {
			budgets = append(budgets, tt)
		}
	}
	slices.Sort(budgets)
	budgets = slices.Compact(budgets)
	slices.Reverse(budgets)
	return budgets
}
