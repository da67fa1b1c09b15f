package routingalgorithm

import (
	"math"

	"lintang/walkability/pkg/datastructure"
)

type RoadNetwork interface {
	NumNodes() int
	GetNode(idx int32) datastructure.Node
	GetOutEdges(idx int32) []datastructure.EdgePair
}

// EdgeCost projects an edge onto the metric a search runs on.
type EdgeCost func(e datastructure.EdgePair) float64

func ByLength(e datastructure.EdgePair) float64 {
	return e.Dist
}

// ByTravelTime edge cost in minutes at a constant walking speed.
func ByTravelTime(speedMetersPerMinute float64) EdgeCost {
	return func(e datastructure.EdgePair) float64 {
		return e.Dist / speedMetersPerMinute
	}
}

// dijkstra settles nodes in ascending cost order and calls settle for each one, stopping
// early when settle returns true. Edges leading past budget are not relaxed.
func dijkstra(g RoadNetwork, source int32, cost EdgeCost, budget float64, settle func(node int32, d float64) bool) {
	if source < 0 || int(source) >= g.NumNodes() {
		return
	}
	dist := make(map[int32]float64)
	pq := NewMinHeap()

	dist[source] = 0
	pq.Insert(PriorityQueueNode{Rank: 0, Item: source})

	for pq.Size() > 0 {
		node := pq.ExtractMin()
		if settle(node.Item, node.Rank) {
			return
		}

		for _, e := range g.GetOutEdges(node.Item) {
			newCost := node.Rank + cost(e)
			if newCost > budget {
				continue
			}
			old, ok := dist[e.ToNodeIDX]
			if !ok {
				dist[e.ToNodeIDX] = newCost
				pq.Insert(PriorityQueueNode{Rank: newCost, Item: e.ToNodeIDX})
			} else if newCost < old {
				// relax edge
				dist[e.ToNodeIDX] = newCost
				pq.DecreaseKey(PriorityQueueNode{Rank: newCost, Item: e.ToNodeIDX})
			}
		}
	}
}

// NearestTarget returns the shortest length from source to any node of targets and the
// node that attains it. The search stops as soon as the cost frontier moves past the
// first settled target, so equally distant targets are still compared and the one with
// the lowest node id wins.
func NearestTarget(g RoadNetwork, source int32, targets []int32) (float64, int32, bool) {
	if len(targets) == 0 {
		return datastructure.Unreachable, -1, false
	}
	targetSet := make(map[int32]struct{}, len(targets))
	for _, t := range targets {
		targetSet[t] = struct{}{}
	}

	best, bestDist := int32(-1), math.Inf(1)
	dijkstra(g, source, ByLength, math.Inf(1), func(node int32, d float64) bool {
		if best >= 0 && d > bestDist {
			return true
		}
		if _, ok := targetSet[node]; ok {
			if best < 0 || g.GetNode(node).ID < g.GetNode(best).ID {
				best, bestDist = node, d
			}
		}
		return false
	})

	if best < 0 {
		return datastructure.Unreachable, -1, false
	}
	return bestDist, best, true
}

// BoundedSearch returns the cost of every node reachable from source within budget.
func BoundedSearch(g RoadNetwork, source int32, budget float64, cost EdgeCost) map[int32]float64 {
	reached := make(map[int32]float64)
	dijkstra(g, source, cost, budget, func(node int32, d float64) bool {
		reached[node] = d
		return false
	})
	return reached
}

// ShortestPathTree holds the length of the shortest path from source to every
// reachable node.
type ShortestPathTree struct {
	g      RoadNetwork
	source int32
	dist   map[int32]float64
}

func NewShortestPathTree(g RoadNetwork, source int32) *ShortestPathTree {
	return &ShortestPathTree{
		g:      g,
		source: source,
		dist:   BoundedSearch(g, source, math.Inf(1), ByLength),
	}
}

func (t *ShortestPathTree) Source() int32 {
	return t.source
}

func (t *ShortestPathTree) Distance(node int32) (float64, bool) {
	d, ok := t.dist[node]
	return d, ok
}

// Nearest picks the closest reachable node of targets, ties to the lowest node id.
func (t *ShortestPathTree) Nearest(targets []int32) (float64, int32, bool) {
	best, bestDist := int32(-1), math.Inf(1)
	for _, target := range targets {
		d, ok := t.dist[target]
		if !ok {
			continue
		}
		if best < 0 || d < bestDist || (d == bestDist && t.g.GetNode(target).ID < t.g.GetNode(best).ID) {
			best, bestDist = target, d
		}
	}
	if best < 0 {
		return datastructure.Unreachable, -1, false
	}
	return bestDist, best, true
}
