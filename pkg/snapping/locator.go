package snapping

import (
	"math"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"golang.org/x/exp/slices"
)

// half side of the rectangle each node occupies in the tree, in mercator units
const tol = 0.01

const initialK = 4

type NodeSet interface {
	NumNodes() int
	GetNode(idx int32) datastructure.Node
}

type nodeRect struct {
	location rtreego.Point
	idx      int32
}

func (n *nodeRect) Bounds() rtreego.Rect {
	return n.location.ToRect(tol)
}

// Locator finds the graph node nearest to an arbitrary coordinate.
type Locator struct {
	g      NodeSet
	tree   *rtreego.Rtree
	points []orb.Point
}

func NewLocator(g NodeSet) *Locator {
	l := &Locator{
		g:      g,
		tree:   rtreego.NewTree(2, 25, 50), // 2 dimension, 25 min entries, 50 max entries
		points: make([]orb.Point, g.NumNodes()),
	}
	for i := 0; i < g.NumNodes(); i++ {
		idx := int32(i)
		p := geo.ProjectNode(g.GetNode(idx))
		l.points[i] = p
		l.tree.Insert(&nodeRect{location: rtreego.Point{p[0], p[1]}, idx: idx})
	}
	return l
}

// Nearest returns the node closest to c on the projected plane. Equal distances resolve
// to the lowest node id. ok is false only for an empty graph.
func (l *Locator) Nearest(c datastructure.Coordinate) (int32, bool) {
	size := l.tree.Size()
	if size == 0 {
		return 0, false
	}
	q := geo.Project(c)
	qp := rtreego.Point{q[0], q[1]}

	k := initialK
	for {
		if k > size {
			k = size
		}
		candidates := l.tree.NearestNeighbors(k, qp)

		best, bestDist, worst := int32(-1), math.Inf(1), 0.0
		for _, s := range candidates {
			if s == nil {
				continue
			}
			n := s.(*nodeRect)
			d := planarDist(q, l.points[n.idx])
			worst = math.Max(worst, d)
			if best < 0 || d < bestDist || (d == bestDist && l.g.GetNode(n.idx).ID < l.g.GetNode(best).ID) {
				best, bestDist = n.idx, d
			}
		}

		// every node not returned lies at least worst-tol*sqrt2 away
		if k == size || bestDist < worst-2*tol {
			return best, best >= 0
		}
		k *= 2
	}
}

// NearestSet snaps every coordinate and returns the distinct node indices in ascending order.
func (l *Locator) NearestSet(cs []datastructure.Coordinate) []int32 {
	seen := make(map[int32]struct{}, len(cs))
	targets := make([]int32, 0, len(cs))
	for _, c := range cs {
		idx, ok := l.Nearest(c)
		if !ok {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		targets = append(targets, idx)
	}
	slices.Sort(targets)
	return targets
}

func planarDist(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
