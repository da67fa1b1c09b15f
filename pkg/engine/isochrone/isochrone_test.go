package isochrone_test

import (
	"math"
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine/isochrone"
	"lintang/walkability/pkg/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 0.000674 // about 75 m

// grid of size x size nodes, 75 m apart, id = r*size + c.
func grid(t *testing.T, size int) *datastructure.Graph {
	g := datastructure.NewGraph()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			g.AddNode(int64(r*size+c), -7.55+float64(r)*step, 110.8+float64(c)*step)
		}
	}
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			id := int64(r*size + c)
			if c+1 < size {
				require.NoError(t, g.AddStreet(id, id+1, 75, false))
			}
			if r+1 < size {
				require.NoError(t, g.AddStreet(id, id+int64(size), 75, false))
			}
		}
	}
	return g
}

func area(ring []datastructure.Coordinate) float64 {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, c := range ring {
		r = append(r, geo.Project(c))
	}
	r = append(r, r[0])
	return math.Abs(planar.Area(r))
}

func TestGenerate(t *testing.T) {
	g := grid(t, 10)

	polys, err := isochrone.Generate(g, 0, []float64{5, 15, 10}, 75)
	require.NoError(t, err)
	require.Len(t, polys, 3)

	assert.Equal(t, []float64{15, 10, 5}, []float64{polys[0].Minutes, polys[1].Minutes, polys[2].Minutes})
	assert.Equal(t, 94, polys[0].NodeCount)
	assert.Equal(t, 64, polys[1].NodeCount)
	assert.Equal(t, 21, polys[2].NodeCount)
	assert.Equal(t, 375.0, polys[2].DistanceMeters)

	assert.Greater(t, area(polys[0].Ring), area(polys[1].Ring))
	assert.Greater(t, area(polys[1].Ring), area(polys[2].Ring))
}

func TestGenerateHullContainsReachableNodes(t *testing.T) {
	g := grid(t, 6)
	polys, err := isochrone.Generate(g, 14, []float64{2}, 75)
	require.NoError(t, err)
	require.Len(t, polys, 1)

	ring := make(orb.Ring, 0, len(polys[0].Ring)+1)
	for _, c := range polys[0].Ring {
		ring = append(ring, geo.Project(c))
	}
	ring = append(ring, ring[0])

	// node 14 sits at row 2, column 2
	center := geo.ProjectNode(g.GetNode(14))
	assert.True(t, planar.RingContains(ring, center))
	assert.GreaterOrEqual(t, len(polys[0].Ring), 4)
	assert.Equal(t, 13, polys[0].NodeCount)
}

func TestGenerateOmitsSmallSets(t *testing.T) {
	g := grid(t, 4)

	t.Run("only the source reachable", func(t *testing.T) {
		polys, err := isochrone.Generate(g, 0, []float64{0.5}, 75)
		require.NoError(t, err)
		assert.Empty(t, polys)
	})

	t.Run("isolated source", func(t *testing.T) {
		g := datastructure.NewGraph()
		g.AddNode(1, 0, 0)
		g.AddNode(2, 0, 0.001)
		polys, err := isochrone.Generate(g, 0, []float64{5, 10}, 75)
		require.NoError(t, err)
		assert.Empty(t, polys)
	})

	t.Run("collinear nodes give a degenerate ring", func(t *testing.T) {
		g := datastructure.NewGraph()
		for id := int64(1); id <= 3; id++ {
			g.AddNode(id, 0, float64(id)*step)
		}
		require.NoError(t, g.AddStreet(1, 2, 75, false))
		require.NoError(t, g.AddStreet(2, 3, 75, false))

		polys, err := isochrone.Generate(g, 0, []float64{1, 2}, 75)
		require.NoError(t, err)
		require.Len(t, polys, 2)
		assert.Equal(t, 3, polys[0].NodeCount)
		assert.Equal(t, 2, polys[1].NodeCount)
		assert.Len(t, polys[1].Ring, 2)
		assert.Len(t, polys[0].Ring, 2)
	})

	t.Run("non-positive trip times dropped", func(t *testing.T) {
		polys, err := isochrone.Generate(g, 0, []float64{0, -5}, 75)
		require.NoError(t, err)
		assert.Empty(t, polys)
	})
}

func TestGenerateInvalidSpeed(t *testing.T) {
	_, err := isochrone.Generate(grid(t, 2), 0, []float64{5}, 0)
	assert.ErrorIs(t, err, isochrone.ErrInvalidSpeed)
}
