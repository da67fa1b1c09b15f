package snapping_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/snapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridGraph(rows, cols int, step float64) *datastructure.Graph {
	g := datastructure.NewGraph()
	id := int64(100)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.AddNode(id, -7.55+float64(r)*step, 110.80+float64(c)*step)
			id++
		}
	}
	return g
}

func TestLocatorNearest(t *testing.T) {
	g := gridGraph(20, 20, 0.001)
	l := snapping.NewLocator(g)

	t.Run("exact node position", func(t *testing.T) {
		idx, ok := l.Nearest(datastructure.NewCoordinate(-7.55+5*0.001, 110.80+7*0.001))
		require.True(t, ok)
		assert.Equal(t, int64(100+5*20+7), g.GetNode(idx).ID)
	})

	t.Run("between nodes", func(t *testing.T) {
		idx, ok := l.Nearest(datastructure.NewCoordinate(-7.55+3*0.001+0.0002, 110.80+2*0.001-0.0003))
		require.True(t, ok)
		assert.Equal(t, int64(100+3*20+2), g.GetNode(idx).ID)
	})

	t.Run("far outside the grid", func(t *testing.T) {
		idx, ok := l.Nearest(datastructure.NewCoordinate(-8.0, 110.80))
		require.True(t, ok)
		assert.Equal(t, int64(100), g.GetNode(idx).ID)
	})

	t.Run("deterministic", func(t *testing.T) {
		c := datastructure.NewCoordinate(-7.5432, 110.8061)
		first, _ := l.Nearest(c)
		for i := 0; i < 5; i++ {
			again, _ := l.Nearest(c)
			assert.Equal(t, first, again)
		}
	})
}

func TestLocatorTieBreak(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddNode(9, 0, 0.001)
	g.AddNode(3, 0, -0.001)
	g.AddNode(5, 0.01, 0)
	l := snapping.NewLocator(g)

	idx, ok := l.Nearest(datastructure.NewCoordinate(0, 0))
	require.True(t, ok)
	assert.Equal(t, int64(3), g.GetNode(idx).ID)
}

func TestLocatorEmpty(t *testing.T) {
	l := snapping.NewLocator(datastructure.NewGraph())
	_, ok := l.Nearest(datastructure.NewCoordinate(0, 0))
	assert.False(t, ok)
	assert.Empty(t, l.NearestSet([]datastructure.Coordinate{{Lat: 0, Lon: 0}}))
}

func TestLocatorNearestSet(t *testing.T) {
	g := gridGraph(3, 3, 0.001)
	l := snapping.NewLocator(g)

	targets := l.NearestSet([]datastructure.Coordinate{
		{Lat: -7.55 + 2*0.001, Lon: 110.80 + 2*0.001},
		{Lat: -7.55, Lon: 110.80},
		{Lat: -7.55 + 0.00001, Lon: 110.80},
	})
	assert.Equal(t, []int32{0, 8}, targets)
}
