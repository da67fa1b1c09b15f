package osmparser_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/osmparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWalkable(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want bool
	}{
		{name: "residential", tags: map[string]string{"highway": "residential"}, want: true},
		{name: "footway", tags: map[string]string{"highway": "footway"}, want: true},
		{name: "motorway", tags: map[string]string{"highway": "motorway"}, want: false},
		{name: "cycleway", tags: map[string]string{"highway": "cycleway"}, want: false},
		{name: "private access", tags: map[string]string{"highway": "service", "access": "private"}, want: false},
		{name: "foot no", tags: map[string]string{"highway": "primary", "foot": "no"}, want: false},
		{name: "pedestrian area", tags: map[string]string{"highway": "pedestrian", "area": "yes"}, want: false},
		{name: "not a highway", tags: map[string]string{"building": "yes"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, osmparser.IsWalkable(tt.tags))
		})
	}
}

func TestBuildWalkGraph(t *testing.T) {
	coords := map[int64]datastructure.Coordinate{
		1: {Lat: 0, Lon: 0},
		2: {Lat: 0, Lon: 0.001},
		3: {Lat: 0.001, Lon: 0.001},
	}
	ways := []osmparser.WalkWay{
		{ID: 10, Nodes: []int64{1, 2, 3}},
		{ID: 11, Nodes: []int64{3, 4}}, // node 4 has no position
	}

	g, err := osmparser.BuildWalkGraph(ways, coords)
	require.NoError(t, err)

	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 4, g.NumEdges())

	idx, ok := g.NodeIndex(1)
	require.True(t, ok)
	out := g.GetOutEdges(idx)
	require.Len(t, out, 1)
	assert.InDelta(t, 111.2, out[0].Dist, 0.5)
}
