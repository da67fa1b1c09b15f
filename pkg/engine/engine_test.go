package engine_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/engine/isochrone"
	"lintang/walkability/pkg/facility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 0.000674 // about 75 m

// 8x8 grid of 75 m blocks, node id = r*8 + c, origin at the south west corner.
func snapshot(t *testing.T) *datastructure.Snapshot {
	const size = 8
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
				require.NoError(t, g.AddStreet(id, id+size, 75, false))
			}
		}
	}
	at := func(r, c int) (float64, float64) {
		return -7.55 + float64(r)*step, 110.8 + float64(c)*step
	}

	cafeLat, cafeLon := at(0, 2)
	farCafeLat, farCafeLon := at(7, 7)
	bankLat, bankLon := at(3, 4)
	parkLat, parkLon := at(7, 7)
	pois := []datastructure.POI{
		datastructure.NewPOI("node/1", map[string]string{"amenity": "cafe"}, cafeLat+0.00001, cafeLon),
		datastructure.NewPOI("node/2", map[string]string{"amenity": "cafe"}, farCafeLat, farCafeLon),
		datastructure.NewPOI("node/3", map[string]string{"amenity": "bank"}, bankLat, bankLon),
		datastructure.NewPOI("way/4", map[string]string{"leisure": "park"}, parkLat, parkLon),
		datastructure.NewPOI("node/5", map[string]string{"amenity": "restaurant"}, bankLat, bankLon),
	}
	return datastructure.NewSnapshot(g, pois)
}

func newEngine(t *testing.T, strategy engine.Strategy) *engine.Engine {
	c, err := facility.NewClassifier(facility.DefaultCategories())
	require.NoError(t, err)
	return engine.New(c, engine.Options{Strategy: strategy, Workers: 3})
}

func TestAnalyze(t *testing.T) {
	snap := snapshot(t)
	e := newEngine(t, engine.StrategySharedTree)

	a, err := e.Analyze(snap, engine.Query{
		Origin:               datastructure.NewCoordinate(-7.55-0.0001, 110.8),
		Weights:              facility.WeightSet{"cafe": 1, "bank": 1, "park": 2},
		TripTimes:            []float64{5, 10},
		SpeedMetersPerMinute: 75,
	})
	require.NoError(t, err)

	require.NotNil(t, a.SourceNode)
	assert.Equal(t, int64(0), a.SourceNode.ID)

	stats := a.Result.Stats
	assert.Len(t, stats, 10)
	assert.InDelta(t, 150.0, stats["cafe"], 1e-9)
	assert.InDelta(t, 525.0, stats["bank"], 1e-9)
	assert.InDelta(t, 1050.0, stats["park"], 1e-9)
	assert.Equal(t, datastructure.Unreachable, stats["subway"])

	assert.Contains(t, a.Result.NearestLocations, "cafe")
	assert.NotContains(t, a.Result.NearestLocations, "subway")
	assert.InDelta(t, -7.55, a.Result.NearestLocations["cafe"].Lat, 1e-9)

	// cafe 85, bank 47.5, park 0 -> (85 + 47.5) / 4
	assert.InDelta(t, 33.125, a.Result.CompositeScore, 1e-9)
	assert.Equal(t, "E", a.Result.Grade)

	require.Len(t, a.Isochrones, 2)
	assert.Equal(t, 10.0, a.Isochrones[0].Minutes)
	assert.Equal(t, 5.0, a.Isochrones[1].Minutes)
}

func TestStrategiesAgree(t *testing.T) {
	snap := snapshot(t)
	q := engine.Query{Origin: datastructure.NewCoordinate(-7.55+3*step, 110.8+1*step)}

	shared, err := newEngine(t, engine.StrategySharedTree).Analyze(snap, q)
	require.NoError(t, err)
	perCategory, err := newEngine(t, engine.StrategyPerCategory).Analyze(snap, q)
	require.NoError(t, err)

	assert.Equal(t, shared.Result.Stats, perCategory.Result.Stats)
	assert.Equal(t, shared.Result.NearestLocations, perCategory.Result.NearestLocations)
	assert.Equal(t, shared.Result.CompositeScore, perCategory.Result.CompositeScore)
	assert.Empty(t, shared.Isochrones)
}

func TestAnalyzeUniformWeights(t *testing.T) {
	snap := snapshot(t)
	a, err := newEngine(t, engine.StrategySharedTree).Analyze(snap, engine.Query{Origin: datastructure.NewCoordinate(-7.55, 110.8)})
	require.NoError(t, err)

	// cafe 150 m -> 85, bank 525 m -> 47.5, the other eight score 0
	assert.InDelta(t, 13.25, a.Result.CompositeScore, 1e-9)
	assert.Len(t, a.Result.Breakdown, 10)
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	e := newEngine(t, engine.StrategySharedTree)
	a, err := e.Analyze(datastructure.NewSnapshot(nil, nil), engine.Query{
		Origin:               datastructure.NewCoordinate(0, 0),
		TripTimes:            []float64{5},
		SpeedMetersPerMinute: 75,
	})
	require.NoError(t, err)

	assert.Nil(t, a.SourceNode)
	assert.Equal(t, 0.0, a.Result.CompositeScore)
	assert.Empty(t, a.Result.NearestLocations)
	assert.Empty(t, a.Isochrones)
	for _, l := range facility.DefaultCategories().Labels() {
		assert.Equal(t, datastructure.Unreachable, a.Result.Stats[l])
	}
}

func TestAnalyzeInvalidSpeed(t *testing.T) {
	_, err := newEngine(t, engine.StrategySharedTree).Analyze(snapshot(t), engine.Query{TripTimes: []float64{5}})
	assert.ErrorIs(t, err, isochrone.ErrInvalidSpeed)
}

func TestIsochrones(t *testing.T) {
	e := newEngine(t, engine.StrategySharedTree)
	polys, source, err := e.Isochrones(snapshot(t), datastructure.NewCoordinate(-7.55, 110.8), []float64{2}, 75)
	require.NoError(t, err)
	require.NotNil(t, source)
	require.Len(t, polys, 1)
	assert.Equal(t, 6, polys[0].NodeCount)
}

func TestParseStrategy(t *testing.T) {
	s, err := engine.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, engine.StrategySharedTree, s)

	s, err = engine.ParseStrategy("per-category")
	require.NoError(t, err)
	assert.Equal(t, engine.StrategyPerCategory, s)

	_, err = engine.ParseStrategy("astar")
	assert.ErrorIs(t, err, engine.ErrUnknownStrategy)
}
