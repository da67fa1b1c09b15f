package service_test

import (
	"context"
	"errors"
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/server"
	"lintang/walkability/pkg/server/rest/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	areas []datastructure.Area
	snap  *datastructure.Snapshot
	err   error
}

func (p *recordingProvider) Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error) {
	p.areas = append(p.areas, area)
	return p.snap, p.err
}

func newService(t *testing.T, p service.MapProvider) *service.AccessibilityService {
	c, err := facility.NewClassifier(facility.DefaultCategories())
	require.NoError(t, err)
	return service.NewAccessibilityService(p, engine.New(c, engine.Options{}), service.Defaults{
		RadiusMeters:         1500,
		SpeedMetersPerMinute: 75,
		TripTimes:            []float64{5, 10, 15},
	}, nil)
}

func errorCode(t *testing.T, err error) error {
	var serr *server.Error
	require.True(t, errors.As(err, &serr))
	return serr.Code()
}

func TestAnalyzeDefaults(t *testing.T) {
	p := &recordingProvider{snap: datastructure.NewSnapshot(nil, nil)}
	svc := newService(t, p)

	a, err := svc.Analyze(context.Background(), service.AnalyzeParams{Lat: -7.55, Lon: 110.8})
	require.NoError(t, err)

	require.Len(t, p.areas, 1)
	assert.Equal(t, 1500.0, p.areas[0].RadiusMeters)
	assert.Equal(t, datastructure.NewCoordinate(-7.55, 110.8), p.areas[0].Center)

	assert.Nil(t, a.SourceNode)
	assert.Equal(t, 0.0, a.Result.CompositeScore)
	assert.Empty(t, a.Isochrones)
	for _, d := range a.Result.Stats {
		assert.Equal(t, datastructure.Unreachable, d)
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	svc := newService(t, &recordingProvider{err: errors.New("overpass: 504")})

	_, err := svc.Analyze(context.Background(), service.AnalyzeParams{Lat: 1, Lon: 1})
	require.Error(t, err)
	assert.Equal(t, server.ErrUnavailable, errorCode(t, err))
	assert.Equal(t, server.MessageUnavailable, err.Error())

	_, err = svc.Isochrone(context.Background(), service.AnalyzeParams{Lat: 1, Lon: 1})
	assert.Equal(t, server.ErrUnavailable, errorCode(t, err))
}

func TestResolveWeights(t *testing.T) {
	svc := newService(t, &recordingProvider{})

	ws, err := svc.ResolveWeights("senior", nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ws["hospital"])

	ws, err = svc.ResolveWeights("senior", facility.WeightSet{"cafe": 2})
	require.NoError(t, err)
	assert.Equal(t, facility.WeightSet{"cafe": 2}, ws)

	ws, err = svc.ResolveWeights("", nil)
	require.NoError(t, err)
	assert.Len(t, ws, 10)

	_, err = svc.ResolveWeights(service.PresetCustom, nil)
	assert.Equal(t, server.ErrBadParamInput, errorCode(t, err))

	_, err = svc.ResolveWeights("toddler", nil)
	assert.Equal(t, server.ErrBadParamInput, errorCode(t, err))
}

func TestScore(t *testing.T) {
	svc := newService(t, &recordingProvider{})

	res, err := svc.Score(context.Background(), datastructure.DistanceStats{"cafe": 0, "bank": 500}, "", facility.WeightSet{"cafe": 3, "bank": 1})
	require.NoError(t, err)
	assert.InDelta(t, (3*100.0+50.0)/4, res.Composite, 1e-9)

	res, err = svc.Score(context.Background(), datastructure.DistanceStats{"cafe": 0}, "", facility.WeightSet{"cafe": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Composite)
}

func TestPresets(t *testing.T) {
	svc := newService(t, &recordingProvider{})
	presets := svc.Presets()
	assert.Len(t, presets, 4)
	assert.Equal(t, 1.0, presets[facility.PresetUniform]["school"])
	assert.Len(t, svc.Categories(), 10)
}
