package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/engine/scoring"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/server"
)

type MapProvider interface {
	Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error)
}

type Engine interface {
	Analyze(snap *datastructure.Snapshot, q engine.Query) (*engine.Analysis, error)
	Isochrones(snap *datastructure.Snapshot, origin datastructure.Coordinate, tripTimes []float64, speedMetersPerMinute float64) ([]datastructure.IsochronePolygon, *datastructure.Node, error)
	Scorer() *scoring.Scorer
	Classifier() *facility.Classifier
}

// PresetCustom marks a request that brings its own weights.
const PresetCustom = "custom"

// Defaults fill in what a request leaves out.
type Defaults struct {
	RadiusMeters         float64
	SpeedMetersPerMinute float64
	TripTimes            []float64
}

type AccessibilityService struct {
	provider MapProvider
	engine   Engine
	defaults Defaults
	log      *slog.Logger
}

func NewAccessibilityService(p MapProvider, e Engine, d Defaults, logger *slog.Logger) *AccessibilityService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AccessibilityService{provider: p, engine: e, defaults: d, log: logger}
}

type AnalyzeParams struct {
	Lat                  float64
	Lon                  float64
	RadiusMeters         float64
	Preset               string
	Weights              facility.WeightSet
	TripTimes            []float64
	SpeedMetersPerMinute float64
}

func (s *AccessibilityService) withDefaults(p AnalyzeParams) AnalyzeParams {
	if p.RadiusMeters <= 0 {
		p.RadiusMeters = s.defaults.RadiusMeters
	}
	if p.SpeedMetersPerMinute <= 0 {
		p.SpeedMetersPerMinute = s.defaults.SpeedMetersPerMinute
	}
	if len(p.TripTimes) == 0 {
		p.TripTimes = s.defaults.TripTimes
	}
	return p
}

// ResolveWeights custom weights win over a preset; no preset means uniform.
func (s *AccessibilityService) ResolveWeights(preset string, custom facility.WeightSet) (facility.WeightSet, error) {
	if len(custom) > 0 {
		return custom, nil
	}
	if preset == PresetCustom {
		return nil, server.WrapErrorf(facility.ErrUnknownPreset, server.ErrBadParamInput, "preset custom needs weights")
	}
	ws, err := facility.Preset(preset, s.engine.Classifier().Labels())
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "unknown weight preset %q", preset)
	}
	return ws, nil
}

func (s *AccessibilityService) fetch(ctx context.Context, p AnalyzeParams) (*datastructure.Snapshot, error) {
	area := datastructure.Area{
		Center:       datastructure.NewCoordinate(p.Lat, p.Lon),
		RadiusMeters: p.RadiusMeters,
	}
	snap, err := s.provider.Fetch(ctx, area)
	if err != nil {
		s.log.Error("fetch map data failed",
			slog.Float64("lat", p.Lat), slog.Float64("lon", p.Lon),
			slog.String("error", err.Error()))
		return nil, server.WrapErrorf(err, server.ErrUnavailable, server.MessageUnavailable)
	}
	return snap, nil
}

func engineError(err error) error {
	if errors.Is(err, engine.ErrUnknownStrategy) {
		return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return server.WrapErrorf(err, server.ErrBadParamInput, "%s", err.Error())
}

// Analyze fetches the area around the point and runs distances, score and isochrones.
func (s *AccessibilityService) Analyze(ctx context.Context, p AnalyzeParams) (*engine.Analysis, error) {
	p = s.withDefaults(p)
	weights, err := s.ResolveWeights(p.Preset, p.Weights)
	if err != nil {
		return nil, err
	}
	snap, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	analysis, err := s.engine.Analyze(snap, engine.Query{
		Origin:               datastructure.NewCoordinate(p.Lat, p.Lon),
		Weights:              weights,
		TripTimes:            p.TripTimes,
		SpeedMetersPerMinute: p.SpeedMetersPerMinute,
	})
	if err != nil {
		return nil, engineError(err)
	}
	return analysis, nil
}

type IsochroneResult struct {
	Origin     datastructure.Coordinate
	SourceNode *datastructure.Node
	Speed      float64
	Isochrones []datastructure.IsochronePolygon
}

func (s *AccessibilityService) Isochrone(ctx context.Context, p AnalyzeParams) (*IsochroneResult, error) {
	p = s.withDefaults(p)
	snap, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	origin := datastructure.NewCoordinate(p.Lat, p.Lon)
	polys, source, err := s.engine.Isochrones(snap, origin, p.TripTimes, p.SpeedMetersPerMinute)
	if err != nil {
		return nil, engineError(err)
	}
	return &IsochroneResult{Origin: origin, SourceNode: source, Speed: p.SpeedMetersPerMinute, Isochrones: polys}, nil
}

// Score is the pure scorer over caller supplied distances.
func (s *AccessibilityService) Score(ctx context.Context, stats datastructure.DistanceStats, preset string, custom facility.WeightSet) (scoring.Result, error) {
	weights, err := s.ResolveWeights(preset, custom)
	if err != nil {
		return scoring.Result{}, err
	}
	return s.engine.Scorer().Score(stats, weights), nil
}

func (s *AccessibilityService) Categories() facility.CategoryConfig {
	return s.engine.Classifier().Categories()
}

func (s *AccessibilityService) Presets() map[string]facility.WeightSet {
	labels := s.engine.Classifier().Labels()
	out := make(map[string]facility.WeightSet)
	for _, name := range facility.PresetNames() {
		ws, err := facility.Preset(name, labels)
		if err != nil {
			continue
		}
		out[name] = ws
	}
	return out
}
