package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"lintang/walkability/pkg/concurrent"
	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine/isochrone"
	"lintang/walkability/pkg/engine/routingalgorithm"
	"lintang/walkability/pkg/engine/scoring"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/snapping"
)

type Strategy string

const (
	// one full shortest path tree from the origin, read for every category
	StrategySharedTree Strategy = "shared-tree"
	// one early terminating search per category, fanned out on the worker pool
	StrategyPerCategory Strategy = "per-category"
)

var ErrUnknownStrategy = errors.New("unknown distance strategy")

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySharedTree, StrategyPerCategory:
		return Strategy(s), nil
	case "":
		return StrategySharedTree, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

type Options struct {
	Logger   *slog.Logger
	Strategy Strategy
	Workers  int
	Decay    scoring.Decay
}

// Engine turns a snapshot plus a query point into distances, a score and isochrones.
// It keeps no per query state, so one Engine can serve concurrent queries.
type Engine struct {
	classifier *facility.Classifier
	scorer     *scoring.Scorer
	strategy   Strategy
	workers    int
	log        *slog.Logger
}

func New(classifier *facility.Classifier, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategySharedTree
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}
	return &Engine{
		classifier: classifier,
		scorer:     scoring.NewScorer(opts.Decay),
		strategy:   strategy,
		workers:    workers,
		log:        logger,
	}
}

type Query struct {
	Origin               datastructure.Coordinate
	Weights              facility.WeightSet
	TripTimes            []float64
	SpeedMetersPerMinute float64
}

type Analysis struct {
	Origin     datastructure.Coordinate
	SourceNode *datastructure.Node
	Result     datastructure.ScoreResult
	Isochrones []datastructure.IsochronePolygon
}

func (e *Engine) Classifier() *facility.Classifier {
	return e.classifier
}

func (e *Engine) Scorer() *scoring.Scorer {
	return e.scorer
}

// Analyze runs the whole pipeline. A snapshot without street nodes is not an error:
// every category is unreachable, the score is 0 and there are no isochrones.
func (e *Engine) Analyze(snap *datastructure.Snapshot, q Query) (*Analysis, error) {
	if q.SpeedMetersPerMinute <= 0 && len(q.TripTimes) > 0 {
		return nil, fmt.Errorf("speed %v: %w", q.SpeedMetersPerMinute, isochrone.ErrInvalidSpeed)
	}
	weights := q.Weights
	if weights == nil {
		weights = facility.Uniform(e.classifier.Labels())
	}

	analysis := &Analysis{
		Origin:     q.Origin,
		Isochrones: []datastructure.IsochronePolygon{},
	}

	stats := datastructure.DistanceStats{}
	nearest := map[string]datastructure.Coordinate{}

	locator, source, ok := e.snap(snap, q.Origin)
	if ok {
		node := snap.Graph.GetNode(source)
		analysis.SourceNode = &node
		stats, nearest = e.nearestFacilities(snap, locator, source)

		if len(q.TripTimes) > 0 {
			polys, err := isochrone.Generate(snap.Graph, source, q.TripTimes, q.SpeedMetersPerMinute)
			if err != nil {
				return nil, err
			}
			analysis.Isochrones = polys
		}
	} else {
		e.log.Warn("no street network around origin", slog.Float64("lat", q.Origin.Lat), slog.Float64("lon", q.Origin.Lon))
		for _, l := range e.classifier.Labels() {
			stats[l] = datastructure.Unreachable
		}
	}

	score := e.scorer.Score(stats, weights)
	analysis.Result = datastructure.ScoreResult{
		CompositeScore:   score.Composite,
		Grade:            score.Grade,
		Stats:            stats,
		NearestLocations: nearest,
		Breakdown:        score.Breakdown,
	}
	e.log.Info("analysis done",
		slog.Float64("score", score.Composite),
		slog.Int("nodes", graphSize(snap)),
		slog.Int("isochrones", len(analysis.Isochrones)))
	return analysis, nil
}

// Isochrones only, no facility search.
func (e *Engine) Isochrones(snap *datastructure.Snapshot, origin datastructure.Coordinate, tripTimes []float64, speedMetersPerMinute float64) ([]datastructure.IsochronePolygon, *datastructure.Node, error) {
	if speedMetersPerMinute <= 0 {
		return nil, nil, fmt.Errorf("speed %v: %w", speedMetersPerMinute, isochrone.ErrInvalidSpeed)
	}
	_, source, ok := e.snap(snap, origin)
	if !ok {
		return []datastructure.IsochronePolygon{}, nil, nil
	}
	polys, err := isochrone.Generate(snap.Graph, source, tripTimes, speedMetersPerMinute)
	if err != nil {
		return nil, nil, err
	}
	node := snap.Graph.GetNode(source)
	return polys, &node, nil
}

func (e *Engine) snap(snap *datastructure.Snapshot, origin datastructure.Coordinate) (*snapping.Locator, int32, bool) {
	if snap == nil || snap.Graph == nil || snap.Graph.NumNodes() == 0 {
		return nil, 0, false
	}
	locator := snapping.NewLocator(snap.Graph)
	source, ok := locator.Nearest(origin)
	return locator, source, ok
}

type categoryDistance struct {
	label  string
	dist   float64
	target int32
	found  bool
}

func (e *Engine) nearestFacilities(snap *datastructure.Snapshot, locator *snapping.Locator, source int32) (datastructure.DistanceStats, map[string]datastructure.Coordinate) {
	classified := e.classifier.Classify(snap.POIs)

	jobs := make([]concurrent.CategoryJobItem, 0, len(classified))
	for _, label := range e.classifier.Labels() {
		points := make([]datastructure.Coordinate, 0, len(classified[label]))
		for _, p := range classified[label] {
			points = append(points, p.Point)
		}
		jobs = append(jobs, concurrent.CategoryJobItem{
			Label:   label,
			Source:  source,
			Targets: locator.NearestSet(points),
		})
	}

	var results []categoryDistance
	switch e.strategy {
	case StrategyPerCategory:
		results = e.perCategory(snap.Graph, jobs)
	default:
		results = e.sharedTree(snap.Graph, source, jobs)
	}

	stats := make(datastructure.DistanceStats, len(results))
	nearest := make(map[string]datastructure.Coordinate)
	for _, r := range results {
		if !r.found {
			stats[r.label] = datastructure.Unreachable
			e.log.Debug("no reachable facility", slog.String("category", r.label))
			continue
		}
		stats[r.label] = r.dist
		n := snap.Graph.GetNode(r.target)
		nearest[r.label] = datastructure.NewCoordinate(n.Lat, n.Lon)
		e.log.Debug("nearest facility", slog.String("category", r.label), slog.Float64("distance", r.dist))
	}
	return stats, nearest
}

func (e *Engine) sharedTree(g *datastructure.Graph, source int32, jobs []concurrent.CategoryJobItem) []categoryDistance {
	tree := routingalgorithm.NewShortestPathTree(g, source)
	results := make([]categoryDistance, 0, len(jobs))
	for _, job := range jobs {
		d, target, found := tree.Nearest(job.Targets)
		results = append(results, categoryDistance{label: job.Label, dist: d, target: target, found: found})
	}
	return results
}

func (e *Engine) perCategory(g *datastructure.Graph, jobs []concurrent.CategoryJobItem) []categoryDistance {
	workers := concurrent.NewWorkerPool[concurrent.CategoryJobItem, categoryDistance](e.workers, len(jobs))
	for _, job := range jobs {
		workers.AddJob(job)
	}
	workers.Close()

	workers.Start(func(job concurrent.CategoryJobItem) categoryDistance {
		d, target, found := routingalgorithm.NearestTarget(g, job.Source, job.Targets)
		return categoryDistance{label: job.Label, dist: d, target: target, found: found}
	})
	workers.Wait()

	results := make([]categoryDistance, 0, len(jobs))
	for r := range workers.CollectResults() {
		results = append(results, r)
	}
	return results
}

func graphSize(snap *datastructure.Snapshot) int {
	if snap == nil || snap.Graph == nil {
		return 0
	}
	return snap.Graph.NumNodes()
}
