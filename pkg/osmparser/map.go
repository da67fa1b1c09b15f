package osmparser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/slices"
)

// OSMParser extracts the walking network and the POIs matching a tag query from an
// openstreetmap pbf extract.
type OSMParser struct {
	tags     map[string][]string
	log      *slog.Logger
	progress bool
}

func NewOSMParser(tags map[string][]string, logger *slog.Logger, progress bool) *OSMParser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OSMParser{tags: tags, log: logger, progress: progress}
}

func (p *OSMParser) ParseFile(ctx context.Context, path string) (*datastructure.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(ctx, f)
}

func (p *OSMParser) isPOI(tags osm.Tags) bool {
	for k, values := range p.tags {
		if v := tags.Find(k); v != "" && slices.Contains(values, v) {
			return true
		}
	}
	return false
}

func (p *OSMParser) newBar(desc string) *progressbar.ProgressBar {
	if !p.progress {
		return progressbar.DefaultSilent(-1)
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

type poiWay struct {
	id    int64
	tags  map[string]string
	nodes []int64
}

// Parse makes two passes over r: ways first, to learn which nodes are needed, then
// nodes for their positions and for node POIs.
func (p *OSMParser) Parse(ctx context.Context, r io.ReadSeeker) (*datastructure.Snapshot, error) {
	var (
		walkWays []WalkWay
		poiWays  []poiWay
		needed   = make(map[int64]struct{})
	)

	bar := p.newBar("[cyan][1/2][reset] reading openstreetmap ways...")
	scanner := osmpbf.New(ctx, r, 3)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		bar.Add(1)

		tags := way.Tags.Map()
		walkable, poi := IsWalkable(tags), p.isPOI(way.Tags)
		if !walkable && !poi {
			continue
		}
		ids := make([]int64, len(way.Nodes))
		for i, wn := range way.Nodes {
			ids[i] = int64(wn.ID)
			needed[ids[i]] = struct{}{}
		}
		if walkable {
			walkWays = append(walkWays, WalkWay{ID: int64(way.ID), Nodes: ids})
		}
		if poi {
			poiWays = append(poiWays, poiWay{id: int64(way.ID), tags: tags, nodes: ids})
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan ways: %w", err)
	}
	scanner.Close()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind pbf: %w", err)
	}

	coords := make(map[int64]datastructure.Coordinate, len(needed))
	var pois []datastructure.POI

	bar = p.newBar("[cyan][2/2][reset] reading openstreetmap nodes...")
	scanner = osmpbf.New(ctx, r, 3)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		bar.Add(1)
		id := int64(node.ID)
		if _, ok := needed[id]; ok {
			coords[id] = datastructure.NewCoordinate(node.Lat, node.Lon)
		}
		if len(node.Tags) > 0 && p.isPOI(node.Tags) {
			pois = append(pois, datastructure.NewPOI(fmt.Sprintf("node/%d", id), node.Tags.Map(), node.Lat, node.Lon))
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan nodes: %w", err)
	}
	scanner.Close()

	for _, w := range poiWays {
		ring := make([]datastructure.Coordinate, 0, len(w.nodes))
		for _, id := range w.nodes {
			if c, ok := coords[id]; ok {
				ring = append(ring, c)
			}
		}
		if len(ring) == 0 {
			continue
		}
		c := geo.Centroid(ring)
		pois = append(pois, datastructure.NewPOI(fmt.Sprintf("way/%d", w.id), w.tags, c.Lat, c.Lon))
	}

	g, err := BuildWalkGraph(walkWays, coords)
	if err != nil {
		return nil, err
	}
	p.log.Info("openstreetmap extract parsed",
		slog.Int("ways", len(walkWays)),
		slog.Int("nodes", g.NumNodes()),
		slog.Int("edges", g.NumEdges()),
		slog.Int("pois", len(pois)))
	return datastructure.NewSnapshot(g, pois), nil
}
