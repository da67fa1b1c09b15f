package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/osmparser"

	"github.com/gojek/heimdall/v7/httpclient"
	"golang.org/x/exp/slices"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

const walkWayFilter = `way["highway"]["area"!~"yes"]["access"!~"private"]` +
	`["highway"!~"abandoned|bus_guideway|construction|cycleway|motor|no|planned|platform|proposed|raceway|razed"]` +
	`["foot"!~"no"]["service"!~"private"]`

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Nodes  []int64           `json:"nodes"`
	Tags   map[string]string `json:"tags"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
}

// Overpass fetches live data from an Overpass API endpoint. Failures are returned as is,
// there is no retry.
type Overpass struct {
	client   *httpclient.Client
	endpoint string
	tags     map[string][]string
	timeout  time.Duration
	log      *slog.Logger
}

func NewOverpass(endpoint string, timeout time.Duration, tags map[string][]string, logger *slog.Logger) *Overpass {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Overpass{
		client:   httpclient.NewClient(httpclient.WithHTTPTimeout(timeout)),
		endpoint: endpoint,
		tags:     tags,
		timeout:  timeout,
		log:      logger,
	}
}

func around(area datastructure.Area) string {
	return fmt.Sprintf("(around:%.0f,%.7f,%.7f)", area.RadiusMeters, area.Center.Lat, area.Center.Lon)
}

func (o *Overpass) header() string {
	secs := int(o.timeout.Seconds())
	if secs < 1 {
		secs = 60
	}
	return fmt.Sprintf("[out:json][timeout:%d];\n", secs)
}

func (o *Overpass) streetQuery(area datastructure.Area) string {
	return o.header() + walkWayFilter + around(area) + ";\n(._;>;);\nout body;"
}

func (o *Overpass) poiQuery(area datastructure.Area) string {
	var sb strings.Builder
	sb.WriteString(o.header())
	sb.WriteString("(\n")
	keys := make([]string, 0, len(o.tags))
	for k := range o.tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  nwr[%q~\"^(%s)$\"]%s;\n", k, strings.Join(o.tags[k], "|"), around(area))
	}
	sb.WriteString(");\nout center tags;")
	return sb.String()
}

func (o *Overpass) query(ctx context.Context, q string) (*overpassResponse, error) {
	form := url.Values{"data": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("overpass request: %v: %w", err, ErrUpstream)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode overpass response: %v: %w", err, ErrUpstream)
	}
	o.log.Debug("overpass query", slog.Int("elements", len(out.Elements)), slog.Duration("took", time.Since(start)))
	return &out, nil
}

func (o *Overpass) Fetch(ctx context.Context, area datastructure.Area) (*datastructure.Snapshot, error) {
	streets, err := o.query(ctx, o.streetQuery(area))
	if err != nil {
		return nil, err
	}

	coords := make(map[int64]datastructure.Coordinate)
	var ways []osmparser.WalkWay
	for _, el := range streets.Elements {
		switch el.Type {
		case "node":
			coords[el.ID] = datastructure.NewCoordinate(el.Lat, el.Lon)
		case "way":
			ways = append(ways, osmparser.WalkWay{ID: el.ID, Nodes: el.Nodes})
		}
	}
	g, err := osmparser.BuildWalkGraph(ways, coords)
	if err != nil {
		return nil, err
	}

	pois, err := o.FetchPOIs(ctx, area)
	if err != nil {
		return nil, err
	}
	return datastructure.NewSnapshot(g, pois), nil
}

func (o *Overpass) FetchPOIs(ctx context.Context, area datastructure.Area) ([]datastructure.POI, error) {
	if len(o.tags) == 0 {
		return []datastructure.POI{}, nil
	}
	res, err := o.query(ctx, o.poiQuery(area))
	if err != nil {
		return nil, err
	}
	pois := make([]datastructure.POI, 0, len(res.Elements))
	for _, el := range res.Elements {
		lat, lon := el.Lat, el.Lon
		if el.Type != "node" {
			if el.Center == nil {
				continue
			}
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		pois = append(pois, datastructure.NewPOI(fmt.Sprintf("%s/%d", el.Type, el.ID), el.Tags, lat, lon))
	}
	return pois, nil
}
