package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"

	"github.com/paulmach/orb/geojson"
)

type nodeLinkLink struct {
	Source json.Number `json:"source"`
	Target json.Number `json:"target"`
	Length float64     `json:"length"`
}

// node-link export of an osmnx graph (networkx.node_link_data). Older networkx writes
// the edge list as "links", newer as "edges".
type nodeLinkGraph struct {
	Directed bool `json:"directed"`
	Nodes    []struct {
		ID json.Number `json:"id"`
		X  float64     `json:"x"`
		Y  float64     `json:"y"`
	} `json:"nodes"`
	Links []nodeLinkLink `json:"links"`
	Edges []nodeLinkLink `json:"edges"`
}

// LoadGraphFromJSON parses a node-link graph. Node x/y are lon/lat and edge length is in meters.
func LoadGraphFromJSON(data []byte) (*datastructure.Graph, error) {
	var raw nodeLinkGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse graph JSON: %w", err)
	}

	g := datastructure.NewGraph()
	for _, n := range raw.Nodes {
		id, err := n.ID.Int64()
		if err != nil {
			return nil, fmt.Errorf("node id %q: %w", n.ID, err)
		}
		g.AddNode(id, n.Y, n.X)
	}

	links := raw.Links
	if len(links) == 0 {
		links = raw.Edges
	}
	for _, l := range links {
		from, err := l.Source.Int64()
		if err != nil {
			return nil, fmt.Errorf("edge source %q: %w", l.Source, err)
		}
		to, err := l.Target.Int64()
		if err != nil {
			return nil, fmt.Errorf("edge target %q: %w", l.Target, err)
		}
		if raw.Directed {
			err = g.AddEdge(from, to, l.Length)
		} else {
			err = g.AddStreet(from, to, l.Length, false)
		}
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadPOIsFromGeoJSON reads a FeatureCollection of amenities, e.g. the output of
// osmnx.features_from_point saved as GeoJSON. Area features become their centroid and
// every scalar property is kept as a tag.
func LoadPOIsFromGeoJSON(data []byte) ([]datastructure.POI, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse poi GeoJSON: %w", err)
	}

	pois := make([]datastructure.POI, 0, len(fc.Features))
	for i, f := range fc.Features {
		c, ok := geo.GeometryCentroid(f.Geometry)
		if !ok {
			continue
		}
		tags := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			switch val := v.(type) {
			case string:
				tags[k] = val
			case float64:
				tags[k] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				tags[k] = strconv.FormatBool(val)
			}
		}
		pois = append(pois, datastructure.NewPOI(featureID(f, i), tags, c.Lat, c.Lon))
	}
	return pois, nil
}

func featureID(f *geojson.Feature, i int) string {
	elementType, _ := f.Properties["element_type"].(string)
	osmid, hasID := f.Properties["osmid"]
	if elementType != "" && hasID {
		return fmt.Sprintf("%s/%v", elementType, osmid)
	}
	if f.ID != nil {
		return fmt.Sprintf("%v", f.ID)
	}
	return fmt.Sprintf("feature/%d", i)
}

// LoadOSMnxFiles reads a graph file and an optional POI file into a snapshot.
func LoadOSMnxFiles(graphPath, poiPath string) (*datastructure.Snapshot, error) {
	data, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, err
	}
	g, err := LoadGraphFromJSON(data)
	if err != nil {
		return nil, err
	}
	if poiPath == "" {
		return datastructure.NewSnapshot(g, nil), nil
	}
	data, err = os.ReadFile(poiPath)
	if err != nil {
		return nil, err
	}
	pois, err := LoadPOIsFromGeoJSON(data)
	if err != nil {
		return nil, err
	}
	return datastructure.NewSnapshot(g, pois), nil
}
