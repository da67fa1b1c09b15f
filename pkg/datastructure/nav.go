package datastructure

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// POI is an amenity point. Area features are reduced to their centroid before they get here.
type POI struct {
	ID    string            `json:"id"`
	Tags  map[string]string `json:"tags"`
	Point Coordinate        `json:"point"`
}

func NewPOI(id string, tags map[string]string, lat, lon float64) POI {
	return POI{
		ID:    id,
		Tags:  tags,
		Point: NewCoordinate(lat, lon),
	}
}

// Area is the circle a provider fetches data for.
type Area struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
}

// Snapshot is the street network and POIs of one area. It is read-only once built.
type Snapshot struct {
	Graph *Graph
	POIs  []POI
}

func NewSnapshot(g *Graph, pois []POI) *Snapshot {
	if g == nil {
		g = NewGraph()
	}
	return &Snapshot{Graph: g, POIs: pois}
}
