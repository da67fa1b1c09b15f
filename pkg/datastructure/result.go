package datastructure

// Unreachable is the distance reported for a category with no reachable facility.
const Unreachable = 9999.0

// NoDataThreshold: distances at or above it are shown as missing data.
const NoDataThreshold = 9000.0

// DistanceStats maps category label to shortest walking distance in meters.
type DistanceStats map[string]float64

// Get returns the distance for label, or Unreachable when the label is missing.
func (s DistanceStats) Get(label string) float64 {
	d, ok := s[label]
	if !ok {
		return Unreachable
	}
	return d
}

type CategoryScore struct {
	Label     string  `json:"label"`
	Distance  float64 `json:"distance"`
	Weight    float64 `json:"weight"`
	SubScore  float64 `json:"sub_score"`
	Available bool    `json:"available"`
}

type ScoreResult struct {
	CompositeScore   float64               `json:"composite_score"`
	Grade            string                `json:"grade"`
	Stats            DistanceStats         `json:"stats"`
	NearestLocations map[string]Coordinate `json:"nearest_locations"`
	Breakdown        []CategoryScore       `json:"breakdown"`
}

// IsochronePolygon is the hull of nodes reachable within Minutes. Ring is an open loop
// (first vertex not repeated) in counter-clockwise order.
type IsochronePolygon struct {
	Minutes        float64      `json:"minutes"`
	DistanceMeters float64      `json:"distance_meters"`
	NodeCount      int          `json:"node_count"`
	Ring           []Coordinate `json:"ring"`
}
