package geo

import (
	"lintang/walkability/pkg/datastructure"

	"github.com/twpayne/go-polyline"
)

// EncodePolyline encodes a ring as a google polyline, closing it if needed.
func EncodePolyline(ring []datastructure.Coordinate) string {
	coords := make([][]float64, 0, len(ring)+1)
	for _, c := range ring {
		coords = append(coords, []float64{c.Lat, c.Lon})
	}
	if len(ring) > 2 && ring[0] != ring[len(ring)-1] {
		coords = append(coords, []float64{ring[0].Lat, ring[0].Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
