package geo

import (
	"lintang/walkability/pkg/datastructure"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Centroid reduces an area feature to a point. The ring is given in lat/lon and the
// centroid is taken on the mercator plane. Zero area rings fall back to the vertex mean.
func Centroid(ring []datastructure.Coordinate) datastructure.Coordinate {
	switch len(ring) {
	case 0:
		return datastructure.Coordinate{}
	case 1:
		return ring[0]
	}
	projected := make(orb.Ring, 0, len(ring)+1)
	for _, c := range ring {
		projected = append(projected, Project(c))
	}
	if !projected.Closed() {
		projected = append(projected, projected[0])
	}

	center, area := planar.CentroidArea(orb.Polygon{projected})
	if area == 0 {
		return vertexMean(ring)
	}
	return Unproject(center)
}

// GeometryCentroid is Centroid for orb geometries already in lon/lat order.
func GeometryCentroid(g orb.Geometry) (datastructure.Coordinate, bool) {
	switch geom := g.(type) {
	case orb.Point:
		return datastructure.NewCoordinate(geom.Lat(), geom.Lon()), true
	case orb.Polygon:
		if len(geom) == 0 {
			return datastructure.Coordinate{}, false
		}
		return Centroid(ringCoords(geom[0])), true
	case orb.MultiPolygon:
		if len(geom) == 0 || len(geom[0]) == 0 {
			return datastructure.Coordinate{}, false
		}
		// the biggest member decides, same as taking the outer footprint
		best, bestArea := 0, -1.0
		for i, poly := range geom {
			if a := planar.Area(poly); a > bestArea {
				best, bestArea = i, a
			}
		}
		return Centroid(ringCoords(geom[best][0])), true
	case orb.LineString:
		if len(geom) == 0 {
			return datastructure.Coordinate{}, false
		}
		return vertexMean(lineCoords(geom)), true
	}
	return datastructure.Coordinate{}, false
}

func ringCoords(r orb.Ring) []datastructure.Coordinate {
	return lineCoords(orb.LineString(r))
}

func lineCoords(ls orb.LineString) []datastructure.Coordinate {
	cs := make([]datastructure.Coordinate, 0, len(ls))
	for _, p := range ls {
		cs = append(cs, datastructure.NewCoordinate(p.Lat(), p.Lon()))
	}
	return cs
}

func vertexMean(cs []datastructure.Coordinate) datastructure.Coordinate {
	var lat, lon float64
	for _, c := range cs {
		lat += c.Lat
		lon += c.Lon
	}
	n := float64(len(cs))
	return datastructure.NewCoordinate(lat/n, lon/n)
}
