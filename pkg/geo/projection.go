package geo

import (
	"lintang/walkability/pkg/datastructure"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Project maps a coordinate onto the web mercator plane. Distances on this plane are
// only used for comparisons, never reported.
func Project(c datastructure.Coordinate) orb.Point {
	return project.WGS84.ToMercator(orb.Point{c.Lon, c.Lat})
}

func Unproject(p orb.Point) datastructure.Coordinate {
	ll := project.Mercator.ToWGS84(p)
	return datastructure.NewCoordinate(ll.Lat(), ll.Lon())
}

func ProjectNode(n datastructure.Node) orb.Point {
	return Project(datastructure.NewCoordinate(n.Lat, n.Lon))
}
