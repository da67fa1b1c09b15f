package geo

import (
	"lintang/walkability/pkg/datastructure"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

type Location struct {
	Lat float64
	Lon float64
}

func NewLocation(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon}
}

func (l Location) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(l.Lat, l.Lon)
}

// HaversineDistance great circle distance in km.
func HaversineDistance(from, to Location) float64 {
	return from.latLng().Distance(to.latLng()).Radians() * earthRadiusKm
}

// DistanceMeters great circle distance between two coordinates in meters.
func DistanceMeters(a, b datastructure.Coordinate) float64 {
	return HaversineDistance(NewLocation(a.Lat, a.Lon), NewLocation(b.Lat, b.Lon)) * 1000
}
