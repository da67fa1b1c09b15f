package geo_test

import (
	"testing"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-polyline"
)

func TestDistanceMeters(t *testing.T) {
	// one degree of longitude on the equator
	d := geo.DistanceMeters(datastructure.NewCoordinate(0, 0), datastructure.NewCoordinate(0, 1))
	assert.InDelta(t, 111195, d, 5)
	assert.Equal(t, 0.0, geo.DistanceMeters(datastructure.NewCoordinate(-7.5, 110.8), datastructure.NewCoordinate(-7.5, 110.8)))
}

func TestProjectRoundTrip(t *testing.T) {
	c := datastructure.NewCoordinate(-7.5568, 110.8317)
	back := geo.Unproject(geo.Project(c))
	assert.InDelta(t, c.Lat, back.Lat, 1e-9)
	assert.InDelta(t, c.Lon, back.Lon, 1e-9)
}

func TestConvexHull(t *testing.T) {
	tests := []struct {
		name   string
		points []orb.Point
		want   []orb.Point
	}{
		{
			name:   "square with interior point",
			points: []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}},
			want:   []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		},
		{
			name:   "collinear boundary points dropped",
			points: []orb.Point{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}},
			want:   []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		},
		{
			name:   "two points",
			points: []orb.Point{{3, 1}, {1, 1}},
			want:   []orb.Point{{1, 1}, {3, 1}},
		},
		{
			name:   "duplicates collapse",
			points: []orb.Point{{1, 1}, {1, 1}, {1, 1}},
			want:   []orb.Point{{1, 1}},
		},
		{
			name:   "all collinear",
			points: []orb.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
			want:   []orb.Point{{0, 0}, {3, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geo.ConvexHull(tt.points))
		})
	}

	t.Run("hull contains every input point", func(t *testing.T) {
		points := []orb.Point{{0, 0}, {5, 1}, {3, 4}, {1, 2.5}, {2, 2}, {4, 2}, {-1, 2}}
		hull := geo.ConvexHull(points)
		ring := append(orb.Ring(hull), hull[0])
		assert.NotZero(t, planar.Area(ring))
		for _, p := range points {
			onVertex := false
			for _, h := range hull {
				if h == p {
					onVertex = true
				}
			}
			assert.True(t, onVertex || planar.RingContains(ring, p), "point %v outside hull", p)
		}
	})
}

func TestCentroid(t *testing.T) {
	t.Run("small square", func(t *testing.T) {
		ring := []datastructure.Coordinate{
			{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.002}, {Lat: 0.002, Lon: 0.002}, {Lat: 0.002, Lon: 0},
		}
		c := geo.Centroid(ring)
		assert.InDelta(t, 0.001, c.Lat, 1e-6)
		assert.InDelta(t, 0.001, c.Lon, 1e-6)
	})

	t.Run("degenerate ring uses vertex mean", func(t *testing.T) {
		ring := []datastructure.Coordinate{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 3}}
		c := geo.Centroid(ring)
		assert.InDelta(t, 1.0, c.Lat, 1e-9)
		assert.InDelta(t, 2.0, c.Lon, 1e-9)
	})

	t.Run("geometry point", func(t *testing.T) {
		c, ok := geo.GeometryCentroid(orb.Point{110.8, -7.5})
		assert.True(t, ok)
		assert.Equal(t, datastructure.NewCoordinate(-7.5, 110.8), c)
	})
}

func TestEncodePolyline(t *testing.T) {
	ring := []datastructure.Coordinate{{Lat: 38.5, Lon: -120.2}, {Lat: 40.7, Lon: -120.95}, {Lat: 43.252, Lon: -126.453}}
	encoded := geo.EncodePolyline(ring)

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	assert.NoError(t, err)
	assert.Len(t, coords, 4)
	assert.InDelta(t, 38.5, coords[3][0], 1e-5)
	assert.InDelta(t, -120.2, coords[3][1], 1e-5)
}
