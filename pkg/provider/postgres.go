package provider

import (
	"context"
	"fmt"
	"math"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/geo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPOISource reads POIs from a table of (osm_id, osm_type, tag_key, tag_value,
// lat, lon) rows, one row per tag. Centroids of area features are expected to be
// precomputed.
type PostgresPOISource struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresPOISource(ctx context.Context, dsn, table string) (*PostgresPOISource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if table == "" {
		table = "poi_tags"
	}
	return &PostgresPOISource{pool: pool, table: table}, nil
}

func (p *PostgresPOISource) Close() {
	p.pool.Close()
}

// bounding box of a circle, in degrees
func bbox(area datastructure.Area) (minLat, maxLat, minLon, maxLon float64) {
	dLat := area.RadiusMeters / 111320.0
	cos := math.Cos(area.Center.Lat * math.Pi / 180)
	if cos < 1e-6 {
		cos = 1e-6
	}
	dLon := area.RadiusMeters / (111320.0 * cos)
	return area.Center.Lat - dLat, area.Center.Lat + dLat, area.Center.Lon - dLon, area.Center.Lon + dLon
}

func (p *PostgresPOISource) FetchPOIs(ctx context.Context, area datastructure.Area) ([]datastructure.POI, error) {
	minLat, maxLat, minLon, maxLon := bbox(area)
	q := fmt.Sprintf(`SELECT osm_type, osm_id, tag_key, tag_value, lat, lon
		FROM %s
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4
		ORDER BY osm_type, osm_id`, pgx.Identifier{p.table}.Sanitize())

	rows, err := p.pool.Query(ctx, q, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("query pois: %v: %w", err, ErrUpstream)
	}
	defer rows.Close()

	byID := make(map[string]*datastructure.POI)
	var order []string
	for rows.Next() {
		var (
			osmType, key, value string
			osmID               int64
			lat, lon            float64
		)
		if err := rows.Scan(&osmType, &osmID, &key, &value, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan poi row: %w", err)
		}
		id := fmt.Sprintf("%s/%d", osmType, osmID)
		poi, ok := byID[id]
		if !ok {
			created := datastructure.NewPOI(id, map[string]string{}, lat, lon)
			poi = &created
			byID[id] = poi
			order = append(order, id)
		}
		poi.Tags[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read poi rows: %v: %w", err, ErrUpstream)
	}

	pois := make([]datastructure.POI, 0, len(order))
	for _, id := range order {
		poi := byID[id]
		if geo.DistanceMeters(area.Center, poi.Point) <= area.RadiusMeters {
			pois = append(pois, *poi)
		}
	}
	return pois, nil
}
