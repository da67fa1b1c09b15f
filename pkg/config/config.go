package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourcePBF      = "pbf"
	SourceOverpass = "overpass"
	SourceOSMnx    = "osmnx-json"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ListenAddr string

	Source          string
	MapFile         string
	Region          string
	OverpassURL     string
	OverpassTimeout time.Duration
	GraphJSON       string
	POIGeoJSON      string
	PostgresDSN     string
	PostgresTable   string

	DBPath string
	Cache  bool

	Strategy     string
	Workers      int
	RadiusMeters float64
	Speed        float64
	TripTimes    []float64

	LogJSON  bool
	LogLevel string
}

// LoadEnv reads .env when present. A missing file is fine; the process env still applies.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// ParseTripTimes parses a comma separated list of minutes, e.g. "5,10,15".
func ParseTripTimes(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("trip time %q: %w", part, ErrInvalidConfig)
		}
		if v <= 0 {
			return nil, fmt.Errorf("trip time %v must be positive: %w", v, ErrInvalidConfig)
		}
		out = append(out, v)
	}
	return out, nil
}

// Load parses args on top of environment defaults. Environment keys are WALKABILITY_*.
func Load(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg := &Config{}

	fs.StringVar(&cfg.ListenAddr, "listenaddr", envString("WALKABILITY_LISTEN_ADDR", ":5000"), "server listen address")
	fs.StringVar(&cfg.Source, "source", envString("WALKABILITY_SOURCE", SourceOverpass), "map data source: pbf | overpass | osmnx-json")
	fs.StringVar(&cfg.MapFile, "f", envString("WALKABILITY_MAP_FILE", "solo_jogja.osm.pbf"), "openstreetmap pbf file for the pbf source")
	fs.StringVar(&cfg.Region, "region", envString("WALKABILITY_REGION", "default"), "region name of a preprocessed pbf snapshot")
	fs.StringVar(&cfg.OverpassURL, "overpass", envString("WALKABILITY_OVERPASS_URL", "https://overpass-api.de/api/interpreter"), "overpass interpreter endpoint")
	fs.DurationVar(&cfg.OverpassTimeout, "overpass-timeout", envDuration("WALKABILITY_OVERPASS_TIMEOUT", 60*time.Second), "overpass request timeout")
	fs.StringVar(&cfg.GraphJSON, "graph-json", envString("WALKABILITY_GRAPH_JSON", ""), "osmnx node-link graph json")
	fs.StringVar(&cfg.POIGeoJSON, "poi-geojson", envString("WALKABILITY_POI_GEOJSON", ""), "osmnx features geojson")
	fs.StringVar(&cfg.PostgresDSN, "pg", envString("WALKABILITY_PG_DSN", ""), "postgres dsn of an optional poi table")
	fs.StringVar(&cfg.PostgresTable, "pg-table", envString("WALKABILITY_PG_TABLE", "poi_tags"), "postgres poi tag table")
	fs.StringVar(&cfg.DBPath, "db", envString("WALKABILITY_DB", "walkabilityDB"), "pebble directory for snapshots")
	fs.BoolVar(&cfg.Cache, "cache", envBool("WALKABILITY_CACHE", false), "cache fetched snapshots per h3 cell")
	fs.StringVar(&cfg.Strategy, "strategy", envString("WALKABILITY_STRATEGY", "shared-tree"), "distance strategy: shared-tree | per-category")
	fs.IntVar(&cfg.Workers, "workers", envInt("WALKABILITY_WORKERS", 4), "workers for the per-category strategy")
	fs.Float64Var(&cfg.RadiusMeters, "radius", envFloat("WALKABILITY_RADIUS", 3000), "default search radius in meters")
	fs.Float64Var(&cfg.Speed, "speed", envFloat("WALKABILITY_SPEED", 75), "default walking speed in meters per minute")
	tripTimes := fs.String("trip-times", envString("WALKABILITY_TRIP_TIMES", "5,10,15"), "default isochrone trip times in minutes")
	fs.BoolVar(&cfg.LogJSON, "log-json", envBool("WALKABILITY_LOG_JSON", false), "json logs")
	fs.StringVar(&cfg.LogLevel, "log-level", envString("WALKABILITY_LOG_LEVEL", "info"), "debug | info | warn | error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	tt, err := ParseTripTimes(*tripTimes)
	if err != nil {
		return nil, err
	}
	cfg.TripTimes = tt

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourcePBF, SourceOverpass:
	case SourceOSMnx:
		if c.GraphJSON == "" {
			return fmt.Errorf("source %s needs -graph-json: %w", c.Source, ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown source %q: %w", c.Source, ErrInvalidConfig)
	}
	if c.RadiusMeters <= 0 {
		return fmt.Errorf("radius %v: %w", c.RadiusMeters, ErrInvalidConfig)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed %v: %w", c.Speed, ErrInvalidConfig)
	}
	return nil
}

// SlogLevel falls back to info on an unknown level name.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
