package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lintang/walkability/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("test", nil)
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, config.SourceOverpass, cfg.Source)
	assert.Equal(t, 3000.0, cfg.RadiusMeters)
	assert.Equal(t, 75.0, cfg.Speed)
	assert.Equal(t, []float64{5, 10, 15}, cfg.TripTimes)
	assert.Equal(t, 60*time.Second, cfg.OverpassTimeout)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("WALKABILITY_SPEED", "80")
	t.Setenv("WALKABILITY_TRIP_TIMES", "10, 20")

	cfg, err := config.Load("test", []string{"-radius", "1500", "-source", "pbf"})
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Speed)
	assert.Equal(t, []float64{10, 20}, cfg.TripTimes)
	assert.Equal(t, 1500.0, cfg.RadiusMeters)
	assert.Equal(t, config.SourcePBF, cfg.Source)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WALKABILITY_WORKERS=9\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WALKABILITY_WORKERS") })

	config.LoadEnv(path)
	cfg, err := config.Load("test", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown source", args: []string{"-source", "shapefile"}},
		{name: "osmnx without graph", args: []string{"-source", "osmnx-json"}},
		{name: "negative speed", args: []string{"-speed", "-1"}},
		{name: "bad trip time", args: []string{"-trip-times", "5,x"}},
		{name: "zero trip time", args: []string{"-trip-times", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load("test", tt.args)
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug"}
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
