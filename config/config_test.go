package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Grid.Width = 128
	cfg.Grid.Generator = "perlin"
	cfg.Simulation.RainRate = 0.042
	cfg.Simulation.Workers = 4
	cfg.Logging.Level = "debug"

	path := filepath.Join(t.TempDir(), "silt.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParamsMirrorsSimulationSection(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TimeDelta = 0.005
	cfg.Simulation.SedimentCapacity = 3
	cfg.Simulation.CellSizeX = 2
	cfg.Simulation.CellSizeY = 3

	p := cfg.Params()
	assert.Equal(t, float32(0.005), p.TimeDelta)
	assert.Equal(t, float32(3), p.SedimentCapacity)
	assert.Equal(t, float32(6), p.CellArea())
}
