// Package config loads and saves the sandbox configuration as YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/owenfell/silt/erosion"
)

// Config holds all sandbox settings.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Window     WindowConfig     `yaml:"window"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GridConfig sizes and seeds the simulation grid.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Generator selects the terrain seed: "midpoint", "perlin" or a path
	// to an image file.
	Generator string  `yaml:"generator"`
	Seed      int64   `yaml:"seed"`
	Spread    float32 `yaml:"spread"`
	Reduce    float32 `yaml:"reduce"`
	Scale     float64 `yaml:"scale"`
}

// SimulationConfig mirrors erosion.Params.
type SimulationConfig struct {
	TimeDelta         float32 `yaml:"time_delta"`
	RainRate          float32 `yaml:"rain_rate"`
	Evaporation       float32 `yaml:"evaporation"`
	Gravity           float32 `yaml:"gravity"`
	PipeArea          float32 `yaml:"pipe_area"`
	PipeLength        float32 `yaml:"pipe_length"`
	CellSizeX         float32 `yaml:"cell_size_x"`
	CellSizeY         float32 `yaml:"cell_size_y"`
	SedimentCapacity  float32 `yaml:"sediment_capacity"`
	MaxErosionDepth   float32 `yaml:"max_erosion_depth"`
	SuspensionRate    float32 `yaml:"suspension_rate"`
	DepositionRate    float32 `yaml:"deposition_rate"`
	SedimentSoftening float32 `yaml:"sediment_softening"`
	Workers           int     `yaml:"workers"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	TPS    int `yaml:"tps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config matching erosion.DefaultParams on a 512x512 grid.
func Default() *Config {
	p := erosion.DefaultParams()
	return &Config{
		Grid: GridConfig{
			Width:     512,
			Height:    512,
			Generator: "midpoint",
			Seed:      1,
			Spread:    0.5,
			Reduce:    0.5,
			Scale:     96,
		},
		Simulation: SimulationConfig{
			TimeDelta:         p.TimeDelta,
			RainRate:          p.RainRate,
			Evaporation:       p.Evaporation,
			Gravity:           p.Gravity,
			PipeArea:          p.PipeArea,
			PipeLength:        p.PipeLength,
			CellSizeX:         p.CellSizeX,
			CellSizeY:         p.CellSizeY,
			SedimentCapacity:  p.SedimentCapacity,
			MaxErosionDepth:   p.MaxErosionDepth,
			SuspensionRate:    p.SuspensionRate,
			DepositionRate:    p.DepositionRate,
			SedimentSoftening: p.SedimentSoftening,
		},
		Window: WindowConfig{
			Width:  1200,
			Height: 800,
			TPS:    60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Params converts the simulation section into erosion tick constants.
func (c *Config) Params() erosion.Params {
	s := c.Simulation
	return erosion.Params{
		TimeDelta:         s.TimeDelta,
		RainRate:          s.RainRate,
		Evaporation:       s.Evaporation,
		Gravity:           s.Gravity,
		PipeArea:          s.PipeArea,
		PipeLength:        s.PipeLength,
		CellSizeX:         s.CellSizeX,
		CellSizeY:         s.CellSizeY,
		SedimentCapacity:  s.SedimentCapacity,
		MaxErosionDepth:   s.MaxErosionDepth,
		SuspensionRate:    s.SuspensionRate,
		DepositionRate:    s.DepositionRate,
		SedimentSoftening: s.SedimentSoftening,
	}
}

// Load reads a YAML config, applying defaults for missing fields. A missing
// file is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
