package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Seed int64 `yaml:"seed" json:"seed"`

	Layers  LayerSettings   `yaml:"layers" json:"layers"`
	Inspect InspectSettings `yaml:"inspect" json:"inspect"`
}

// LayerSettings parameterises the pipeline builders.
type LayerSettings struct {
	OceanPercent   float64 `yaml:"ocean_percent" json:"ocean_percent"`
	RockLayerScale int     `yaml:"rock_layer_scale" json:"rock_layer_scale"`
	RockCount      int     `yaml:"rock_count" json:"rock_count"`
	CacheSize      int     `yaml:"cache_size" json:"cache_size"` // per stage; 0 disables caching
}

// InspectSettings controls how much of every intermediate stage the
// debug recorder captures.
type InspectSettings struct {
	WindowX    int64 `yaml:"window_x" json:"window_x"`
	WindowZ    int64 `yaml:"window_z" json:"window_z"`
	WindowSize int   `yaml:"window_size" json:"window_size"`
	MaxFrames  int   `yaml:"max_frames" json:"max_frames"`
}

func Defaults() Tuning {
	return Tuning{
		Seed:   1337,
		Layers: DefaultLayers(),
		Inspect: InspectSettings{
			WindowSize: 64,
			MaxFrames:  256,
		},
	}
}

func DefaultLayers() LayerSettings {
	return LayerSettings{
		OceanPercent:   0.45,
		RockLayerScale: 7,
		RockCount:      12,
		CacheSize:      1024,
	}
}

// Normalize clamps values into ranges the builders accept.
func (t *Tuning) Normalize() {
	t.Layers.Normalize()
	if t.Inspect.WindowSize <= 0 {
		t.Inspect.WindowSize = 64
	}
	if t.Inspect.WindowSize > 1024 {
		t.Inspect.WindowSize = 1024
	}
	if t.Inspect.MaxFrames < 0 {
		t.Inspect.MaxFrames = 0
	}
}

func (s *LayerSettings) Normalize() {
	if s.OceanPercent < 0 {
		s.OceanPercent = 0
	}
	if s.OceanPercent > 1 {
		s.OceanPercent = 1
	}
	if s.RockLayerScale < 0 {
		s.RockLayerScale = 0
	}
	if s.RockCount < 1 {
		s.RockCount = 1
	}
	if s.CacheSize < 0 {
		s.CacheSize = 0
	}
}

func (t Tuning) Validate() error {
	if t.Layers.OceanPercent < 0 || t.Layers.OceanPercent > 1 {
		return fmt.Errorf("layers.ocean_percent must be within [0,1], got %v", t.Layers.OceanPercent)
	}
	if t.Layers.RockCount < 1 {
		return fmt.Errorf("layers.rock_count must be positive, got %d", t.Layers.RockCount)
	}
	if t.Layers.RockLayerScale > 24 {
		return fmt.Errorf("layers.rock_layer_scale too large: %d", t.Layers.RockLayerScale)
	}
	return nil
}

// Load reads a tuning file over Defaults. Missing keys keep their defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	return t, nil
}
