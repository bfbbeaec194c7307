// Package config loads and saves the go-erae configuration: MIDI port
// preferences and the region layout the session uses for hit testing.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-erae/engine"
)

// DeviceConfig selects the touch surface port
type DeviceConfig struct {
	PortPattern string `json:"portPattern,omitempty"`
}

// OutputConfig selects where computed MIDI goes
type OutputConfig struct {
	PortName string `json:"portName,omitempty"`
}

// RegionConfig is one input zone of the layout as stored on disk. Params is
// the loose bag documented per behavior; it is validated once at load, not
// per touch.
type RegionConfig struct {
	ID       string         `json:"id"`
	Zone     uint8          `json:"zone"`
	XMin     float32        `json:"xMin"`
	YMin     float32        `json:"yMin"`
	XMax     float32        `json:"xMax"`
	YMax     float32        `json:"yMax"`
	Behavior string         `json:"behavior"`
	Params   map[string]any `json:"params,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Device  DeviceConfig   `json:"device,omitempty"`
	Output  OutputConfig   `json:"output,omitempty"`
	Regions []RegionConfig `json:"regions,omitempty"`
}

// DefaultConfig returns a playable starting layout: an expressive pad strip,
// a latching trigger, and a mod-wheel fader on zone 0 of an Erae-sized grid.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{PortPattern: "Erae"},
		Regions: []RegionConfig{
			{
				ID: "pad", Zone: 0, XMin: 0, YMin: 0, XMax: 24, YMax: 16,
				Behavior: "note_pad",
				Params: map[string]any{
					"note":            60,
					"velocity_curve":  "logarithmic",
					"pitchbend_range": 48,
				},
			},
			{
				ID: "hold", Zone: 0, XMin: 26, YMin: 0, XMax: 32, YMax: 6,
				Behavior: "trigger",
				Params:   map[string]any{"note": 36, "latch": true},
			},
			{
				ID: "mod", Zone: 0, XMin: 34, YMin: 0, XMax: 38, YMax: 16,
				Behavior: "fader",
				Params:   map[string]any{"cc": 1},
			},
		},
	}
}

// BuildRegions resolves the stored layout into engine regions, applying
// behavior defaults and validating parameter ranges.
func (c *Config) BuildRegions() ([]engine.Region, error) {
	out := make([]engine.Region, 0, len(c.Regions))
	for _, rc := range c.Regions {
		b, err := engine.ParseBehavior(rc.Behavior, rc.Params)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", rc.ID, err)
		}
		out = append(out, engine.Region{
			ID:       rc.ID,
			Zone:     rc.Zone,
			BBox:     engine.BBox{XMin: rc.XMin, YMin: rc.YMin, XMax: rc.XMax, YMax: rc.YMax},
			Behavior: b,
		})
	}
	return out, nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-erae"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
