package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Config represents the application configuration
type Config struct {
	Display  types.DisplayConfig  `json:"display" yaml:"display"`
	Playback types.PlaybackConfig `json:"playback" yaml:"playback"`
	Assets   types.AssetsConfig   `json:"assets" yaml:"assets"`
	Sink     types.SinkConfig     `json:"sink" yaml:"sink"`
	Preview  types.PreviewConfig  `json:"preview" yaml:"preview"`
	MQTT     types.MQTTConfig     `json:"mqtt" yaml:"mqtt"`
	Splash   types.SplashConfig   `json:"splash" yaml:"splash"`
	Log      types.LogConfig      `json:"log" yaml:"log"`
}

// LoadConfig loads the configuration from a file. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration: a 64x64 panel playing
// the stock clip set.
func DefaultConfig() *Config {
	return &Config{
		Display: types.DisplayConfig{
			Width:      64,
			Height:     64,
			BitDepth:   4,
			Brightness: 255,
		},
		Playback: types.PlaybackConfig{
			AnimationSpeed:   0.1,
			PlayTime:         3.0,
			TransitionFrames: 5,
			Clips: []types.ClipConfig{
				{Name: "octopus"},
				{Name: "ghost"},
				{Name: "parrot"},
				{Name: "girl-earing-half"},
				{Name: "mona-half"},
			},
		},
		Assets: types.AssetsConfig{
			Path:      "graphics",
			Extension: ".bmp",
		},
		Sink: types.SinkConfig{
			Kind: types.SinkHUB75,
			HUB75: types.HUB75Config{
				Chip:    "gpiochip0",
				Backend: "cdev",
				// Adafruit RGB Matrix Bonnet
				Pins: types.HUB75Pins{
					R1: 5, G1: 13, B1: 6,
					R2: 12, G2: 16, B2: 23,
					CLK: 17, OE: 4, LAT: 21,
					A: 22, B: 26, C: 27, D: 20, E: 24,
				},
			},
			Fbdev: types.FbdevConfig{
				Device: "/dev/fb0",
				Zoom:   1,
			},
		},
		Preview: types.PreviewConfig{
			Addr: ":8080",
		},
		MQTT: types.MQTTConfig{
			Topic: "animloop",
		},
		Splash: types.SplashConfig{
			Seconds: 2.0,
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Clips resolves the configured clip list into playback clips, applying
// per-clip overrides on top of the playback defaults.
func (c *Config) Clips() []types.Clip {
	clips := make([]types.Clip, 0, len(c.Playback.Clips))
	for _, cc := range c.Playback.Clips {
		duration, cadence := c.Playback.PlayTime, c.Playback.AnimationSpeed
		if cc.PlayTime > 0 {
			duration = cc.PlayTime
		}
		if cc.AnimationSpeed > 0 {
			cadence = cc.AnimationSpeed
		}
		clips = append(clips, types.Clip{
			Name:     cc.Name,
			Duration: types.Seconds(duration),
			Cadence:  types.Seconds(cadence),
		})
	}
	return clips
}
