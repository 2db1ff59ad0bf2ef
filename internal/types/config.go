package types

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// DisplayConfig represents the configuration for the display.
// Width and Height are the target tile size; legacy tiles are half of each.
type DisplayConfig struct {
	Width      int `json:"width" yaml:"width"`
	Height     int `json:"height" yaml:"height"`
	BitDepth   int `json:"bit_depth" yaml:"bit_depth"`
	Brightness int `json:"brightness" yaml:"brightness"`
}

// PlaybackConfig represents the timing of the show and its clip list
type PlaybackConfig struct {
	AnimationSpeed   float64      `json:"animation_speed" yaml:"animation_speed"`
	PlayTime         float64      `json:"play_time" yaml:"play_time"`
	TransitionFrames int          `json:"transition_frames" yaml:"transition_frames"`
	Clips            []ClipConfig `json:"clips" yaml:"clips"`
}

// ClipConfig names one clip. PlayTime and AnimationSpeed override the
// playback defaults when non-zero.
type ClipConfig struct {
	Name           string  `json:"name" yaml:"name"`
	PlayTime       float64 `json:"play_time,omitempty" yaml:"play_time,omitempty"`
	AnimationSpeed float64 `json:"animation_speed,omitempty" yaml:"animation_speed,omitempty"`
}

// UnmarshalJSON accepts either a bare clip name or a full object.
func (c *ClipConfig) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = ClipConfig{Name: name}
		return nil
	}

	type plain ClipConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ClipConfig(p)
	return nil
}

// UnmarshalYAML accepts either a bare clip name or a full mapping.
func (c *ClipConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = ClipConfig{Name: value.Value}
		return nil
	}

	type plain ClipConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = ClipConfig(p)
	return nil
}

// AssetsConfig locates clip bitmaps: <Path>/<name><Extension>
type AssetsConfig struct {
	Path      string `json:"path" yaml:"path"`
	Extension string `json:"extension" yaml:"extension"`
}

// Sink kinds
const (
	SinkHUB75  = "hub75"
	SinkFbdev  = "fbdev"
	SinkMemory = "memory"
)

// SinkConfig selects and configures the panel the show is rendered on
type SinkConfig struct {
	Kind  string      `json:"kind" yaml:"kind"`
	HUB75 HUB75Config `json:"hub75" yaml:"hub75"`
	Fbdev FbdevConfig `json:"fbdev" yaml:"fbdev"`
}

// HUB75Config represents the GPIO wiring of a HUB75 panel
type HUB75Config struct {
	Chip    string    `json:"chip" yaml:"chip"`
	Backend string    `json:"backend" yaml:"backend"`
	Pins    HUB75Pins `json:"pins" yaml:"pins"`
}

// HUB75Pins holds the GPIO line offsets of every HUB75 signal
type HUB75Pins struct {
	R1  int `json:"r1" yaml:"r1"`
	G1  int `json:"g1" yaml:"g1"`
	B1  int `json:"b1" yaml:"b1"`
	R2  int `json:"r2" yaml:"r2"`
	G2  int `json:"g2" yaml:"g2"`
	B2  int `json:"b2" yaml:"b2"`
	CLK int `json:"clk" yaml:"clk"`
	OE  int `json:"oe" yaml:"oe"`
	LAT int `json:"lat" yaml:"lat"`
	A   int `json:"a" yaml:"a"`
	B   int `json:"b" yaml:"b"`
	C   int `json:"c" yaml:"c"`
	D   int `json:"d" yaml:"d"`
	E   int `json:"e" yaml:"e"`
}

// FbdevConfig represents a Linux framebuffer device sink
type FbdevConfig struct {
	Device     string `json:"device" yaml:"device"`
	LineLength int    `json:"line_length" yaml:"line_length"`
	Zoom       int    `json:"zoom" yaml:"zoom"`
}

// PreviewConfig represents the live preview HTTP server
type PreviewConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// MQTTConfig represents the now-playing event publisher. An empty Broker
// disables it.
type MQTTConfig struct {
	Broker   string `json:"broker" yaml:"broker"`
	Topic    string `json:"topic" yaml:"topic"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// SplashConfig represents the boot splash. An empty Path uses the built-in image.
type SplashConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Path    string  `json:"path" yaml:"path"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// LogConfig represents logger settings
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}
