package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Validate checks the configuration for values the show cannot run with.
func Validate(c *Config) error {
	var errs []error

	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, fmt.Errorf("display: invalid dimensions %dx%d", d.Width, d.Height))
	} else if d.Width%2 != 0 || d.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("display: %dx%d cannot be halved for legacy tiles", d.Width, d.Height))
	}
	if d.BitDepth < 1 || d.BitDepth > 8 {
		errs = append(errs, fmt.Errorf("display: bit_depth must be between 1 and 8, got %d", d.BitDepth))
	}
	if d.Brightness < 0 || d.Brightness > 255 {
		errs = append(errs, fmt.Errorf("display: brightness must be between 0 and 255"))
	}

	p := c.Playback
	if p.AnimationSpeed <= 0 {
		errs = append(errs, fmt.Errorf("playback: animation_speed must be positive"))
	}
	if p.PlayTime <= 0 {
		errs = append(errs, fmt.Errorf("playback: play_time must be positive"))
	}
	if p.TransitionFrames < 0 {
		errs = append(errs, fmt.Errorf("playback: transition_frames must not be negative"))
	}
	if len(p.Clips) == 0 {
		errs = append(errs, fmt.Errorf("playback: no clips configured"))
	}
	for i, clip := range p.Clips {
		if strings.TrimSpace(clip.Name) == "" {
			errs = append(errs, fmt.Errorf("playback: clip %d has no name", i))
		}
		if clip.PlayTime < 0 || clip.AnimationSpeed < 0 {
			errs = append(errs, fmt.Errorf("playback: clip %q has negative timing", clip.Name))
		}
	}

	switch c.Sink.Kind {
	case types.SinkHUB75:
		switch c.Sink.HUB75.Backend {
		case "cdev", "sysfs":
		default:
			errs = append(errs, fmt.Errorf("sink: unknown hub75 backend %q", c.Sink.HUB75.Backend))
		}
	case types.SinkFbdev:
		if c.Sink.Fbdev.Device == "" {
			errs = append(errs, fmt.Errorf("sink: fbdev device not set"))
		}
		if c.Sink.Fbdev.Zoom < 1 {
			errs = append(errs, fmt.Errorf("sink: fbdev zoom must be at least 1"))
		}
	case types.SinkMemory:
	default:
		errs = append(errs, fmt.Errorf("sink: unknown kind %q", c.Sink.Kind))
	}

	if c.Preview.Enabled && c.Preview.Addr == "" {
		errs = append(errs, fmt.Errorf("preview: addr not set"))
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		errs = append(errs, fmt.Errorf("mqtt: topic not set"))
	}
	if c.Splash.Seconds < 0 {
		errs = append(errs, fmt.Errorf("splash: seconds must not be negative"))
	}

	return errors.Join(errs...)
}
