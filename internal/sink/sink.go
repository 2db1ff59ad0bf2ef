// Package sink opens the panel the show is rendered on.
package sink

import (
	"fmt"

	"github.com/fkcurrie/hub75-animloop/internal/config"
	"github.com/fkcurrie/hub75-animloop/internal/display"
	"github.com/fkcurrie/hub75-animloop/internal/types"
	"github.com/fkcurrie/hub75-animloop/pkg/fbdev"
	"github.com/fkcurrie/hub75-animloop/pkg/hub75"
)

// Open opens the panel selected by the sink section. Hardware failures wrap
// types.ErrHardwareInit.
func Open(cfg *config.Config) (types.Matrix, error) {
	d := cfg.Display
	switch cfg.Sink.Kind {
	case types.SinkHUB75:
		h := cfg.Sink.HUB75
		request := hub75.CdevRequester(h.Chip)
		if h.Backend == "sysfs" {
			request = hub75.SysfsRequester()
		}
		m, err := hub75.Open(hub75.Config{
			Width:      d.Width,
			Height:     d.Height,
			BitDepth:   d.BitDepth,
			Brightness: d.Brightness,
			Pins:       hub75.Pins(h.Pins),
		}, request)
		if err != nil {
			return nil, err
		}
		m.Start()
		return m, nil
	case types.SinkFbdev:
		f := cfg.Sink.Fbdev
		m, err := fbdev.Open(fbdev.Config{
			Device:     f.Device,
			Width:      d.Width,
			Height:     d.Height,
			LineLength: f.LineLength,
			Zoom:       f.Zoom,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case types.SinkMemory:
		return display.NewMemory(d.Width, d.Height), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink.Kind)
	}
}
