// Package playback runs the show: it presents frame strips on the
// rendering surface at a fixed cadence, blanks the surface between clips and
// walks the clip list forever.
//
// Everything here runs on the caller's goroutine. Sleeps block, and the
// surface is handed from the engine to the transition by plain sequential
// calls.
package playback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fkcurrie/hub75-animloop/internal/frames"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Surface is the rendering surface a strip is presented on.
type Surface interface {
	// Install replaces the current presentation with strip
	Install(strip *frames.Strip) error
	// Show makes the given frame of the installed strip visible
	Show(frame int) error
	// Clear drops the presentation and blanks the display
	Clear() error
}

// Engine presents one strip for the duration of a clip.
type Engine struct {
	surface Surface
	clock   types.Clock
	logger  *slog.Logger
}

// NewEngine creates a playback engine drawing on surface.
func NewEngine(surface Surface, clock types.Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		surface: surface,
		clock:   clock,
		logger:  logger,
	}
}

// Play installs strip and cycles through its frames, one every
// clip.Cadence, until clip.Duration has elapsed. The last frame may be cut
// short; the index wraps to 0 after the last frame. It returns the number
// of frames shown.
func (e *Engine) Play(ctx context.Context, clip types.Clip, strip *frames.Strip) (int, error) {
	if clip.Cadence <= 0 {
		return 0, fmt.Errorf("cadence must be positive, got %v", clip.Cadence)
	}
	if strip == nil || strip.Frames < 1 {
		return 0, fmt.Errorf("strip has no frames")
	}

	if err := e.surface.Install(strip); err != nil {
		return 0, fmt.Errorf("failed to install strip: %w", err)
	}

	frame, ticks := 0, 0
	start := e.clock.Now()
	for e.clock.Now().Sub(start) < clip.Duration {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		if err := e.surface.Show(frame); err != nil {
			return ticks, err
		}
		ticks++
		e.logger.Debug("frame", "clip", clip.Name, "frame", frame+1, "frames", strip.Frames)

		frame = (frame + 1) % strip.Frames
		e.clock.Sleep(clip.Cadence)
	}

	return ticks, nil
}
