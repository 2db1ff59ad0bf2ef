package playback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/frames"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Loader produces classified strips for clip names.
type Loader interface {
	Load(name string) (*frames.Strip, error)
	Geometry() frames.Geometry
}

// ErrNoClips is returned by Run when the director has nothing to play.
var ErrNoClips = errors.New("no clips to play")

// Options configures a Director.
type Options struct {
	Clips []types.Clip
	// TransitionFrames is the number of Cadence ticks the surface stays
	// blank between clips.
	TransitionFrames int
	Cadence          time.Duration
	Clock            types.Clock
	Reporter         Reporter
	Logger           *slog.Logger
}

// Director walks the clip list, playing each clip and blanking the surface
// after it, whether it played or failed.
type Director struct {
	loader     Loader
	engine     *Engine
	transition *Transition
	clips      []types.Clip
	clock      types.Clock
	reporter   Reporter
	logger     *slog.Logger
}

// NewDirector creates a director presenting on surface.
func NewDirector(loader Loader, surface Surface, opts Options) *Director {
	if opts.Clock == nil {
		opts.Clock = types.SystemClock{}
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Director{
		loader:     loader,
		engine:     NewEngine(surface, opts.Clock, opts.Logger),
		transition: NewTransition(surface, opts.Clock, opts.TransitionFrames, opts.Cadence),
		clips:      opts.Clips,
		clock:      opts.Clock,
		reporter:   opts.Reporter,
		logger:     opts.Logger,
	}
}

// Run plays the clip list cycles times, or forever when cycles <= 0. A clip
// that fails is logged and skipped; Run only returns early when ctx is done
// or there are no clips.
func (d *Director) Run(ctx context.Context, cycles int) error {
	if len(d.clips) == 0 {
		return ErrNoClips
	}
	for cycle := 0; cycles <= 0 || cycle < cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, clip := range d.clips {
			if err := ctx.Err(); err != nil {
				return err
			}

			d.reporter.ClipStarted(clip)
			res := d.PlayClip(ctx, clip)
			if err := ctx.Err(); err != nil {
				return err
			}

			if res.OK() {
				d.logger.Info("clip finished",
					"clip", clip.Name, "class", res.Class.String(), "frames", res.Frames, "ticks", res.Ticks)
			} else {
				d.logger.Error("clip failed", "clip", clip.Name, "error", res.Err)
			}
			d.reporter.ClipFinished(res)

			if err := d.transition.Run(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				d.logger.Error("transition failed", "after", clip.Name, "error", err)
			}
		}
	}
	return nil
}

// PlayClip loads, normalizes and presents one clip.
func (d *Director) PlayClip(ctx context.Context, clip types.Clip) Result {
	res := Result{Clip: clip.Name}
	start := d.clock.Now()

	err := func() error {
		strip, err := d.loader.Load(clip.Name)
		if err != nil {
			return err
		}
		res.Class, res.Frames = strip.Class, strip.Frames
		if strip.Class == frames.Legacy {
			d.logger.Debug("scaling legacy strip", "clip", clip.Name, "frames", strip.Frames)
		}

		strip, err = frames.Scale(strip, d.loader.Geometry())
		if err != nil {
			return err
		}

		res.Ticks, err = d.engine.Play(ctx, clip, strip)
		return err
	}()
	if err != nil {
		res.Err = &frames.ClipError{Clip: clip.Name, Err: err}
	}

	res.Elapsed = d.clock.Now().Sub(start)
	return res
}
