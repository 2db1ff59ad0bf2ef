package playback

import (
	"context"
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Transition blanks the surface and holds it dark for a fixed number of
// cadence ticks.
type Transition struct {
	surface Surface
	clock   types.Clock
	ticks   int
	cadence time.Duration
}

// NewTransition creates a transition holding blank for ticks x cadence.
func NewTransition(surface Surface, clock types.Clock, ticks int, cadence time.Duration) *Transition {
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Transition{
		surface: surface,
		clock:   clock,
		ticks:   ticks,
		cadence: cadence,
	}
}

// Run clears the surface and waits out the blank interval. The wait happens
// even when clearing fails, so the next clip starts on schedule.
func (t *Transition) Run(ctx context.Context) error {
	err := t.surface.Clear()
	for i := 0; i < t.ticks; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		t.clock.Sleep(t.cadence)
	}
	return err
}
