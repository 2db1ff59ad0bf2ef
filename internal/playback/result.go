package playback

import (
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/frames"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Result is the outcome of playing one clip. A failed clip carries a
// *frames.ClipError in Err; the show goes on either way.
type Result struct {
	Clip    string
	Class   frames.SizeClass
	Frames  int
	Ticks   int
	Elapsed time.Duration
	Err     error
}

// OK reports whether the clip played to the end of its duration.
func (r Result) OK() bool {
	return r.Err == nil
}

// Reporter is told about every clip the director plays.
type Reporter interface {
	ClipStarted(clip types.Clip)
	ClipFinished(result Result)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) ClipStarted(types.Clip) {}
func (NopReporter) ClipFinished(Result)    {}
