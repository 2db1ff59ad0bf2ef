package types

import "time"

// Clip is one entry of the show: a named bitmap strip played for Duration,
// advancing one frame every Cadence.
type Clip struct {
	Name     string
	Duration time.Duration
	Cadence  time.Duration
}

// Seconds converts a configuration value in seconds to a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
