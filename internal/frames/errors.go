package frames

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedGeometry reports a bitmap whose height matches neither
	// size class, or whose width is not a whole number of tiles.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	// ErrDecode reports a bitmap the store could not produce: missing file,
	// corrupt data or a non-indexed image.
	ErrDecode = errors.New("decode failure")
)

// ClipError ties a load or playback failure to the clip it belongs to.
type ClipError struct {
	Clip string
	Err  error
}

func (e *ClipError) Error() string {
	return fmt.Sprintf("clip %s: %v", e.Clip, e.Err)
}

func (e *ClipError) Unwrap() error {
	return e.Err
}
