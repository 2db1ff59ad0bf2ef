package types

import (
	"errors"
	"image/color"
)

// ErrHardwareInit is returned when a display panel cannot be brought up.
// It is not recoverable; callers are expected to terminate.
var ErrHardwareInit = errors.New("hardware init failure")

// Matrix represents a display matrix
type Matrix interface {
	// Clear blanks the buffer and pushes it to the panel
	Clear() error
	// SetPixel sets a pixel at the given coordinates to the given color
	SetPixel(x, y int, c color.Color) error
	// Show updates the display with the current buffer
	Show() error
	// GetDimensions returns the panel size in pixels
	GetDimensions() (width, height int)
	// Close closes the matrix
	Close() error
}
