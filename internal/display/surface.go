package display

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fkcurrie/hub75-animloop/internal/frames"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// ErrNoStrip is returned by Show when nothing is installed.
var ErrNoStrip = errors.New("no strip installed")

// Surface is the single rendering surface of the show. It holds at most one
// installed strip and draws one of its tiles on the matrix at a time.
//
// Surface is not safe for concurrent use; playback owns it exclusively
// while a clip is presented.
type Surface struct {
	matrix types.Matrix
	strip  *frames.Strip
	colors []color.RGBA
	frame  int
}

// NewSurface creates a surface drawing on the given matrix.
func NewSurface(matrix types.Matrix) *Surface {
	return &Surface{
		matrix: matrix,
		frame:  -1,
	}
}

// Install clears whatever is on screen and takes the strip as the current
// presentation. Nothing is drawn until Show is called.
func (s *Surface) Install(strip *frames.Strip) error {
	if strip == nil || strip.Buffer == nil || strip.Frames < 1 {
		return fmt.Errorf("display: invalid strip")
	}
	width, height := s.matrix.GetDimensions()
	if strip.TileWidth != width || strip.TileHeight != height {
		return fmt.Errorf("display: %dx%d tiles do not fit a %dx%d panel",
			strip.TileWidth, strip.TileHeight, width, height)
	}

	if err := s.Clear(); err != nil {
		return err
	}

	s.colors = resolvePalette(strip.Palette)
	s.strip = strip
	return nil
}

// Show draws the given frame of the installed strip and pushes it to the
// panel.
func (s *Surface) Show(frame int) error {
	if s.strip == nil {
		return ErrNoStrip
	}
	if frame < 0 || frame >= s.strip.Frames {
		return fmt.Errorf("display: frame %d out of range [0, %d)", frame, s.strip.Frames)
	}

	for y := 0; y < s.strip.TileHeight; y++ {
		for x := 0; x < s.strip.TileWidth; x++ {
			if err := s.matrix.SetPixel(x, y, s.colors[s.strip.At(frame, x, y)]); err != nil {
				return fmt.Errorf("display: failed to set pixel: %w", err)
			}
		}
	}
	if err := s.matrix.Show(); err != nil {
		return fmt.Errorf("display: failed to show frame %d: %w", frame, err)
	}

	s.frame = frame
	return nil
}

// Clear drops the installed strip and blanks the panel.
func (s *Surface) Clear() error {
	s.strip = nil
	s.colors = nil
	s.frame = -1
	if err := s.matrix.Clear(); err != nil {
		return fmt.Errorf("display: failed to clear: %w", err)
	}
	return nil
}

// Frame returns the visible frame, or false when the surface is blank.
func (s *Surface) Frame() (int, bool) {
	return s.frame, s.frame >= 0
}

// resolvePalette converts a palette to opaque RGB once per install.
// Fully transparent entries render as black.
func resolvePalette(p color.Palette) []color.RGBA {
	out := make([]color.RGBA, len(p))
	for i, c := range p {
		col, ok := colorful.MakeColor(c)
		if !ok {
			out[i] = color.RGBA{A: 0xff}
			continue
		}
		r, g, b := col.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}
