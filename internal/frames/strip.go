package frames

import (
	"fmt"
	"image/color"
)

// SizeClass tags a strip with the tile size it was authored at.
type SizeClass int

const (
	// Legacy tiles are half the panel size and get scaled 2x.
	Legacy SizeClass = iota + 1
	// Target tiles match the panel.
	Target
)

// classes lists every SizeClass in the order bitmaps are matched against them.
var classes = []SizeClass{Legacy, Target}

func (c SizeClass) String() string {
	switch c {
	case Legacy:
		return "legacy"
	case Target:
		return "target"
	default:
		return fmt.Sprintf("SizeClass(%d)", int(c))
	}
}

// Geometry is the target tile size, which is the panel size.
type Geometry struct {
	Width  int
	Height int
}

// Tile returns the tile dimensions of a size class.
func (g Geometry) Tile(class SizeClass) (width, height int) {
	switch class {
	case Legacy:
		return g.Width / 2, g.Height / 2
	case Target:
		return g.Width, g.Height
	default:
		panic(fmt.Sprintf("frames: unknown size class %d", int(class)))
	}
}

// Classify matches bitmap dimensions against the size classes and returns
// the class and the number of frames in the strip.
func (g Geometry) Classify(width, height int) (SizeClass, int, error) {
	for _, class := range classes {
		tw, th := g.Tile(class)
		if height != th {
			continue
		}
		if width <= 0 || width%tw != 0 {
			return 0, 0, fmt.Errorf("%w: width = %d, must be multiple of %d for %dpx high bitmaps",
				ErrUnsupportedGeometry, width, tw, th)
		}
		return class, width / tw, nil
	}

	_, lh := g.Tile(Legacy)
	_, th := g.Tile(Target)
	return 0, 0, fmt.Errorf("%w: height = %d, must be %d or %d pixels", ErrUnsupportedGeometry, height, lh, th)
}

// Strip is a bitmap holding Frames tiles laid out left to right.
type Strip struct {
	Buffer     *Buffer
	Palette    color.Palette
	Class      SizeClass
	Frames     int
	TileWidth  int
	TileHeight int
}

// At returns the palette index of pixel (x, y) inside the given frame.
func (s *Strip) At(frame, x, y int) uint8 {
	return s.Buffer.At(frame*s.TileWidth+x, y)
}
