package frames

import "fmt"

// Scale normalizes a strip to the Target size class. Target strips are
// returned as is. Legacy strips are copied into a new buffer where every
// source pixel becomes a 2x2 block, frame by frame.
func Scale(s *Strip, g Geometry) (*Strip, error) {
	switch s.Class {
	case Target:
		return s, nil
	case Legacy:
		return scale2x(s, g)
	default:
		return nil, fmt.Errorf("%w: unknown size class %d", ErrUnsupportedGeometry, int(s.Class))
	}
}

func scale2x(s *Strip, g Geometry) (*Strip, error) {
	lw, lh := g.Tile(Legacy)
	tw, th := g.Tile(Target)
	if s.TileWidth != lw || s.TileHeight != lh || s.Buffer.Width != s.Frames*lw || s.Buffer.Height != lh {
		return nil, fmt.Errorf("%w: legacy strip %dx%d with %d frames does not match %dx%d tiles",
			ErrUnsupportedGeometry, s.Buffer.Width, s.Buffer.Height, s.Frames, lw, lh)
	}

	dst := NewBuffer(s.Frames*tw, th)
	for f := 0; f < s.Frames; f++ {
		srcX, dstX := f*lw, f*tw
		for y := 0; y < lh; y++ {
			for x := 0; x < lw; x++ {
				v := s.Buffer.At(srcX+x, y)
				dx, dy := dstX+2*x, 2*y
				dst.Set(dx, dy, v)
				dst.Set(dx+1, dy, v)
				dst.Set(dx, dy+1, v)
				dst.Set(dx+1, dy+1, v)
			}
		}
	}

	return &Strip{
		Buffer:     dst,
		Palette:    s.Palette,
		Class:      Target,
		Frames:     s.Frames,
		TileWidth:  tw,
		TileHeight: th,
	}, nil
}
