package frames

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a row-major grid of palette indices.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed width x height buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the palette index at (x, y).
func (b *Buffer) At(x, y int) uint8 {
	return b.Pix[y*b.Width+x]
}

// Set stores palette index v at (x, y).
func (b *Buffer) Set(x, y int, v uint8) {
	b.Pix[y*b.Width+x] = v
}

// Bitmap is what a Store hands back: indices plus the palette they refer to.
type Bitmap struct {
	Buffer  *Buffer
	Palette color.Palette
}

// FromImage copies an indexed image into a Bitmap. Any other image type is
// rejected; clips are always palette based.
func FromImage(img image.Image) (*Bitmap, error) {
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("not an indexed bitmap (%T)", img)
	}

	bounds := p.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		off := p.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(buf.Pix[y*w:(y+1)*w], p.Pix[off:off+w])
	}

	return &Bitmap{Buffer: buf, Palette: p.Palette}, nil
}

// validate checks the PixelBuffer invariants: positive size and every index
// inside the palette.
func (b *Bitmap) validate() error {
	if b.Buffer == nil || b.Buffer.Width <= 0 || b.Buffer.Height <= 0 {
		return fmt.Errorf("empty bitmap")
	}
	if len(b.Buffer.Pix) != b.Buffer.Width*b.Buffer.Height {
		return fmt.Errorf("buffer holds %d pixels, want %d", len(b.Buffer.Pix), b.Buffer.Width*b.Buffer.Height)
	}
	if len(b.Palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	for i, v := range b.Buffer.Pix {
		if int(v) >= len(b.Palette) {
			return fmt.Errorf("pixel (%d, %d) uses index %d, palette has %d entries",
				i%b.Buffer.Width, i/b.Buffer.Width, v, len(b.Palette))
		}
	}
	return nil
}
