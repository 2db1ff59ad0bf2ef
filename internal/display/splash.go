package display

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

//go:embed splash.svg
var defaultSplash []byte

// splashSteps is the number of brightness steps in the splash fade-in.
const splashSteps = 16

// LoadSplash rasterizes the SVG at path, or the built-in splash when path
// is empty, at the given size.
func LoadSplash(path string, width, height int) (*image.RGBA, error) {
	if path == "" {
		return RenderSVG(bytes.NewReader(defaultSplash), width, height)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open splash: %w", err)
	}
	defer f.Close()

	return RenderSVG(f, width, height)
}

// RenderSVG rasterizes an SVG document scaled to width x height.
func RenderSVG(r io.Reader, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// fadeLUT returns n brightness levels rising from 0 to 1 along an
// ease-in-out curve.
func fadeLUT(n int) []float64 {
	lut := make([]float64, n)
	if n == 1 {
		lut[0] = 1
		return lut
	}
	for i := range lut {
		lut[i] = ease.InOutQuad(float64(i) / float64(n-1))
	}
	return lut
}

// ShowSplash fades img in on the matrix over hold, leaving the final frame
// on screen.
func ShowSplash(m types.Matrix, img image.Image, hold time.Duration, clock types.Clock) error {
	width, height := m.GetDimensions()
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return fmt.Errorf("image dimensions (%dx%d) do not match matrix dimensions (%dx%d)",
			bounds.Dx(), bounds.Dy(), width, height)
	}

	black := colorful.Color{}
	step := hold / splashSteps
	for _, level := range fadeLUT(splashSteps) {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
				if !ok {
					c = black
				}
				if err := m.SetPixel(x, y, black.BlendRgb(c, level).Clamped()); err != nil {
					return err
				}
			}
		}
		if err := m.Show(); err != nil {
			return err
		}
		clock.Sleep(step)
	}
	return nil
}
