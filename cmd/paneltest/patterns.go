package main

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// fill returns the color of pixel (x, y) on a width x height panel.
type fill func(x, y, width, height int) color.Color

type pattern struct {
	name string
	fill fill
}

var patterns = []pattern{
	{"red", solid(color.RGBA{255, 0, 0, 255})},
	{"green", solid(color.RGBA{0, 255, 0, 255})},
	{"blue", solid(color.RGBA{0, 0, 255, 255})},
	{"checkerboard", checkerboard(4)},
	{"rainbow", rainbow},
	{"row scan", rowScan},
}

func solid(c color.Color) fill {
	return func(x, y, width, height int) color.Color { return c }
}

// checkerboard draws cell x cell yellow and black squares.
func checkerboard(cell int) fill {
	return func(x, y, width, height int) color.Color {
		if (x/cell+y/cell)%2 == 0 {
			return color.RGBA{255, 255, 0, 255}
		}
		return color.Black
	}
}

// rainbow sweeps the hue across the panel; wrong R/G/B wiring shows as a
// reordered spectrum.
func rainbow(x, y, width, height int) color.Color {
	return colorful.Hsv(360*float64(x)/float64(width), 1, 1).Clamped()
}

// rowScan lights the first column of every row with a color derived from
// its address, so a stuck address line shows as repeated colors.
func rowScan(x, y, width, height int) color.Color {
	if x != 0 {
		return color.Black
	}
	return colorful.Hsv(360*float64(y)/float64(height), 1, 1).Clamped()
}

func draw(m types.Matrix, f fill) error {
	width, height := m.GetDimensions()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := m.SetPixel(x, y, f(x, y, width, height)); err != nil {
				return err
			}
		}
	}
	return m.Show()
}
