package main

import (
	"image/color"
	"testing"

	"github.com/fkcurrie/hub75-animloop/internal/display"
)

func TestPatterns(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"red", 3, 3, color.RGBA{255, 0, 0, 255}},
		{"checkerboard", 0, 0, color.RGBA{255, 255, 0, 255}},
		{"checkerboard", 4, 0, color.RGBA{0, 0, 0, 255}},
		{"rainbow", 0, 5, color.RGBA{255, 0, 0, 255}},
		{"row scan", 1, 0, color.RGBA{0, 0, 0, 255}},
	}

	byName := map[string]fill{}
	for _, p := range patterns {
		byName[p.name] = p.fill
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := display.NewMemory(8, 8)
			if err := draw(mem, byName[tt.name]); err != nil {
				t.Fatalf("draw() error = %v", err)
			}
			if got := mem.Snapshot().RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
