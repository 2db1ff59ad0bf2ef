package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Memory is an in-process matrix. It backs the headless "memory" sink and
// records what was last shown.
type Memory struct {
	width  int
	height int
	back   *image.RGBA
	front  *image.RGBA
	shows  int
	mu     sync.Mutex
}

// NewMemory creates a blank width x height matrix.
func NewMemory(width, height int) *Memory {
	return &Memory{
		width:  width,
		height: height,
		back:   image.NewRGBA(image.Rect(0, 0, width, height)),
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Clear clears the back buffer and shows it
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.back.Pix {
		m.back.Pix[i] = 0
	}
	m.show()
	return nil
}

// SetPixel sets a pixel's color
func (m *Memory) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.back.Set(x, y, c)
	return nil
}

// Show copies the back buffer to the front
func (m *Memory) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.show()
	return nil
}

func (m *Memory) show() {
	copy(m.front.Pix, m.back.Pix)
	m.shows++
}

// GetDimensions returns the dimensions of the matrix
func (m *Memory) GetDimensions() (width, height int) {
	return m.width, m.height
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

// Snapshot returns a copy of what is currently shown
func (m *Memory) Snapshot() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()

	img := image.NewRGBA(m.front.Rect)
	copy(img.Pix, m.front.Pix)
	return img
}

// Shows returns how many times the front buffer was updated
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}
