// Package fbdev shows the panel image on a Linux framebuffer, for running
// the show on an HDMI screen or a desk without a panel attached.
package fbdev

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/fkcurrie/hub75-animloop/internal/types"
	"github.com/fkcurrie/hub75-animloop/pkg/mmap"
)

const bytesPerPixel = 4

// Config describes the framebuffer and how the panel is drawn on it.
type Config struct {
	Device string
	Width  int
	Height int
	// LineLength is the framebuffer stride in bytes. Zero means tightly
	// packed rows of the zoomed image.
	LineLength int
	// Zoom draws each panel pixel as a Zoom x Zoom square.
	Zoom int
}

// Matrix draws into an XRGB8888 framebuffer.
type Matrix struct {
	cfg  Config
	fb   *mmap.MemoryMap
	back []byte

	mu sync.Mutex
}

// Open maps the framebuffer device. Failures wrap types.ErrHardwareInit.
func Open(cfg Config) (*Matrix, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Zoom < 1 {
		cfg.Zoom = 1
	}
	if cfg.LineLength == 0 {
		cfg.LineLength = cfg.Width * cfg.Zoom * bytesPerPixel
	}
	if cfg.LineLength < cfg.Width*cfg.Zoom*bytesPerPixel {
		return nil, fmt.Errorf("line length %d too short for %d zoomed pixels", cfg.LineLength, cfg.Width*cfg.Zoom)
	}

	size := cfg.LineLength * cfg.Height * cfg.Zoom
	fb, err := mmap.Open(cfg.Device, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrHardwareInit, err)
	}

	return &Matrix{
		cfg:  cfg,
		fb:   fb,
		back: make([]byte, size),
	}, nil
}

// Clear clears the back buffer and shows it
func (m *Matrix) Clear() error {
	m.mu.Lock()
	for i := range m.back {
		m.back[i] = 0
	}
	m.mu.Unlock()
	return m.Show()
}

// SetPixel sets a pixel's color
func (m *Matrix) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= m.cfg.Width || y < 0 || y >= m.cfg.Height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	px := [bytesPerPixel]byte{rgba.B, rgba.G, rgba.R, 0}

	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.cfg.Zoom
	for dy := 0; dy < z; dy++ {
		off := (y*z+dy)*m.cfg.LineLength + x*z*bytesPerPixel
		for dx := 0; dx < z; dx++ {
			copy(m.back[off+dx*bytesPerPixel:], px[:])
		}
	}
	return nil
}

// Show copies the back buffer to the framebuffer
func (m *Matrix) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fb == nil {
		return fmt.Errorf("framebuffer closed")
	}
	m.fb.WriteBytes(0, m.back)
	return nil
}

// GetDimensions returns the dimensions of the matrix
func (m *Matrix) GetDimensions() (width, height int) {
	return m.cfg.Width, m.cfg.Height
}

// Close unmaps the framebuffer
func (m *Matrix) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fb == nil {
		return nil
	}
	err := m.fb.Close()
	m.fb = nil
	return err
}
