// Package hub75 drives a HUB75 RGB LED panel by bit-banging GPIO lines.
//
// The panel is scanned two rows at a time (one in each half) using
// binary-coded modulation: for each bit plane the row is shifted out, latched
// and shown for a time proportional to the plane's weight.
package hub75

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// addressBits is the number of row address lines, A to E.
const addressBits = 5

// Config holds the configuration for the LED matrix
type Config struct {
	Width      int
	Height     int
	BitDepth   int
	Brightness int
	Pins       Pins
	// PlaneTime is how long the least significant bit plane is lit.
	PlaneTime time.Duration
}

// Matrix is a HUB75 panel. SetPixel draws into a back buffer; Show hands it
// to the scan loop.
type Matrix struct {
	cfg   Config
	rows  int
	lines [numSignals]Line
	hold  func(time.Duration)

	mu    sync.Mutex
	back  []color.RGBA
	front []color.RGBA
	// scan is the scan loop's private copy of front
	scan []color.RGBA

	stop chan struct{}
	done chan struct{}
}

// Open claims every line of the panel. When any line cannot be
// claimed, the ones already held are released and the error wraps
// types.ErrHardwareInit.
func Open(cfg Config, request Requester) (*Matrix, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Height%2 != 0 {
		return nil, fmt.Errorf("%w: invalid dimensions: %dx%d", types.ErrHardwareInit, cfg.Width, cfg.Height)
	}
	rows := cfg.Height / 2
	if rows > 1<<addressBits {
		return nil, fmt.Errorf("%w: %d rows cannot be addressed with %d address lines",
			types.ErrHardwareInit, cfg.Height, addressBits)
	}
	if cfg.BitDepth < 1 || cfg.BitDepth > 8 {
		return nil, fmt.Errorf("%w: bit depth must be between 1 and 8", types.ErrHardwareInit)
	}
	if cfg.Brightness < 0 || cfg.Brightness > 255 {
		return nil, fmt.Errorf("%w: brightness must be between 0 and 255", types.ErrHardwareInit)
	}
	if cfg.PlaneTime <= 0 {
		cfg.PlaneTime = 2 * time.Microsecond
	}

	m := &Matrix{
		cfg:   cfg,
		rows:  rows,
		hold:  time.Sleep,
		back:  make([]color.RGBA, cfg.Width*cfg.Height),
		front: make([]color.RGBA, cfg.Width*cfg.Height),
		scan:  make([]color.RGBA, cfg.Width*cfg.Height),
	}

	for sig, offset := range cfg.Pins.offsets() {
		if offset < 0 {
			m.release()
			return nil, fmt.Errorf("%w: invalid pin configuration: pin %d", types.ErrHardwareInit, offset)
		}
		line, err := request(offset)
		if err != nil {
			m.release()
			return nil, fmt.Errorf("%w: failed to request GPIO %d: %w", types.ErrHardwareInit, offset, err)
		}
		m.lines[sig] = line
	}

	// output stays disabled until the first plane is latched
	if err := m.lines[sigOE].SetValue(1); err != nil {
		m.release()
		return nil, fmt.Errorf("%w: %w", types.ErrHardwareInit, err)
	}

	return m, nil
}

// Start runs the scan loop on its own goroutine until Close.
func (m *Matrix) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if err := m.scanFrame(); err != nil {
				log.Printf("Error scanning frame: %v", err)
				return
			}
		}
	}(m.stop, m.done)
}

// Clear clears the back buffer and shows it
func (m *Matrix) Clear() error {
	m.mu.Lock()
	for i := range m.back {
		m.back[i] = color.RGBA{}
	}
	m.mu.Unlock()
	return m.Show()
}

// SetPixel sets a pixel at the given coordinates to the given color
func (m *Matrix) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= m.cfg.Width || y < 0 || y >= m.cfg.Height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	b := uint32(m.cfg.Brightness)
	rgba.R = uint8(uint32(rgba.R) * b / 255)
	rgba.G = uint8(uint32(rgba.G) * b / 255)
	rgba.B = uint8(uint32(rgba.B) * b / 255)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.back[y*m.cfg.Width+x] = rgba
	return nil
}

// Show makes the back buffer the one being scanned out.
func (m *Matrix) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.front, m.back)
	return nil
}

// GetDimensions returns the dimensions of the matrix
func (m *Matrix) GetDimensions() (width, height int) {
	return m.cfg.Width, m.cfg.Height
}

// Close stops the scan loop, blanks the panel and releases every line.
func (m *Matrix) Close() error {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	var blankErr error
	if m.lines[sigOE] != nil {
		if err := m.lines[sigOE].SetValue(1); err != nil {
			blankErr = fmt.Errorf("failed to disable output: %w", err)
		}
	}
	return errors.Join(blankErr, m.release())
}

func (m *Matrix) release() error {
	var errs []error
	for sig, line := range m.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close line %d: %w", sig, err))
		}
		m.lines[sig] = nil
	}
	return errors.Join(errs...)
}

// scanFrame shifts every bit plane of the front buffer out once.
func (m *Matrix) scanFrame() error {
	m.mu.Lock()
	frame := m.scan
	copy(frame, m.front)
	m.mu.Unlock()

	// planes run from the most significant bit down
	for plane := 0; plane < m.cfg.BitDepth; plane++ {
		bit := uint(7 - plane)
		for row := 0; row < m.rows; row++ {
			if err := m.shiftRow(frame, row, bit); err != nil {
				return fmt.Errorf("row %d plane %d: %w", row, plane, err)
			}
			m.hold(m.cfg.PlaneTime << (m.cfg.BitDepth - 1 - plane))
		}
	}
	return m.set(sigOE, 1)
}

// shiftRow clocks one bit plane of a row pair into the panel and shows it.
func (m *Matrix) shiftRow(frame []color.RGBA, row int, bit uint) error {
	upper := frame[row*m.cfg.Width : (row+1)*m.cfg.Width]
	lower := frame[(row+m.rows)*m.cfg.Width : (row+m.rows+1)*m.cfg.Width]

	for col := 0; col < m.cfg.Width; col++ {
		hi, lo := upper[col], lower[col]
		for _, p := range [...]struct {
			sig signal
			v   uint8
		}{
			{sigR1, hi.R}, {sigG1, hi.G}, {sigB1, hi.B},
			{sigR2, lo.R}, {sigG2, lo.G}, {sigB2, lo.B},
		} {
			if err := m.set(p.sig, int(p.v>>bit)&1); err != nil {
				return err
			}
		}
		if err := m.pulse(sigCLK); err != nil {
			return err
		}
	}

	// disable output during address change
	if err := m.set(sigOE, 1); err != nil {
		return err
	}
	for i := 0; i < addressBits; i++ {
		if err := m.set(sigA+signal(i), (row>>i)&1); err != nil {
			return err
		}
	}
	if err := m.pulse(sigLAT); err != nil {
		return err
	}
	return m.set(sigOE, 0)
}

func (m *Matrix) set(sig signal, value int) error {
	return m.lines[sig].SetValue(value)
}

func (m *Matrix) pulse(sig signal) error {
	if err := m.set(sig, 1); err != nil {
		return err
	}
	return m.set(sig, 0)
}
