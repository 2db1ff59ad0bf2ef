package hub75

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// bus simulates the panel's shift registers on top of fake lines.
type bus struct {
	state   map[int]int
	pins    Pins
	shifted [][6]int
	latched []latch
	closed  map[int]bool
	failOn  int
	// stuck is an offset whose writes fail
	stuck int
}

type latch struct {
	row  int
	data [][6]int
}

func newBus(pins Pins) *bus {
	return &bus{state: map[int]int{}, pins: pins, closed: map[int]bool{}, failOn: -1, stuck: -1}
}

type fakeLine struct {
	b      *bus
	offset int
}

func (l *fakeLine) SetValue(v int) error {
	b := l.b
	if l.offset == b.stuck {
		return errors.New("write failed")
	}
	rising := b.state[l.offset] == 0 && v == 1
	b.state[l.offset] = v
	if !rising {
		return nil
	}
	switch l.offset {
	case b.pins.CLK:
		p := b.pins
		b.shifted = append(b.shifted, [6]int{
			b.state[p.R1], b.state[p.G1], b.state[p.B1],
			b.state[p.R2], b.state[p.G2], b.state[p.B2],
		})
	case b.pins.LAT:
		p := b.pins
		row := b.state[p.A] | b.state[p.B]<<1 | b.state[p.C]<<2 | b.state[p.D]<<3 | b.state[p.E]<<4
		b.latched = append(b.latched, latch{row: row, data: b.shifted})
		b.shifted = nil
	}
	return nil
}

func (l *fakeLine) Close() error {
	l.b.closed[l.offset] = true
	return nil
}

func (b *bus) request(offset int) (Line, error) {
	if offset == b.failOn {
		return nil, errors.New("line busy")
	}
	return &fakeLine{b: b, offset: offset}, nil
}

func newTestMatrix(t *testing.T, cfg Config) (*Matrix, *bus) {
	t.Helper()
	cfg.Pins = BonnetPins
	b := newBus(cfg.Pins)
	m, err := Open(cfg, b.request)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	m.hold = func(time.Duration) {}
	return m, b
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid config", Config{Width: 64, Height: 64, BitDepth: 4, Brightness: 255}, false},
		{"invalid width", Config{Width: 0, Height: 64, BitDepth: 4}, true},
		{"odd height", Config{Width: 64, Height: 31, BitDepth: 4}, true},
		{"too many rows", Config{Width: 64, Height: 128, BitDepth: 4}, true},
		{"invalid bit depth", Config{Width: 64, Height: 64, BitDepth: 9}, true},
		{"invalid brightness", Config{Width: 64, Height: 64, BitDepth: 4, Brightness: 256}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Pins = BonnetPins
			m, err := Open(tt.cfg, newBus(BonnetPins).request)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, types.ErrHardwareInit) {
				t.Errorf("Open() error = %v, want ErrHardwareInit", err)
			}
			if err == nil {
				m.Close()
			}
		})
	}
}

func TestOpenReleasesLinesOnFailure(t *testing.T) {
	b := newBus(BonnetPins)
	b.failOn = BonnetPins.LAT

	_, err := Open(Config{Width: 64, Height: 32, BitDepth: 1, Brightness: 255, Pins: BonnetPins}, b.request)
	if !errors.Is(err, types.ErrHardwareInit) {
		t.Fatalf("Open() error = %v, want ErrHardwareInit", err)
	}
	for _, offset := range []int{BonnetPins.R1, BonnetPins.CLK, BonnetPins.OE} {
		if !b.closed[offset] {
			t.Errorf("line %d was not released", offset)
		}
	}
}

func TestScanFrame(t *testing.T) {
	m, b := newTestMatrix(t, Config{Width: 4, Height: 4, BitDepth: 1, Brightness: 255})

	m.SetPixel(1, 0, color.RGBA{255, 0, 0, 255})
	m.SetPixel(2, 3, color.RGBA{0, 0, 200, 255})
	m.SetPixel(3, 1, color.RGBA{0, 100, 0, 255}) // below the single plane's threshold

	// nothing reaches the panel before Show
	if err := m.scanFrame(); err != nil {
		t.Fatalf("scanFrame() error = %v", err)
	}
	for _, l := range b.latched {
		for col, px := range l.data {
			if px != [6]int{} {
				t.Fatalf("row %d col %d lit before Show: %v", l.row, col, px)
			}
		}
	}
	b.latched = nil

	m.Show()
	if err := m.scanFrame(); err != nil {
		t.Fatalf("scanFrame() error = %v", err)
	}

	if len(b.latched) != 2 {
		t.Fatalf("latched %d rows, want 2", len(b.latched))
	}
	want := []latch{
		{row: 0, data: [][6]int{{}, {1, 0, 0, 0, 0, 0}, {}, {}}},
		{row: 1, data: [][6]int{{}, {}, {0, 0, 0, 0, 0, 1}, {}}},
	}
	for i, l := range b.latched {
		if l.row != want[i].row {
			t.Errorf("latch %d row = %d, want %d", i, l.row, want[i].row)
		}
		if len(l.data) != 4 {
			t.Fatalf("latch %d shifted %d columns, want 4", i, len(l.data))
		}
		for col := range l.data {
			if l.data[col] != want[i].data[col] {
				t.Errorf("row %d col %d = %v, want %v", l.row, col, l.data[col], want[i].data[col])
			}
		}
	}
	if b.state[BonnetPins.OE] != 1 {
		t.Error("output left enabled after the frame")
	}
}

func TestScanFrameBitPlanes(t *testing.T) {
	m, b := newTestMatrix(t, Config{Width: 1, Height: 2, BitDepth: 4, Brightness: 255})
	var holds []time.Duration
	m.hold = func(d time.Duration) { holds = append(holds, d) }

	// 0xa0 = 1010 in the top nibble
	m.SetPixel(0, 0, color.RGBA{0xa0, 0, 0, 255})
	m.Show()
	if err := m.scanFrame(); err != nil {
		t.Fatalf("scanFrame() error = %v", err)
	}

	var reds []int
	for _, l := range b.latched {
		reds = append(reds, l.data[0][0])
	}
	if want := []int{1, 0, 1, 0}; len(reds) != 4 || reds[0] != want[0] || reds[1] != want[1] || reds[2] != want[2] || reds[3] != want[3] {
		t.Errorf("planes = %v, want %v", reds, want)
	}
	for i := 1; i < len(holds); i++ {
		if holds[i-1] != 2*holds[i] {
			t.Errorf("plane hold times %v are not binary weighted", holds)
			break
		}
	}
}

func TestBrightness(t *testing.T) {
	m, _ := newTestMatrix(t, Config{Width: 2, Height: 2, BitDepth: 8, Brightness: 128})
	m.SetPixel(0, 0, color.RGBA{255, 255, 0, 255})
	if got := m.back[0]; got.R != 128 || got.G != 128 || got.B != 0 {
		t.Errorf("scaled pixel = %v, want R=G=128", got)
	}
	if err := m.SetPixel(2, 0, color.White); err == nil {
		t.Error("SetPixel() out of bounds did not return error")
	}
}

func TestStartClose(t *testing.T) {
	m, b := newTestMatrix(t, Config{Width: 4, Height: 4, BitDepth: 2, Brightness: 255})
	m.Start()
	m.Start()
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for sig, offset := range BonnetPins.offsets() {
		if !b.closed[offset] {
			t.Errorf("signal %d (GPIO %d) not released", sig, offset)
		}
	}
}

func TestCloseReportsBlankFailure(t *testing.T) {
	m, b := newTestMatrix(t, Config{Width: 4, Height: 4, BitDepth: 1, Brightness: 255})
	b.stuck = BonnetPins.OE

	if err := m.Close(); err == nil {
		t.Error("Close() did not report the failed output disable")
	}
	for _, offset := range BonnetPins.offsets() {
		if !b.closed[offset] {
			t.Errorf("GPIO %d not released", offset)
		}
	}
}

type nopLine struct{}

func (nopLine) SetValue(int) error { return nil }
func (nopLine) Close() error       { return nil }

func TestScanFrameDoesNotAllocate(t *testing.T) {
	m, err := Open(Config{Width: 64, Height: 32, BitDepth: 4, Brightness: 255, Pins: BonnetPins},
		func(int) (Line, error) { return nopLine{}, nil })
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()
	m.hold = func(time.Duration) {}
	m.SetPixel(3, 3, color.White)
	m.Show()

	allocs := testing.AllocsPerRun(10, func() {
		if err := m.scanFrame(); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Errorf("scanFrame() allocated %v times per pass, want 0", allocs)
	}
}
