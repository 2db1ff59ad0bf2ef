package hub75

import (
	"github.com/warthog618/go-gpiocdev"

	"github.com/fkcurrie/hub75-animloop/pkg/gpio"
)

// Line is a single GPIO output.
type Line interface {
	SetValue(value int) error
	Close() error
}

// Requester claims a GPIO line as an output driven low.
type Requester func(offset int) (Line, error)

// CdevRequester requests lines from a GPIO character device such as
// "gpiochip0".
func CdevRequester(chip string) Requester {
	return func(offset int) (Line, error) {
		return gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	}
}

// SysfsRequester drives lines through the legacy /sys/class/gpio
// interface, for kernels without the character device.
func SysfsRequester() Requester {
	return func(offset int) (Line, error) {
		return gpio.NewPin(offset)
	}
}

// Pins maps the HUB75 signals to GPIO offsets.
type Pins struct {
	R1, G1, B1 int // upper half data
	R2, G2, B2 int // lower half data
	CLK        int
	OE         int
	LAT        int
	A, B, C, D int
	E          int // only used by 64 row panels
}

// BonnetPins is the Adafruit RGB Matrix Bonnet pinout.
var BonnetPins = Pins{
	R1: 5, G1: 13, B1: 6,
	R2: 12, G2: 16, B2: 23,
	CLK: 17, OE: 4, LAT: 21,
	A: 22, B: 26, C: 27, D: 20, E: 24,
}

// signal indexes Matrix.lines.
type signal int

const (
	sigR1 signal = iota
	sigG1
	sigB1
	sigR2
	sigG2
	sigB2
	sigCLK
	sigOE
	sigLAT
	sigA
	sigB
	sigC
	sigD
	sigE
	numSignals
)

// offsets returns the GPIO offset of every signal, indexed by signal.
func (p Pins) offsets() [numSignals]int {
	return [numSignals]int{
		p.R1, p.G1, p.B1,
		p.R2, p.G2, p.B2,
		p.CLK, p.OE, p.LAT,
		p.A, p.B, p.C, p.D, p.E,
	}
}
