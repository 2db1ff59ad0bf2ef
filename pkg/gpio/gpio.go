package gpio

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Root is the sysfs GPIO class directory.
var Root = "/sys/class/gpio"

// exportDelay gives udev time to create the pin directory after export.
var exportDelay = 100 * time.Millisecond

// Pin represents a GPIO pin using the sysfs interface
type Pin struct {
	number int
	value  *os.File
	mu     sync.Mutex
}

// NewPin exports the pin, makes it an output driven low and keeps its value
// file open for fast writes.
func NewPin(number int) (*Pin, error) {
	if err := exportPin(number); err != nil {
		// Ignore "device or resource busy" error, as it might already be exported
		if !errors.Is(err, os.ErrExist) && !errors.Is(err, errBusy) {
			return nil, fmt.Errorf("failed to export pin %d: %w", number, err)
		}
		log.Printf("Pin %d may already be exported, continuing...", number)
	}

	time.Sleep(exportDelay)

	if err := writeFile(pinPath(number, "direction"), "low"); err != nil {
		return nil, fmt.Errorf("failed to set pin %d direction: %w", number, err)
	}

	f, err := os.OpenFile(pinPath(number, "value"), os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open pin %d value: %w", number, err)
	}

	return &Pin{
		number: number,
		value:  f,
	}, nil
}

// Number returns the GPIO number.
func (p *Pin) Number() int {
	return p.number
}

// Close closes the value file and unexports the pin
func (p *Pin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.value == nil {
		return nil
	}
	err := p.value.Close()
	p.value = nil

	if uerr := writeFile(filepath.Join(Root, "unexport"), strconv.Itoa(p.number)); uerr != nil {
		// the pin might already be cleaned up
		log.Printf("Warning: failed to unexport pin %d: %v", p.number, uerr)
	}
	return err
}

// SetValue sets the value of the GPIO pin (0 or 1)
func (p *Pin) SetValue(value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.value == nil {
		return fmt.Errorf("pin %d is closed", p.number)
	}
	b := []byte{'0'}
	if value != 0 {
		b[0] = '1'
	}
	if _, err := p.value.WriteAt(b, 0); err != nil {
		return fmt.Errorf("failed to write pin %d: %w", p.number, err)
	}
	return nil
}

// GetValue gets the value of the GPIO pin (0 or 1)
func (p *Pin) GetValue() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(pinPath(p.number, "value"))
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("pin %d: empty value", p.number)
	}
	return int(data[0] - '0'), nil
}

// Helper functions for sysfs GPIO control

var errBusy = errors.New("device or resource busy")

func exportPin(number int) error {
	err := writeFile(filepath.Join(Root, "export"), strconv.Itoa(number))
	var perr *os.PathError
	if errors.As(err, &perr) && perr.Err.Error() == errBusy.Error() {
		return errBusy
	}
	return err
}

func pinPath(number int, name string) string {
	return filepath.Join(Root, fmt.Sprintf("gpio%d", number), name)
}

func writeFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}
