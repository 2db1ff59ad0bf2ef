package display

import (
	"errors"
	"image/color"

	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// Tee mirrors every call to all of its matrices, e.g. a panel and the live
// preview. Dimensions are taken from the first one.
type Tee []types.Matrix

func (t Tee) Clear() error {
	var errs []error
	for _, m := range t {
		errs = append(errs, m.Clear())
	}
	return errors.Join(errs...)
}

func (t Tee) SetPixel(x, y int, c color.Color) error {
	for _, m := range t {
		if err := m.SetPixel(x, y, c); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Show() error {
	var errs []error
	for _, m := range t {
		errs = append(errs, m.Show())
	}
	return errors.Join(errs...)
}

func (t Tee) GetDimensions() (width, height int) {
	if len(t) == 0 {
		return 0, 0
	}
	return t[0].GetDimensions()
}

func (t Tee) Close() error {
	var errs []error
	for _, m := range t {
		errs = append(errs, m.Close())
	}
	return errors.Join(errs...)
}
