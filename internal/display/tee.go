package display

import "errors"

// Tee shows every frame on several devices
type Tee []Device

// Show shows the frame on all devices, even when one of them fails
func (t Tee) Show(frame Frame) error {
	var errs []error
	for _, d := range t {
		if err := d.Show(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all devices
func (t Tee) Close() error {
	var errs []error
	for _, d := range t {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
