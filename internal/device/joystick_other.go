//go:build !linux

package device

import (
	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// Open implements Reader.
func (j *Joystick) Open() error {
	return errors.NewDeviceError("joystick devices require linux; use --simulate", errors.ErrDeviceUnavailable).
		WithPath(j.path)
}

// Read implements Reader.
func (j *Joystick) Read() (record.Sample, error) {
	return record.Sample{}, errors.NewDeviceError("device not open", errors.ErrReadFailure).WithPath(j.path)
}

// Close implements Reader.
func (j *Joystick) Close() error {
	return nil
}
