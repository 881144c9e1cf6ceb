//go:build !linux

package gamepads

import (
	"context"
	"errors"
)

// Device is a joystick device node. Only Linux is supported.
type Device struct{}

// OpenDevice is not supported on this platform.
func OpenDevice(path string) (*Device, error) {
	return nil, errors.New(ErrOsNotSupported)
}

func (d *Device) Path() string { return `` }

func (d *Device) SourceID() string { return `` }

func (d *Device) Poll() (Event, bool, error) {
	return Event{}, false, errors.New(ErrOsNotSupported)
}

func (d *Device) Properties() (Properties, error) {
	return Properties{}, errors.New(ErrOsNotSupported)
}

func (d *Device) Close() error { return nil }

func ListDevices() ([]string, error) {
	return nil, errors.New(ErrOsNotSupported)
}

func WaitForDevice(ctx context.Context, path string) error {
	return errors.New(ErrOsNotSupported)
}
