//go:build linux

package gamepads

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	gpName       = 0x80006a13 + (128 << 16)
	gpAxes       = 0x80016a11
	gpButtons    = 0x80016a12
	gpVersion    = 0x80046a01
	gpAxesMap    = 0x80406a32
	gpButtonsMap = 0x84006a34
	// gpCorrectionValues = 0x80406a22
)

// Device is a joystick device node, e.g. /dev/input/js0, opened for
// non-blocking reads. It implements Source.
type Device struct {
	mu     sync.Mutex
	path   string
	fd     int
	closed bool
	buf    [EventSize]byte
}

// OpenDevice opens the joystick device at path.
func OpenDevice(path string) (*Device, error) {
	fd, err := openFilePersistent(path)
	if err != nil {
		return nil, err
	}
	return &Device{path: path, fd: fd}, nil
}

func (d *Device) Path() string { return d.path }

// SourceID returns the device path.
func (d *Device) SourceID() string { return d.path }

// Poll reads one event, if one is pending.
func (d *Device) Poll() (Event, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return Event{}, false, os.ErrClosed
	}

	n, err := unix.Read(d.fd, d.buf[:])
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return Event{}, false, nil
	case err != nil:
		return Event{}, false, &os.PathError{Op: `read`, Path: d.path, Err: err}
	case n == 0:
		return Event{}, false, nil
	case n < EventSize:
		return Event{}, false, fmt.Errorf(ErrShortRead, d.path, n, EventSize)
	}

	var e Event
	_ = e.UnmarshalBinary(d.buf[:])
	return e, true, nil
}

// Properties queries the device's name, driver version, counts and maps.
func (d *Device) Properties() (Properties, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return Properties{}, os.ErrClosed
	}

	var (
		name       [128]byte
		version    int32
		buttons    uint8
		axes       uint8
		axesMap    [64]uint8
		buttonsMap [512]uint16
	)
	if err := ioctl(d.fd, gpName, unsafe.Pointer(&name[0])); err != nil {
		return Properties{}, d.ioctlError(`name`, err)
	}
	if err := ioctl(d.fd, gpVersion, unsafe.Pointer(&version)); err != nil {
		return Properties{}, d.ioctlError(`version`, err)
	}
	if err := ioctl(d.fd, gpButtons, unsafe.Pointer(&buttons)); err != nil {
		return Properties{}, d.ioctlError(`buttons`, err)
	}
	if err := ioctl(d.fd, gpAxes, unsafe.Pointer(&axes)); err != nil {
		return Properties{}, d.ioctlError(`axes`, err)
	}
	if err := ioctl(d.fd, gpAxesMap, unsafe.Pointer(&axesMap)); err != nil {
		return Properties{}, d.ioctlError(`axes map`, err)
	}
	if err := ioctl(d.fd, gpButtonsMap, unsafe.Pointer(&buttonsMap)); err != nil {
		return Properties{}, d.ioctlError(`buttons map`, err)
	}

	return Properties{
		Path:          d.path,
		Name:          escapeString(name[:]),
		DriverVersion: version,
		Buttons:       int(buttons),
		Axes:          int(axes),
		ButtonMap:     parseButtonsMap(buttonsMap[:], int(buttons)),
		AxisMap:       parseAxesMap(axesMap[:], int(axes)),
	}, nil
}

// Close closes the device. Polling a closed device fails.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return unix.Close(d.fd)
}

func (d *Device) ioctlError(what string, err error) error {
	if err == unix.ENOTTY || err == unix.EINVAL {
		return fmt.Errorf(ErrDeviceNotJoystick+`: %w`, d.path, err)
	}
	return fmt.Errorf(`query %s of '%s': %w`, what, d.path, err)
}

func ioctl(fd int, req uintptr, dest unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(dest))
	if errno != 0 {
		return errno
	}
	return nil
}
