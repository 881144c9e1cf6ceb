//go:build linux

package gamepads

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// openFilePersistent opens path for non-blocking reads. Permission errors
// are retried for a short while, since udev may still be adjusting the
// permissions of a node that has just appeared.
func openFilePersistent(path string) (fd int, err error) {
	for i := 0; i < 5; i++ {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			return fd, nil
		}
		if !errors.Is(err, unix.EACCES) && !errors.Is(err, unix.EPERM) {
			break
		}
		if i < 4 {
			timer := time.NewTimer(200 * time.Millisecond)
			<-timer.C
			timer.Stop()
		}
	}
	return -1, &os.PathError{Op: `open`, Path: path, Err: err}
}
