//go:build linux

package gamepads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	inputPath = "/dev/input"

	// waitPollMillis bounds how long WaitForDevice blocks in poll(2) before
	// checking its context again.
	waitPollMillis = 100
)

// ListDevices returns the paths of the joystick nodes currently present in
// /dev/input, sorted.
func ListDevices() ([]string, error) {
	return listDevices(inputPath)
}

func listDevices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if isJoystickName(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// WaitForDevice blocks until a node exists at path, e.g. until a gamepad is
// plugged in, or ctx is done. The parent directory is watched with inotify.
func WaitForDevice(ctx context.Context, path string) error {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("inotify init failed: %w", err)
	}
	defer func() { _ = unix.Close(fd) }()

	dir, name := filepath.Split(path)
	if dir == `` {
		dir = `.`
	}
	if _, err = unix.InotifyAddWatch(fd, dir, unix.IN_CREATE|unix.IN_ATTRIB|unix.IN_MOVED_TO); err != nil {
		return fmt.Errorf("inotify add watch failed: %w", err)
	}

	// checked after the watch is in place, so a node created in between is
	// not missed
	if _, err = os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	buf := make([]byte, 4096)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		if _, err = unix.Poll(fds, waitPollMillis); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll failed: %w", err)
		}

		n, err := unix.Read(fd, buf)
		if err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		for offset := 0; offset+unix.SizeofInotifyEvent <= n; {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			start := offset + unix.SizeofInotifyEvent
			end := start + int(event.Len)
			if end > n {
				break
			}
			if escapeString(buf[start:end]) == name {
				return nil
			}
			offset = end
		}
	}
}
