package gamepads

import "bytes"

// escapeString returns the NUL terminated string held in src.
func escapeString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return string(src)
}

// isJoystickName reports whether a device node name belongs to the joystick
// interface (js0, js1, ...).
func isJoystickName(name string) bool {
	if len(name) < 3 || name[:2] != `js` {
		return false
	}
	for _, r := range name[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseButtonsMap(mp []uint16, count int) (dest []int) {
	if count > len(mp) {
		count = len(mp)
	}
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}

func parseAxesMap(mp []uint8, count int) (dest []int) {
	if count > len(mp) {
		count = len(mp)
	}
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}
