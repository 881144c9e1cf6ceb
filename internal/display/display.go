// Package display renders gamepad state snapshots, either onto a terminal
// screen or as plain text.
package display

import (
	"fmt"
	"strings"

	gamepads "github.com/doingharm/go-gamepad-state"
)

// axesPerRow is how many axis values share a line before wrapping.
const axesPerRow = 8

// Frame is everything drawn in one refresh.
type Frame struct {
	Header string
	// Last is the most recent event, if HasLast.
	Last    gamepads.Event
	HasLast bool
	State   gamepads.State
	// Dropped counts events the display could not keep up with.
	Dropped uint64
}

// Renderer draws frames.
type Renderer interface {
	Draw(f Frame) error
}

// Lines returns the text of a frame, one entry per line.
func Lines(f Frame) []string {
	var lines []string
	if f.Header != `` {
		lines = append(lines, f.Header)
	}
	lines = append(lines, ButtonsLine(f.State.Buttons))
	lines = append(lines, AxesLines(f.State)...)
	if f.HasLast {
		lines = append(lines, `Last   : `+FormatEvent(f.Last))
	}
	if f.Dropped > 0 {
		lines = append(lines, fmt.Sprintf("Dropped: %d", f.Dropped))
	}
	return lines
}

// ButtonsLine formats every button as 0 or 1, in groups of four.
func ButtonsLine(b gamepads.Buttons) string {
	var sb strings.Builder
	sb.WriteString(`Buttons: `)
	for i := 0; i < gamepads.MaxButtons; i++ {
		if b.Pressed(i) {
			sb.WriteString(`1 `)
		} else {
			sb.WriteString(`0 `)
		}
		if i%4 == 3 && i != gamepads.MaxButtons-1 {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimRight(sb.String(), ` `)
}

// AxesLines formats the tracked axes, wrapping after every eight values.
func AxesLines(s gamepads.State) []string {
	values := s.AxisValues()
	var lines []string
	for start := 0; start < len(values); start += axesPerRow {
		end := min(start+axesPerRow, len(values))
		var sb strings.Builder
		if start == 0 {
			sb.WriteString(`Axes   : `)
		} else {
			sb.WriteString(`         `)
		}
		for _, v := range values[start:end] {
			fmt.Fprintf(&sb, "%-7d  ", v)
		}
		lines = append(lines, strings.TrimRight(sb.String(), ` `))
	}
	return lines
}

// FormatEvent formats e like "button [03] ->      1 at time 1.234s".
func FormatEvent(e gamepads.Event) string { return e.String() }
