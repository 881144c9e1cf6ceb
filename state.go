package gamepads

import "fmt"

const (
	// MaxButtons is the width of the Buttons bitset.
	MaxButtons = 32

	// MaxAxes is the largest axis count a State can hold, matching the
	// joystick interface's axis map.
	MaxAxes = 64

	// DefaultAxes is the axis count used when none is configured.
	DefaultAxes = 8
)

// Buttons is a bitset, bit i is set iff button i is pressed.
type Buttons uint32

// Pressed reports whether button i is pressed.
func (b Buttons) Pressed(i int) bool {
	return i >= 0 && i < MaxButtons && b&(1<<uint(i)) != 0
}

// State is the aggregate of every event folded so far. It is a plain value,
// copying a State copies all of it.
type State struct {
	Axes [MaxAxes]int16
	// Time of the most recent successful fold.
	Time    uint32
	Buttons Buttons
	// AxisCount limits valid axis indices, 0 means DefaultAxes.
	AxisCount uint8
}

// NewState returns a zero state accepting the given number of axes.
func NewState(axes int) (State, error) {
	if axes < 1 || axes > MaxAxes {
		return State{}, fmt.Errorf(ErrAxisCountOutOfRange, axes, MaxAxes)
	}
	return State{AxisCount: uint8(axes)}, nil
}

// NumAxes returns the number of valid axis slots.
func (s State) NumAxes() int {
	if s.AxisCount == 0 {
		return DefaultAxes
	}
	return int(s.AxisCount)
}

// AxisValues returns the valid axis slots. The slice is backed by a copy.
func (s State) AxisValues() []int16 {
	return s.Axes[:s.NumAxes()]
}

// Fold merges one event into the state. A rejected event leaves the state
// exactly as it was, including Time.
//
// Folding is last-write-wins, so applying the same event twice is the same
// as applying it once.
func (s State) Fold(e Event) (State, error) {
	switch {
	case e.IsButton():
		if int(e.Index) >= MaxButtons {
			return s, &ValidationError{Event: e, Limit: MaxButtons}
		}
		if e.Pressed() {
			s.Buttons |= 1 << e.Index
		} else {
			s.Buttons &^= 1 << e.Index
		}

	case e.IsAxis():
		if n := s.NumAxes(); int(e.Index) >= n {
			return s, &ValidationError{Event: e, Limit: n}
		}
		s.Axes[e.Index] = e.Value

	default:
		return s, fmt.Errorf("type 0x%02x: %w", uint8(e.Type), ErrUnknownEventType)
	}

	s.Time = e.Timestamp
	return s, nil
}
