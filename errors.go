package gamepads

import (
	"errors"
	"fmt"
)

const (
	ErrOsNotSupported      = "os is not supported (yet)"
	ErrDeviceNotJoystick   = "device '%s' is not a joystick"
	ErrShortRead           = "short read from '%s': %d of %d bytes"
	ErrAxisCountOutOfRange = "axis count %d out of range [1, %d]"
)

var (
	// ErrIndexOutOfRange is matched by a ValidationError for a button or axis
	// index beyond the state's capacity.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnknownEventType is returned by a fold of an event that is neither
	// a button nor an axis event.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrSourceFailure is matched by every SourceError.
	ErrSourceFailure = errors.New("event source failure")

	// ErrSourceInUse is returned by Create if another AsyncState already owns
	// the source.
	ErrSourceInUse = errors.New("event source already in use")

	// ErrStopPolling may be returned by a poller action to stop the poller
	// cleanly.
	ErrStopPolling = errors.New("stop polling")

	ErrPollerStarted    = errors.New("poller already started")
	ErrPollerNotStarted = errors.New("poller not started")
	ErrClosed           = errors.New("async state already closed")
)

// ValidationError reports an event rejected by a fold.
type ValidationError struct {
	Event Event
	// Limit is the exclusive upper bound the index was checked against.
	Limit int
}

func (e *ValidationError) Error() string {
	kind := "axis"
	if e.Event.IsButton() {
		kind = "button"
	}
	return fmt.Sprintf("%s index %d: %v (limit %d)", kind, e.Event.Index, ErrIndexOutOfRange, e.Limit)
}

func (e *ValidationError) Unwrap() error { return ErrIndexOutOfRange }

// SourceError wraps an unrecoverable error reported by a Source.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSourceFailure, e.Err)
}

func (e *SourceError) Unwrap() []error { return []error{ErrSourceFailure, e.Err} }
