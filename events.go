package gamepads

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ControlType is the type byte of a joystick event, as reported by the
// kernel joystick interface.
type ControlType uint8

const (
	Button       ControlType = 0x01
	Axes         ControlType = 0x02
	InitialState ControlType = 0x80
)

// EventSize is the size of one encoded event record (struct js_event).
const EventSize = 8

// Event is a single button or axis change.
//
// Exactly one of Button or Axes is set in Type. InitialState may be set in
// addition, marking a synthetic event that describes the device at connect
// time rather than a live change.
type Event struct {
	// Timestamp in milliseconds, as reported by the device.
	Timestamp uint32
	// Value is the axis position, or non-zero for a pressed button.
	Value int16
	Type  ControlType
	Index uint8
}

// ButtonEvent returns a live button event.
func ButtonEvent(index uint8, pressed bool, timestamp uint32) Event {
	e := Event{Timestamp: timestamp, Type: Button, Index: index}
	if pressed {
		e.Value = 1
	}
	return e
}

// AxisEvent returns a live axis event.
func AxisEvent(index uint8, value int16, timestamp uint32) Event {
	return Event{Timestamp: timestamp, Type: Axes, Index: index, Value: value}
}

// Initial returns a copy of e flagged as a connect-time event.
func (e Event) Initial() Event {
	e.Type |= InitialState
	return e
}

func (e Event) IsButton() bool { return e.Type&^InitialState == Button }

func (e Event) IsAxis() bool { return e.Type&^InitialState == Axes }

func (e Event) IsInitial() bool { return e.Type&InitialState != 0 }

// Pressed reports whether a button event describes a pressed button.
func (e Event) Pressed() bool { return e.Value != 0 }

// String formats the event for display, e.g.
//
//	button [03] ->      1 at time 1.234s
func (e Event) String() string {
	var kind string
	switch {
	case e.IsButton():
		kind = "button"
	case e.IsAxis():
		kind = "axis  "
	default:
		kind = fmt.Sprintf("0x%02x  ", uint8(e.Type))
	}
	return fmt.Sprintf("%s [%.2d] -> %6d at time %.3fs", kind, e.Index, e.Value, float64(e.Timestamp)/1000)
}

// MarshalBinary encodes the event in the kernel's little endian record
// layout: time (4) | value (2) | type (1) | number (1).
func (e Event) MarshalBinary() ([]byte, error) {
	b := make([]byte, EventSize)
	e.put(b)
	return b, nil
}

// UnmarshalBinary decodes a single event record.
func (e *Event) UnmarshalBinary(data []byte) error {
	if len(data) < EventSize {
		return io.ErrUnexpectedEOF
	}
	e.Timestamp = binary.LittleEndian.Uint32(data[0:4])
	e.Value = int16(binary.LittleEndian.Uint16(data[4:6]))
	e.Type = ControlType(data[6])
	e.Index = data[7]
	return nil
}

func (e Event) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], e.Timestamp)
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.Value))
	b[6] = byte(e.Type)
	b[7] = e.Index
}
