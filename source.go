package gamepads

import (
	"errors"
	"fmt"
	"io"
)

// Source yields discrete input events. Poll must not block: if no event is
// pending it returns ok == false and a nil error. A non-nil error is terminal,
// the source must not be polled again.
type Source interface {
	Poll() (e Event, ok bool, err error)
}

// Identifier may be implemented by a Source to name the underlying device,
// so that two handles to the same device are recognised as the same source.
type Identifier interface {
	SourceID() string
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (Event, bool, error)

func (f SourceFunc) Poll() (Event, bool, error) { return f() }

// StreamSource decodes event records from a reader. Reaching the end of the
// reader on a record boundary means no event is pending, so a StreamSource
// over a growing file or a non-blocking pipe keeps working as more records
// arrive.
type StreamSource struct {
	r   io.Reader
	id  string
	buf [EventSize]byte
	n   int
}

// NewStreamSource returns a Source reading records from r. The id, if not
// empty, is reported by SourceID.
func NewStreamSource(r io.Reader, id string) *StreamSource {
	return &StreamSource{r: r, id: id}
}

func (s *StreamSource) SourceID() string { return s.id }

func (s *StreamSource) Poll() (Event, bool, error) {
	for s.n < EventSize {
		n, err := s.r.Read(s.buf[s.n:])
		s.n += n
		if s.n == EventSize {
			// a full record may arrive together with io.EOF
			break
		}
		if err == nil && n > 0 {
			continue
		}
		if err == nil || errors.Is(err, io.EOF) {
			if s.n == 0 {
				return Event{}, false, nil
			}
			if err == nil {
				// partial record, wait for the rest
				return Event{}, false, nil
			}
			return Event{}, false, fmt.Errorf(ErrShortRead, s.id, s.n, EventSize)
		}
		return Event{}, false, err
	}
	var e Event
	_ = e.UnmarshalBinary(s.buf[:])
	s.n = 0
	return e, true, nil
}
