package gamepads

import (
	"context"
	"sync"
	"sync/atomic"
)

// FilterFunc decides whether an event is delivered to an EventChannel.
type FilterFunc func(e Event) bool

// ButtonsOnly passes button events.
func ButtonsOnly(e Event) bool { return e.IsButton() }

// AxesOnly passes axis events.
func AxesOnly(e Event) bool { return e.IsAxis() }

// LiveOnly passes events that are not connect-time events.
func LiveOnly(e Event) bool { return !e.IsInitial() }

// Tap fans folded events out to subscribers, e.g. for a live event display.
// Publishing never blocks: a subscriber that falls behind loses events,
// which are counted.
type Tap struct {
	mu       sync.RWMutex
	channels []*EventChannel
	closed   bool
}

// EventChannel receives events from a Tap until it is closed.
type EventChannel struct {
	// C is closed once the channel is closed.
	C <-chan Event

	ch      chan Event
	tap     *Tap
	filters []FilterFunc
	stop    func() bool
	dropped atomic.Uint64
	closed  bool // guarded by tap.mu
}

func NewTap() *Tap { return &Tap{} }

// Subscribe returns a channel buffering up to buffer events, which passes
// every filter. It is closed when ctx is done, on EventChannel.Close, or
// on Tap.Close.
func (t *Tap) Subscribe(ctx context.Context, buffer int, filters ...FilterFunc) *EventChannel {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Event, buffer)
	dest := &EventChannel{
		C:       ch,
		ch:      ch,
		tap:     t,
		filters: filters,
	}

	t.mu.Lock()
	if t.closed {
		dest.closed = true
		close(ch)
		t.mu.Unlock()
		return dest
	}
	t.channels = append(t.channels, dest)
	dest.stop = context.AfterFunc(ctx, dest.Close)
	t.mu.Unlock()
	return dest
}

// Publish delivers e to every subscriber that accepts it. A nil Tap
// discards the event.
func (t *Tap) Publish(e Event) {
	if t == nil {
		return
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, c := range t.channels {
		if !c.accepts(e) {
			continue
		}
		select {
		case c.ch <- e:
		default:
			c.dropped.Add(1)
		}
	}
}

// Close closes every subscribed channel. Later subscriptions are returned
// already closed.
func (t *Tap) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for _, c := range t.channels {
		c.stop()
		c.closeLocked()
	}
	t.channels = nil
}

// Close unsubscribes the channel and closes C. It is safe to call more
// than once.
func (c *EventChannel) Close() {
	c.tap.mu.Lock()
	defer c.tap.mu.Unlock()
	if c.stop != nil {
		c.stop()
	}
	if c.closed {
		return
	}
	c.closeLocked()
	clean := c.tap.channels[:0]
	for _, other := range c.tap.channels {
		if other != c {
			clean = append(clean, other)
		}
	}
	c.tap.channels = clean
}

// Dropped returns the number of events lost because the buffer was full.
func (c *EventChannel) Dropped() uint64 { return c.dropped.Load() }

func (c *EventChannel) accepts(e Event) bool {
	for _, filter := range c.filters {
		if !filter(e) {
			return false
		}
	}
	return true
}

func (c *EventChannel) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}
