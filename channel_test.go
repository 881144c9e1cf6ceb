package gamepads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *EventChannel) (events []Event) {
	for {
		select {
		case e, ok := <-c.C:
			if !ok {
				return
			}
			events = append(events, e)
		default:
			return
		}
	}
}

func TestTap_filters(t *testing.T) {
	tap := NewTap()
	defer tap.Close()

	all := tap.Subscribe(context.Background(), 8)
	buttons := tap.Subscribe(context.Background(), 8, ButtonsOnly)
	liveAxes := tap.Subscribe(context.Background(), 8, AxesOnly, LiveOnly)

	events := []Event{
		ButtonEvent(0, true, 1).Initial(),
		AxisEvent(1, 100, 1).Initial(),
		ButtonEvent(0, false, 2),
		AxisEvent(1, -100, 3),
	}
	for _, e := range events {
		tap.Publish(e)
	}

	assert.Equal(t, events, drain(all))
	assert.Equal(t, []Event{events[0], events[2]}, drain(buttons))
	assert.Equal(t, []Event{events[3]}, drain(liveAxes))
}

func TestTap_dropsWhenFull(t *testing.T) {
	tap := NewTap()
	defer tap.Close()

	c := tap.Subscribe(context.Background(), 2)
	for i := 0; i < 5; i++ {
		tap.Publish(AxisEvent(0, int16(i), uint32(i)))
	}
	assert.Equal(t, uint64(3), c.Dropped())
	assert.Equal(t, []Event{AxisEvent(0, 0, 0), AxisEvent(0, 1, 1)}, drain(c))
}

func TestTap_contextCancel(t *testing.T) {
	tap := NewTap()
	defer tap.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := tap.Subscribe(ctx, 1)
	cancel()

	select {
	case _, ok := <-c.C:
		assert.False(t, ok)
	case <-time.After(eventually):
		t.Fatal(`channel not closed on cancel`)
	}

	// unsubscribed, so publishing neither blocks nor counts drops
	tap.Publish(ButtonEvent(1, true, 1))
	tap.Publish(ButtonEvent(1, true, 1))
	assert.Zero(t, c.Dropped())
	c.Close()
}

func TestEventChannel_close(t *testing.T) {
	tap := NewTap()
	defer tap.Close()

	a := tap.Subscribe(context.Background(), 1)
	b := tap.Subscribe(context.Background(), 1)
	a.Close()
	a.Close()

	tap.Publish(ButtonEvent(2, true, 9))
	_, ok := <-a.C
	assert.False(t, ok)
	assert.Equal(t, []Event{ButtonEvent(2, true, 9)}, drain(b))
}

func TestTap_close(t *testing.T) {
	tap := NewTap()
	c := tap.Subscribe(context.Background(), 1)
	tap.Close()

	_, ok := <-c.C
	require.False(t, ok)
	c.Close()

	late := tap.Subscribe(context.Background(), 1)
	_, ok = <-late.C
	assert.False(t, ok, "subscribing to a closed tap returns a closed channel")
	late.Close()

	tap.Publish(ButtonEvent(0, true, 1))
}

func TestTap_nilPublish(t *testing.T) {
	var tap *Tap
	assert.NotPanics(t, func() { tap.Publish(ButtonEvent(0, true, 1)) })
}
