package gamepads

import (
	"time"

	"github.com/joeycumines/logiface"
)

// DefaultPollInterval is how long the poller waits after finding no pending
// event, before polling again.
const DefaultPollInterval = 100 * time.Microsecond

type (
	// Option configures a Poller or an AsyncState. Options that do not apply
	// to the value being constructed are ignored.
	Option func(c *config)

	config struct {
		logger   *logiface.Logger[logiface.Event]
		tap      *Tap
		interval time.Duration
		axes     int
	}
)

func resolveConfig(options []Option) config {
	c := config{
		interval: DefaultPollInterval,
		axes:     DefaultAxes,
	}
	for _, o := range options {
		o(&c)
	}
	return c
}

// WithAxes sets the number of axes the state accepts, see also
// Properties.AxisCount.
func WithAxes(n int) Option {
	return func(c *config) { c.axes = n }
}

// WithPollInterval sets the wait after an empty poll. Non-positive values
// are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger, which may be nil.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(c *config) { c.logger = l }
}

// WithTap publishes every successfully folded event to t. Connect-time
// events are published only once Create has synchronised them all, so a
// failed Create publishes nothing.
func WithTap(t *Tap) Option {
	return func(c *config) { c.tap = t }
}
