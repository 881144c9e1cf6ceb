package gamepads

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// AsyncState keeps the State of a device current, folding events on a
// background Poller while any number of goroutines call Query.
//
// Only one AsyncState may own a source at a time, Create returns
// ErrSourceInUse otherwise.
type AsyncState struct {
	poller  *Poller
	logger  *logiface.Logger[logiface.Event]
	tap     *Tap
	release func()
	mu      sync.Mutex
	state   State
	closed  atomic.Bool
}

// Create synchronises a fresh State with the source's connect-time events,
// then starts polling it in the background.
//
// Connect-time events are folded before the poller starts, so the first
// Query already reflects them. Synchronisation stops after the first event
// not flagged InitialState (which is folded too) or once no event is
// pending. A source or fold failure during synchronisation aborts Create.
func Create(source Source, options ...Option) (_ *AsyncState, err error) {
	if source == nil {
		panic(`gamepads: nil source`)
	}
	c := resolveConfig(options)

	state, err := NewState(c.axes)
	if err != nil {
		return nil, err
	}

	release, err := claim(source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	a := &AsyncState{
		logger:  c.logger,
		tap:     c.tap,
		release: release,
	}

	var synced []Event
	for {
		e, ok, perr := source.Poll()
		if perr != nil {
			return nil, fmt.Errorf(`baseline sync: %w`, &SourceError{Err: perr})
		}
		if !ok {
			break
		}
		if state, err = state.Fold(e); err != nil {
			return nil, fmt.Errorf(`baseline sync: %w`, err)
		}
		synced = append(synced, e)
		if !e.IsInitial() {
			break
		}
	}
	a.state = state

	// only published once the baseline is complete
	for _, e := range synced {
		a.tap.Publish(e)
	}

	a.logger.Debug().
		Int(`events`, len(synced)).
		Int(`axes`, state.NumAxes()).
		Log(`baseline sync complete`)

	a.poller = NewPoller(source, a.fold, options...)
	// a fresh poller always starts, the release above still covers it
	if err = a.poller.Start(); err != nil {
		return nil, err
	}

	return a, nil
}

// fold is the poller's action.
func (a *AsyncState) fold(e Event) error {
	a.mu.Lock()
	next, err := a.state.Fold(e)
	if err == nil {
		a.state = next
	}
	a.mu.Unlock()

	if err != nil {
		return err
	}
	a.tap.Publish(e)
	return nil
}

// Query returns a snapshot of the state. Once the poller has failed, the
// snapshot of the last successful fold is returned.
func (a *AsyncState) Query() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Running reports whether the poller is still folding events.
func (a *AsyncState) Running() bool {
	switch a.poller.State() {
	case PollerRunning, PollerStopping:
		return true
	default:
		return false
	}
}

// Done is closed once the poller has exited, after Close or a failure.
func (a *AsyncState) Done() <-chan struct{} { return a.poller.Done() }

// Err returns the failure that stopped the poller, if any.
func (a *AsyncState) Err() error { return a.poller.Err() }

// Close stops the poller, waits for it, and releases the source. The
// source is released even if the poller had failed, in which case that
// failure is returned. The source itself is not closed.
func (a *AsyncState) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	defer a.release()

	a.poller.RequestStop()
	err := a.poller.Join()
	if err != nil {
		a.logger.Warning().Err(err).Log(`async state closed after poller failure`)
	} else {
		a.logger.Debug().Log(`async state closed`)
	}
	return err
}
