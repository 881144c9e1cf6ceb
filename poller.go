package gamepads

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// PollerState is the run state of a Poller.
type PollerState int32

const (
	// PollerIdle means Start has not been called.
	PollerIdle PollerState = iota
	// PollerRunning means the worker is polling.
	PollerRunning
	// PollerStopping means a stop was requested, but the worker may still be
	// finishing an iteration.
	PollerStopping
	// PollerStopped is terminal, the worker has exited or is about to.
	PollerStopped
)

func (s PollerState) String() string {
	switch s {
	case PollerIdle:
		return "idle"
	case PollerRunning:
		return "running"
	case PollerStopping:
		return "stopping"
	case PollerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Action handles one event on the poller's goroutine. Returning
// ErrStopPolling stops the poller cleanly, any other error stops it with
// that error.
type Action func(e Event) error

// Poller drains a Source on a dedicated goroutine, passing each event to an
// Action.
type Poller struct {
	source   Source
	action   Action
	logger   *logiface.Logger[logiface.Event]
	stop     chan struct{}
	done     chan struct{}
	err      error // set before done is closed
	interval time.Duration
	stopOnce sync.Once
	state    atomic.Int32
}

// NewPoller returns an idle poller. It panics if source or action is nil.
func NewPoller(source Source, action Action, options ...Option) *Poller {
	if source == nil {
		panic(`gamepads: nil source`)
	}
	if action == nil {
		panic(`gamepads: nil action`)
	}
	c := resolveConfig(options)
	return &Poller{
		source:   source,
		action:   action,
		logger:   c.logger,
		interval: c.interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start spawns the worker goroutine. It may be called once.
func (p *Poller) Start() error {
	if !p.state.CompareAndSwap(int32(PollerIdle), int32(PollerRunning)) {
		return ErrPollerStarted
	}
	p.logger.Debug().Dur(`interval`, p.interval).Log(`poller started`)
	go p.run()
	return nil
}

// RequestStop asks a running worker to exit, without waiting for it.
func (p *Poller) RequestStop() {
	if p.state.CompareAndSwap(int32(PollerRunning), int32(PollerStopping)) {
		p.stopOnce.Do(func() { close(p.stop) })
	}
}

// Join waits for the worker to exit. It returns nil if the worker stopped
// cleanly, or the failure that ended it.
func (p *Poller) Join() error {
	if p.State() == PollerIdle {
		return ErrPollerNotStarted
	}
	<-p.done
	return p.err
}

// State returns the current run state.
func (p *Poller) State() PollerState { return PollerState(p.state.Load()) }

// Done is closed once the worker has exited.
func (p *Poller) Done() <-chan struct{} { return p.done }

// Err returns the failure that ended the worker, or nil if it is still
// running or stopped cleanly.
func (p *Poller) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *Poller) run() {
	defer close(p.done)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	var events int
	for p.State() != PollerStopping {
		e, ok, err := p.source.Poll()
		if err != nil {
			p.exit(&SourceError{Err: err}, events)
			return
		}

		if !ok {
			timer.Reset(p.interval)
			select {
			case <-p.stop:
			case <-timer.C:
			}
			continue
		}

		events++
		if err := p.action(e); err != nil {
			if errors.Is(err, ErrStopPolling) {
				err = nil
			}
			p.exit(err, events)
			return
		}
	}

	p.exit(nil, events)
}

func (p *Poller) exit(err error, events int) {
	p.err = err
	p.state.Store(int32(PollerStopped))
	if err != nil {
		p.logger.Err().Err(err).Int(`events`, events).Log(`poller failed`)
		return
	}
	p.logger.Debug().Int(`events`, events).Log(`poller stopped`)
}
