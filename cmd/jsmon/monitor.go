package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	gamepads "github.com/doingharm/go-gamepad-state"
	"github.com/doingharm/go-gamepad-state/internal/config"
	"github.com/doingharm/go-gamepad-state/internal/display"
)

const (
	displayBuffer = 256
	recordBuffer  = 4096
)

// errQuit ends the monitor when the user asks to.
var errQuit = errors.New(`quit`)

// source is an opened event source with its display header.
type source struct {
	gamepads.Source
	header string
	axes   int
	close  func() error
}

func (a *app) openSource(ctx context.Context, cfg config.Config) (*source, error) {
	if cfg.Replay != `` {
		f, err := os.Open(cfg.Replay)
		if err != nil {
			return nil, err
		}
		axes := cfg.Axes
		if axes == 0 {
			axes = gamepads.DefaultAxes
		}
		return &source{
			Source: gamepads.NewStreamSource(bufio.NewReader(f), cfg.Replay),
			header: fmt.Sprintf("replay of %s", cfg.Replay),
			axes:   axes,
			close:  f.Close,
		}, nil
	}

	if cfg.Wait {
		if cfg.WaitTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.WaitTimeout))
			defer cancel()
		}
		a.logger.Info().Str(`device`, cfg.Device).Log(`waiting for device`)
		if err := gamepads.WaitForDevice(ctx, cfg.Device); err != nil {
			return nil, fmt.Errorf("wait for %s: %w", cfg.Device, err)
		}
	}

	d, err := gamepads.OpenDevice(cfg.Device)
	if err != nil {
		return nil, err
	}
	props, err := d.Properties()
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	a.logger.Info().
		Str(`device`, props.Path).
		Str(`name`, props.Name).
		Int(`axes`, props.Axes).
		Int(`buttons`, props.Buttons).
		Log(`device opened`)

	axes := cfg.Axes
	if axes == 0 {
		axes = props.AxisCount()
	}
	return &source{
		Source: d,
		header: props.String(),
		axes:   axes,
		close:  d.Close,
	}, nil
}

// monitor shows the source's state until ctx is done, the user quits, or
// the source fails.
func (a *app) monitor(ctx context.Context, cfg config.Config) (err error) {
	src, err := a.openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = src.close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// subscriptions come first, so connect-time events are seen too
	tap := gamepads.NewTap()
	defer tap.Close()
	events := tap.Subscribe(ctx, displayBuffer)
	var recording *gamepads.EventChannel
	if cfg.Record != `` {
		recording = tap.Subscribe(ctx, recordBuffer)
	}

	state, err := gamepads.Create(src.Source,
		gamepads.WithAxes(src.axes),
		gamepads.WithPollInterval(time.Duration(cfg.PollInterval)),
		gamepads.WithLogger(a.logger),
		gamepads.WithTap(tap),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := state.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-state.Done():
			return state.Err()
		}
	})

	if recording != nil {
		g.Go(func() error { return record(gctx, cfg.Record, recording) })
	}

	switch {
	case cfg.ShowEvents:
		fmt.Fprintln(a.stdout, src.header)
		g.Go(func() error { return printEvents(gctx, a.stdout, events) })

	case cfg.Plain:
		last := &lastEvent{}
		g.Go(func() error { return last.track(gctx, events) })
		g.Go(func() error {
			return render(gctx, display.NewPlain(a.stdout), time.Duration(cfg.RefreshInterval), frames(src.header, state, last, events))
		})

	default:
		screen, err := display.OpenTerminal()
		if err != nil {
			return err
		}
		defer screen.Close()
		last := &lastEvent{}
		g.Go(func() error { return last.track(gctx, events) })
		g.Go(func() error {
			return render(gctx, screen, time.Duration(cfg.RefreshInterval), frames(src.header, state, last, events))
		})
		g.Go(func() error {
			if err := screen.WaitQuit(gctx); err != nil {
				return nil
			}
			return errQuit
		})
	}

	if err = g.Wait(); errors.Is(err, errQuit) {
		err = nil
	}
	return err
}

type lastEvent struct {
	mu  sync.Mutex
	e   gamepads.Event
	set bool
}

func (l *lastEvent) track(ctx context.Context, events *gamepads.EventChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events.C:
			if !ok {
				return nil
			}
			l.mu.Lock()
			l.e, l.set = e, true
			l.mu.Unlock()
		}
	}
}

func (l *lastEvent) get() (gamepads.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e, l.set
}

func frames(header string, state *gamepads.AsyncState, last *lastEvent, events *gamepads.EventChannel) func() display.Frame {
	return func() display.Frame {
		f := display.Frame{
			Header:  header,
			State:   state.Query(),
			Dropped: events.Dropped(),
		}
		f.Last, f.HasLast = last.get()
		return f
	}
}

// render draws a frame every interval, until ctx is done.
func render(ctx context.Context, r display.Renderer, interval time.Duration, frame func() display.Frame) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := r.Draw(frame()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printEvents(ctx context.Context, w io.Writer, events *gamepads.EventChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events.C:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintln(w, display.FormatEvent(e)); err != nil {
				return err
			}
		}
	}
}

// record appends every event to path in the device's binary format, which
// -replay reads back.
func record(ctx context.Context, path string, events *gamepads.EventChannel) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	write := func(e gamepads.Event) error {
		b, err := e.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	for {
		select {
		case <-ctx.Done():
			// keep what is already buffered
			for {
				select {
				case e, ok := <-events.C:
					if !ok {
						return nil
					}
					if err := write(e); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case e, ok := <-events.C:
			if !ok {
				return nil
			}
			if err := write(e); err != nil {
				return err
			}
		}
	}
}
