package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gamepads "github.com/doingharm/go-gamepad-state"
	"github.com/doingharm/go-gamepad-state/internal/config"
	"github.com/doingharm/go-gamepad-state/internal/logging"
)

// syncBuffer is written by the monitor's goroutines while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, env map[string]string) (*app, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	level, err := logging.ParseLevel(`debug`)
	require.NoError(t, err)
	return &app{
		stdout: out,
		stderr: io.Discard,
		lookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		logger: logging.New(io.Discard, level),
	}, out
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), `jsmon.toml`)
	require.NoError(t, os.WriteFile(path, []byte("axes = 4\nlog_level = \"info\"\nplain = true\n"), 0o600))

	a, _ := newTestApp(t, map[string]string{
		`JSMON_CONFIG`:    path,
		`JSMON_AXES`:      `6`,
		`JSMON_LOG_LEVEL`: `debug`,
	})
	cfg, list, err := a.loadConfig([]string{`-log-level=err`, `/dev/input/js3`})
	require.NoError(t, err)
	assert.False(t, list)
	assert.Equal(t, `/dev/input/js3`, cfg.Device)
	assert.Equal(t, 6, cfg.Axes, "environment overrides the file")
	assert.Equal(t, `err`, cfg.LogLevel, "flags override the environment")
	assert.True(t, cfg.Plain)
	assert.Equal(t, config.Default().PollInterval, cfg.PollInterval)
}

func TestLoadConfig_errors(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, list, err := a.loadConfig([]string{`-list`})
	require.NoError(t, err)
	assert.True(t, list)

	_, _, err = a.loadConfig([]string{`-h`})
	assert.ErrorIs(t, err, flag.ErrHelp)

	_, _, err = a.loadConfig([]string{`/dev/input/js0`, `/dev/input/js1`})
	assert.ErrorContains(t, err, `at most one device`)

	_, _, err = a.loadConfig([]string{`-axes=99`})
	assert.ErrorContains(t, err, `axes`)

	_, _, err = a.loadConfig([]string{`-config`, filepath.Join(t.TempDir(), `missing.toml`)})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeReplay(t *testing.T, events ...gamepads.Event) (string, []byte) {
	t.Helper()
	var b []byte
	for _, e := range events {
		record, err := e.MarshalBinary()
		require.NoError(t, err)
		b = append(b, record...)
	}
	path := filepath.Join(t.TempDir(), `events.bin`)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path, b
}

func runMonitor(t *testing.T, a *app, cfg config.Config, until func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.monitor(ctx, cfg) }()

	require.Eventually(t, until, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal(`monitor did not stop`)
	}
}

func TestMonitor_replayShowEvents(t *testing.T) {
	replay, raw := writeReplay(t,
		gamepads.ButtonEvent(0, true, 1).Initial(),
		gamepads.AxisEvent(1, 100, 1).Initial(),
		gamepads.ButtonEvent(2, true, 1500),
	)
	recorded := filepath.Join(t.TempDir(), `recorded.bin`)

	cfg := config.Default()
	cfg.Replay = replay
	cfg.Record = recorded
	cfg.ShowEvents = true

	a, out := newTestApp(t, nil)
	runMonitor(t, a, cfg, func() bool { return strings.Count(out.String(), "\n") >= 4 })

	assert.Equal(t, strings.Join([]string{
		`replay of ` + replay,
		`button [00] ->      1 at time 0.001s`,
		`axis   [01] ->    100 at time 0.001s`,
		`button [02] ->      1 at time 1.500s`,
		``,
	}, "\n"), out.String())

	b, err := os.ReadFile(recorded)
	require.NoError(t, err)
	assert.Equal(t, raw, b, "the recording replays the same events")
}

func TestMonitor_replayPlain(t *testing.T) {
	replay, _ := writeReplay(t,
		gamepads.ButtonEvent(0, true, 1).Initial(),
		gamepads.ButtonEvent(2, true, 5),
		gamepads.AxisEvent(3, -7, 6),
	)

	cfg := config.Default()
	cfg.Replay = replay
	cfg.Plain = true
	cfg.Axes = 4
	cfg.RefreshInterval = config.Duration(time.Millisecond)

	a, out := newTestApp(t, nil)
	runMonitor(t, a, cfg, func() bool {
		s := out.String()
		return strings.Contains(s, `Buttons: 1 0 1 0  0 0 0 0`) &&
			strings.Contains(s, `Axes   : 0        0        0        -7`) &&
			strings.Contains(s, `Last   : axis   [03] ->     -7 at time 0.006s`)
	})
	assert.Contains(t, out.String(), `replay of `+replay)
}

func TestMonitor_sourceFailure(t *testing.T) {
	// a truncated record fails the source once the poller reaches it
	replay, _ := writeReplay(t, gamepads.ButtonEvent(1, true, 1).Initial())
	f, err := os.OpenFile(replay, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.Replay = replay
	cfg.ShowEvents = true

	a, _ := newTestApp(t, nil)
	err = a.monitor(context.Background(), cfg)
	assert.ErrorIs(t, err, gamepads.ErrSourceFailure)
}

func TestMonitor_missingReplay(t *testing.T) {
	cfg := config.Default()
	cfg.Replay = filepath.Join(t.TempDir(), `missing.bin`)
	a, _ := newTestApp(t, nil)
	assert.ErrorIs(t, a.monitor(context.Background(), cfg), os.ErrNotExist)
}
