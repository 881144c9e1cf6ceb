// Package logging builds the JSON logger used by jsmon.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logger type accepted by gamepads.WithLogger.
type Logger = logiface.Logger[logiface.Event]

var levels = map[string]logiface.Level{
	`disabled`: logiface.LevelDisabled,
	`off`:      logiface.LevelDisabled,
	`err`:      logiface.LevelError,
	`error`:    logiface.LevelError,
	`warning`:  logiface.LevelWarning,
	`warn`:     logiface.LevelWarning,
	`notice`:   logiface.LevelNotice,
	`info`:     logiface.LevelInformational,
	`debug`:    logiface.LevelDebug,
	`trace`:    logiface.LevelTrace,
}

// ParseLevel maps a level name, as accepted by the log_level setting, to a
// logiface.Level. Names are case-insensitive.
func ParseLevel(name string) (logiface.Level, error) {
	if level, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level, nil
	}
	return logiface.LevelDisabled, fmt.Errorf("unknown log level '%s'", name)
}

// New returns a logger writing one JSON object per line to w.
func New(w io.Writer, level logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// Open returns a logger for the named level, appending to path, or writing
// to stderr if path is empty. The returned close func must be called once
// logging is done.
func Open(path, levelName string) (*Logger, func() error, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	if path == `` {
		return New(os.Stderr, level), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f.Close, nil
}
