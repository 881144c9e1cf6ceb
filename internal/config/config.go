// Package config loads jsmon settings. Later sources override earlier ones:
// defaults, then a TOML file, then JSMON_* environment variables, then
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	gamepads "github.com/doingharm/go-gamepad-state"
	"github.com/doingharm/go-gamepad-state/internal/logging"
)

// EnvPrefix prefixes the environment variable of every setting, e.g.
// JSMON_POLL_INTERVAL for poll_interval.
const EnvPrefix = `JSMON_`

// DefaultDevice is the device read when none is configured.
const DefaultDevice = `/dev/input/js0`

// Config holds every jsmon setting. The toml tag names the setting in files,
// flags (with dashes) and the environment (upper case, prefixed).
type Config struct {
	Device          string   `toml:"device" usage:"joystick device to read"`
	Axes            int      `toml:"axes" usage:"number of axes to track, 0 to ask the device"`
	PollInterval    Duration `toml:"poll_interval" usage:"wait after an empty poll"`
	RefreshInterval Duration `toml:"refresh_interval" usage:"display refresh interval"`
	Wait            bool     `toml:"wait" usage:"wait for the device to be plugged in"`
	WaitTimeout     Duration `toml:"wait_timeout" usage:"give up waiting after this long, 0 waits forever"`
	ShowEvents      bool     `toml:"show_events" usage:"print every event as it is folded"`
	LogLevel        string   `toml:"log_level" usage:"log level (err, warning, info, debug, trace, off)"`
	LogFile         string   `toml:"log_file" usage:"append logs to this file instead of stderr"`
	Replay          string   `toml:"replay" usage:"read recorded events from this file instead of a device"`
	Record          string   `toml:"record" usage:"record every event to this file"`
	Plain           bool     `toml:"plain" usage:"print plain text instead of drawing the terminal"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Device:          DefaultDevice,
		PollInterval:    Duration(gamepads.DefaultPollInterval),
		RefreshInterval: Duration(10 * time.Millisecond),
		LogLevel:        `warning`,
	}
}

// Load returns the defaults overridden by the TOML file at path. An empty
// path loads nothing. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == `` {
		return c, nil
	}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, `, `))
	}
	return c, nil
}

// ApplyEnv overrides settings from the environment, with lookup usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, f := range c.fields() {
		name := EnvPrefix + strings.ToUpper(f.key)
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := setValue(f.value, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// RegisterFlags defines one flag per setting on fs, defaulting to and
// writing into c.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	for _, f := range c.fields() {
		name := flagName(f.key)
		switch p := f.value.Addr().Interface().(type) {
		case *string:
			fs.StringVar(p, name, *p, f.usage)
		case *int:
			fs.IntVar(p, name, *p, f.usage)
		case *bool:
			fs.BoolVar(p, name, *p, f.usage)
		case flag.Value:
			fs.Var(p, name, f.usage)
		default:
			panic(fmt.Sprintf(`config: unsupported field type %T`, p))
		}
	}
}

// ApplyFlags copies the settings explicitly given on fs from flags, which
// must be the Config that was passed to RegisterFlags for fs.
func (c *Config) ApplyFlags(fs *flag.FlagSet, flags *Config) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	src := flags.fields()
	for i, f := range c.fields() {
		if set[flagName(f.key)] {
			f.value.Set(src[i].value)
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Replay == `` && c.Device == `` {
		errs = append(errs, errors.New(`device: must not be empty`))
	}
	if c.Axes < 0 || c.Axes > gamepads.MaxAxes {
		errs = append(errs, fmt.Errorf("axes: %d out of range [0, %d]", c.Axes, gamepads.MaxAxes))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New(`poll_interval: must be positive`))
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, errors.New(`refresh_interval: must be positive`))
	}
	if c.WaitTimeout < 0 {
		errs = append(errs, errors.New(`wait_timeout: must not be negative`))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Replay != `` && c.Wait {
		errs = append(errs, errors.New(`wait: cannot wait for a replay file`))
	}
	return errors.Join(errs...)
}

type field struct {
	value reflect.Value
	key   string
	usage string
}

func (c *Config) fields() []field {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	fields := make([]field, t.NumField())
	for i := range fields {
		sf := t.Field(i)
		fields[i] = field{
			value: v.Field(i),
			key:   sf.Tag.Get(`toml`),
			usage: sf.Tag.Get(`usage`),
		}
	}
	return fields
}

func flagName(key string) string { return strings.ReplaceAll(key, `_`, `-`) }

func setValue(v reflect.Value, s string) error {
	switch p := v.Addr().Interface().(type) {
	case *string:
		*p = s
	case *int:
		i, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*p = i
	case *bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*p = b
	case flag.Value:
		return p.Set(s)
	default:
		return fmt.Errorf("unsupported type %T", p)
	}
	return nil
}

// Duration is a time.Duration read from strings like "10ms", in TOML
// files, flags and the environment.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalText(text []byte) error { return d.Set(string(text)) }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
