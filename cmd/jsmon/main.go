// Command jsmon shows the live state of a joystick device.
//
//	jsmon [flags] [device]
//
// The device defaults to /dev/input/js0. Settings may also come from a TOML
// file (-config, or JSMON_CONFIG) and JSMON_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	gamepads "github.com/doingharm/go-gamepad-state"
	"github.com/doingharm/go-gamepad-state/internal/config"
	"github.com/doingharm/go-gamepad-state/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	a := &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
	}

	cfg, list, err := a.loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "jsmon: %v\n", err)
		return 2
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(a.stderr, "jsmon: %v\n", err)
		return 2
	}
	defer func() { _ = closeLog() }()
	a.logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if list {
		err = a.list()
	} else {
		err = a.monitor(ctx, cfg)
	}
	if err != nil {
		logger.Err().Err(err).Log(`jsmon failed`)
		fmt.Fprintf(a.stderr, "jsmon: %v\n", err)
		return 1
	}
	return 0
}

type app struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	logger    *logging.Logger
}

// loadConfig layers the config file, the environment and the flags in args.
func (a *app) loadConfig(args []string) (cfg config.Config, list bool, err error) {
	fs := flag.NewFlagSet(`jsmon`, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath, _ := a.lookupEnv(config.EnvPrefix + `CONFIG`)
	fs.StringVar(&configPath, `config`, configPath, `TOML config file`)
	fs.BoolVar(&list, `list`, false, `list joystick devices and exit`)
	flags := config.Default()
	flags.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: jsmon [flags] [device]\n")
		fs.PrintDefaults()
	}

	if err = fs.Parse(args); err != nil {
		return
	}
	if fs.NArg() > 1 {
		fs.Usage()
		err = fmt.Errorf("expected at most one device, got %d arguments", fs.NArg())
		return
	}

	if cfg, err = config.Load(configPath); err != nil {
		return
	}
	if err = cfg.ApplyEnv(a.lookupEnv); err != nil {
		return
	}
	cfg.ApplyFlags(fs, &flags)
	if fs.NArg() == 1 {
		cfg.Device = fs.Arg(0)
	}
	err = cfg.Validate()
	return
}

// list prints every joystick device with its properties.
func (a *app) list() error {
	paths, err := gamepads.ListDevices()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(a.stdout, `no joystick devices found`)
		return nil
	}
	for _, path := range paths {
		props, err := deviceProperties(path)
		if err != nil {
			a.logger.Warning().Str(`device`, path).Err(err).Log(`skipping device`)
			fmt.Fprintf(a.stdout, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", path, props)
	}
	return nil
}

func deviceProperties(path string) (gamepads.Properties, error) {
	d, err := gamepads.OpenDevice(path)
	if err != nil {
		return gamepads.Properties{}, err
	}
	defer func() { _ = d.Close() }()
	return d.Properties()
}
