// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// usbrelay controls a SainSmart 4 channel USB relay board.
//
// Usage:
//
//	usbrelay [flags] <command> [args]
//
// Examples:
//
//	usbrelay on 0 2
//	usbrelay -device s:0x0403:0x6001:A50285BI off pump
//	usbrelay set 0x3
//	usbrelay get
//	usbrelay shell
//
// Every command that changes a relay reads the board back and fails if it
// didn't follow. Nothing is retried.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/usbrelay/ftdi"
	"github.com/GermanBionicSystems/usbrelay/sainsmart"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func mainImpl(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("usbrelay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "configuration file (default $XDG_CONFIG_HOME/usbrelay/config.yaml)")
	device := fs.String("device", "", "FTDI device string, d:<node>, i:<vid>:<pid>[:<index>] or s:<vid>:<pid>:<serial> (default \""+sainsmart.DefaultDevice+"\")")
	driver := fs.String("driver", "", "FTDI driver, one of "+strings.Join(ftdi.Drivers(), ", "))
	channels := fs.Int("channels", 0, "number of relays on the board")
	clock := fs.Int("clock", 0, "bit-bang clock in Hz, 0 keeps the chip default")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: usbrelay [flags] <command> [args]\n\n%s  shell                  interactive mode\n\nFlags:\n", commandsHelp)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	switch fs.Arg(0) {
	case "get", "set", "on", "off", "show", "cycle", "shell":
	default:
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *channels != 0 {
		cfg.Channels = *channels
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.LogLevel)

	// host.Init enumerates the adapters seen by the periph driver; the other
	// drivers find theirs on their own.
	state, err := host.Init()
	if err != nil {
		if cfg.Driver == "periph" {
			return fmt.Errorf("host: %w", err)
		}
		logger.Warn("host initialization failed", "err", err)
	} else {
		for _, impl := range state.Loaded {
			logger.Debug("host driver loaded", "name", impl.String())
		}
	}
	opts := sainsmart.Opts{Channels: cfg.Channels, ClockRate: physic.Frequency(*clock) * physic.Hertz}
	if cfg.Driver != "" {
		if opts.Driver = ftdi.DriverByName(cfg.Driver); opts.Driver == nil {
			return fmt.Errorf("unknown driver %q, available: %s", cfg.Driver, strings.Join(ftdi.Drivers(), ", "))
		}
	}
	dev, err := sainsmart.New(cfg.Device, &opts)
	if err != nil {
		return err
	}
	defer dev.Close()
	logger.Debug("opened", "device", dev, "channels", dev.NumChannels())

	a := &app{dev: dev, out: stdout, labels: cfg.Labels, log: logger, sleep: time.Sleep}
	if fs.Arg(0) == "shell" {
		if fs.NArg() != 1 {
			return errUsage
		}
		rl, err := newReadline()
		if err != nil {
			return err
		}
		return a.shell(rl)
	}
	if err := a.run(fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
		}
		return err
	}
	return nil
}

func main() {
	if err := mainImpl(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "usbrelay: %s.\n", err)
		os.Exit(1)
	}
}
