// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/usbrelay/relayscreen"
	"github.com/GermanBionicSystems/usbrelay/sainsmart"
)

var errUsage = errors.New("usage error")

const commandsHelp = `Commands:
  get                    print the relay state as 0xNN
  set <value>            set all relays at once, hex (0x5) or decimal
  on <channel>...        turn on channels, by number or label
  off <channel>...       turn off channels, by number or label
  show                   draw the relays as colored blocks
  cycle [-interval 1s]   walk through every combination, then turn all off
`

// app runs commands against one board.
type app struct {
	dev    *sainsmart.Dev
	out    io.Writer
	labels map[string]int
	log    *slog.Logger
	sleep  func(time.Duration)
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "get":
		if len(args) != 0 {
			return errUsage
		}
		return a.get()
	case "set":
		if len(args) != 1 {
			return errUsage
		}
		return a.set(args[0])
	case "on", "off":
		if len(args) == 0 {
			return errUsage
		}
		return a.switchChannels(cmd == "on", args)
	case "show":
		if len(args) != 0 {
			return errUsage
		}
		return a.show()
	case "cycle":
		return a.cycle(args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) get() error {
	p, err := a.dev.ReadPins()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "%s\n", p)
	return err
}

func (a *app) set(arg string) error {
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", arg, err)
	}
	p := sainsmart.Pins(v)
	if extra := p &^ a.dev.Mask(); extra != 0 {
		a.log.Warn("ignoring bits outside the relay mask", "value", p, "mask", a.dev.Mask())
	}
	a.log.Debug("set", "pins", p&a.dev.Mask())
	return a.dev.SetAndCheck(p)
}

func (a *app) switchChannels(on bool, args []string) error {
	channels := make([]int, 0, len(args))
	for _, arg := range args {
		c, err := a.parseChannel(arg)
		if err != nil {
			return err
		}
		channels = append(channels, c)
	}
	m, err := a.dev.ChannelMask(channels...)
	if err != nil {
		return err
	}
	a.log.Debug("frob", "on", on, "mask", m)
	if on {
		return a.dev.FrobPins(0, m)
	}
	return a.dev.FrobPins(m, 0)
}

// parseChannel accepts a label from the configuration or a channel number.
func (a *app) parseChannel(arg string) (int, error) {
	if c, ok := a.labels[arg]; ok {
		return c, nil
	}
	c, err := strconv.Atoi(arg)
	if err != nil || c < 0 {
		return 0, fmt.Errorf("invalid channel %q", arg)
	}
	return c, nil
}

func (a *app) show() error {
	p, err := a.dev.ReadPins()
	if err != nil {
		return err
	}
	s := relayscreen.New(&relayscreen.Opts{Channels: a.dev.NumChannels(), W: a.out})
	if err := s.Show(p); err != nil {
		return err
	}
	return s.Halt()
}

func (a *app) cycle(args []string) error {
	fs := flag.NewFlagSet("cycle", flag.ContinueOnError)
	fs.SetOutput(a.out)
	interval := fs.Duration("interval", time.Second, "time spent on each combination")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}
	p, err := a.dev.ReadPins()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Original pins: %s\n", p)
	n := a.dev.NumChannels()
	for v := 0; v <= int(a.dev.Mask()); v++ {
		p := sainsmart.Pins(v)
		fmt.Fprintln(a.out, p.Format(n))
		if err := a.dev.SetAndCheck(p); err != nil {
			return err
		}
		a.sleep(*interval)
	}
	if err := a.dev.SetAndCheck(0); err != nil {
		return err
	}
	if p, err = a.dev.ReadPins(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Now pins: %s\n", p)
	return err
}
