// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package relayscreen shows the state of a relay board on the terminal
// using ANSI color codes, one block per channel.
//
// Useful to watch a board that sits in another room.
package relayscreen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/usbrelay/sainsmart"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this display.
type Opts struct {
	// Channels is the number of blocks drawn. Zero means
	// sainsmart.NumChannels.
	Channels int
	Palette  *ansi256.Palette
	// On and Off are the colors of an energized and of a released relay.
	// The zero values mean green and dark gray.
	On  color.NRGBA
	Off color.NRGBA
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev draws relay states to a terminal.
type Dev struct {
	w       io.Writer
	n       int
	palette ansi256.Palette
	on, off color.NRGBA

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.W,
		n:       opts.Channels,
		palette: *p,
		on:      opts.On,
		off:     opts.Off,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.n == 0 {
		d.n = sainsmart.NumChannels
	}
	if d.on == (color.NRGBA{}) {
		d.on = color.NRGBA{G: 255, A: 255}
	}
	if d.off == (color.NRGBA{}) {
		d.off = color.NRGBA{R: 48, G: 48, B: 48, A: 255}
	}
	return d
}

func (d *Dev) String() string {
	return "RelayScreen"
}

// Halt implements conn.Resource.
//
// It resets the colors and moves to the next line so the terminal is not
// corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show redraws the current line with the state of every channel, channel 0
// first, followed by the hexadecimal value.
func (d *Dev) Show(p sainsmart.Pins) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < d.n; i++ {
		c := d.off
		if p&(1<<uint(i)) != 0 {
			c = d.on
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %s ", p)
	_, err := d.buf.WriteTo(d.w)
	return err
}
