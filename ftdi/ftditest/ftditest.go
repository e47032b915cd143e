// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftditest is meant to be used to test drivers over a simulated FTDI
// adapter in bit-bang mode.
package ftditest

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/usbrelay/ftdi"
)

// IO is one operation recorded by an Adapter.
type IO struct {
	Op string
	B  byte
}

func (io IO) String() string {
	return fmt.Sprintf("%s(0x%02X)", io.Op, io.B)
}

// Adapter is a simulated FTDI adapter. It implements ftdi.Driver; every
// context it allocates drives the same simulated chip.
//
// The zero value is an FT232R that accepts any descriptor.
type Adapter struct {
	// Pins is the level of D0~D7. Output pins follow the written byte.
	Pins byte
	// Chip is reported by Context.Chip. ChipUnknown reports ChipR.
	Chip ftdi.Chip
	// Descriptors lists the connection strings that match this adapter.
	// Empty matches everything.
	Descriptors []string

	// StuckHigh and StuckLow force bits on read-back, like a relay that
	// doesn't follow its driver.
	StuckHigh byte
	StuckLow  byte
	// ShortWrite makes writes report 0 bytes transferred without error.
	ShortWrite bool

	AllocErr   error
	NilContext bool
	OpenErr    error
	BitmodeErr error
	BaudErr    error
	ReadErr    error
	WriteErr   error
	FreeErr    error

	// Recorded state.
	Ops    []IO
	Mask   byte
	Mode   ftdi.Mode
	Baud   int
	Allocs int
	Frees  int
}

// ErrNoMatch is returned by Open when the descriptor is not listed in
// Adapter.Descriptors.
var ErrNoMatch = errors.New("ftditest: no matching device")

func (a *Adapter) String() string {
	return "ftditest"
}

// NewContext implements ftdi.Driver.
func (a *Adapter) NewContext() (ftdi.Context, error) {
	if a.AllocErr != nil {
		return nil, a.AllocErr
	}
	if a.NilContext {
		return nil, nil
	}
	a.Allocs++
	return &Context{a: a}, nil
}

// Level returns what a read of the pins would observe.
func (a *Adapter) Level() byte {
	return (a.Pins | a.StuckHigh) &^ a.StuckLow
}

// Writes returns the bytes written so far, in order.
func (a *Adapter) Writes() []byte {
	var out []byte
	for _, io := range a.Ops {
		if io.Op == "write" {
			out = append(out, io.B)
		}
	}
	return out
}

// Context is a context over a simulated Adapter.
type Context struct {
	a      *Adapter
	opened bool
	freed  bool
}

// Open implements ftdi.Context.
func (c *Context) Open(d ftdi.Descriptor) error {
	c.a.Ops = append(c.a.Ops, IO{Op: "open"})
	if c.a.OpenErr != nil {
		return c.a.OpenErr
	}
	if len(c.a.Descriptors) != 0 && !c.a.matches(d) {
		return ErrNoMatch
	}
	c.opened = true
	return nil
}

func (a *Adapter) matches(d ftdi.Descriptor) bool {
	for _, s := range a.Descriptors {
		if other, err := ftdi.ParseDescriptor(s); err == nil && other == d {
			return true
		}
	}
	return false
}

// SetBitmode implements ftdi.Context.
func (c *Context) SetBitmode(mask byte, mode ftdi.Mode) error {
	c.a.Ops = append(c.a.Ops, IO{Op: "bitmode", B: mask})
	if !c.opened {
		return ftdi.ErrClosed
	}
	if c.a.BitmodeErr != nil {
		return c.a.BitmodeErr
	}
	c.a.Mask = mask
	c.a.Mode = mode
	return nil
}

// SetBaudrate implements ftdi.Context.
func (c *Context) SetBaudrate(baud int) error {
	c.a.Ops = append(c.a.Ops, IO{Op: "baud"})
	if !c.opened {
		return ftdi.ErrClosed
	}
	if c.a.BaudErr != nil {
		return c.a.BaudErr
	}
	c.a.Baud = baud
	return nil
}

// Chip implements ftdi.Context.
func (c *Context) Chip() ftdi.Chip {
	if c.a.Chip == ftdi.ChipUnknown {
		return ftdi.ChipR
	}
	return c.a.Chip
}

// ReadPins implements ftdi.Context.
func (c *Context) ReadPins() (byte, error) {
	if !c.opened {
		return 0, ftdi.ErrClosed
	}
	if c.a.ReadErr != nil {
		c.a.Ops = append(c.a.Ops, IO{Op: "read"})
		return 0, c.a.ReadErr
	}
	b := c.a.Level()
	c.a.Ops = append(c.a.Ops, IO{Op: "read", B: b})
	return b, nil
}

// Write implements ftdi.Context.
func (c *Context) Write(p []byte) (int, error) {
	if !c.opened {
		return 0, ftdi.ErrClosed
	}
	for _, b := range p {
		c.a.Ops = append(c.a.Ops, IO{Op: "write", B: b})
	}
	if c.a.WriteErr != nil {
		return 0, c.a.WriteErr
	}
	if c.a.ShortWrite {
		return 0, nil
	}
	if c.a.Mode == ftdi.ModeBitbang {
		for _, b := range p {
			c.a.Pins = c.a.Pins&^c.a.Mask | b&c.a.Mask
		}
	}
	return len(p), nil
}

// Free implements ftdi.Context.
func (c *Context) Free() error {
	c.a.Ops = append(c.a.Ops, IO{Op: "free"})
	c.a.Frees++
	if c.freed {
		return errors.New("ftditest: context freed twice")
	}
	c.freed = true
	c.opened = false
	return c.a.FreeErr
}

var _ ftdi.Driver = &Adapter{}
var _ ftdi.Context = &Context{}
