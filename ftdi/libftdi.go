// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build cgo

package ftdi

import (
	libftdi "github.com/ziutek/ftdi"
)

type libftdiDriver struct{}

func (libftdiDriver) String() string {
	return "libftdi"
}

func (libftdiDriver) NewContext() (Context, error) {
	return &libftdiContext{}, nil
}

// libftdiContext wraps a libftdi1 device. libftdi allocates its own
// ftdi_context while opening, so Free is also responsible for it.
type libftdiContext struct {
	d *libftdi.Device
}

func (c *libftdiContext) Open(d Descriptor) error {
	var err error
	switch d.Kind {
	case ByIndex:
		c.d, err = libftdi.Open(int(d.Vendor), int(d.Product), "", "", d.Index, libftdi.ChannelAny)
	case BySerial:
		c.d, err = libftdi.Open(int(d.Vendor), int(d.Product), "", d.Serial, 0, libftdi.ChannelAny)
	default:
		err = errNodeUnsupported
	}
	return err
}

func (c *libftdiContext) SetBitmode(mask byte, mode Mode) error {
	if c.d == nil {
		return ErrClosed
	}
	m := libftdi.ModeReset
	if mode == ModeBitbang {
		m = libftdi.ModeBitbang
	}
	return c.d.SetBitmode(mask, m)
}

func (c *libftdiContext) SetBaudrate(baud int) error {
	if c.d == nil {
		return ErrClosed
	}
	return c.d.SetBaudrate(baud)
}

func (c *libftdiContext) Chip() Chip {
	if c.d == nil {
		return ChipUnknown
	}
	switch c.d.Type() {
	case libftdi.TypeAM:
		return ChipAM
	case libftdi.TypeBM:
		return ChipBM
	case libftdi.Type2232C:
		return Chip2232C
	case libftdi.TypeR:
		return ChipR
	case libftdi.Type2232H:
		return Chip2232H
	case libftdi.Type4232H:
		return Chip4232H
	case libftdi.Type232H:
		return Chip232H
	case libftdi.Type230x:
		return Chip230X
	}
	return ChipUnknown
}

func (c *libftdiContext) ReadPins() (byte, error) {
	if c.d == nil {
		return 0, ErrClosed
	}
	return c.d.Pins()
}

func (c *libftdiContext) Write(p []byte) (int, error) {
	if c.d == nil {
		return 0, ErrClosed
	}
	return c.d.Write(p)
}

func (c *libftdiContext) Free() error {
	if c.d == nil {
		return nil
	}
	err := c.d.Close()
	c.d = nil
	return err
}

func init() {
	_ = Register(libftdiDriver{})
}
