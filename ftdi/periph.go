// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
	hostftdi "periph.io/x/host/v3/ftdi"
)

// dbus is the D-bus of an FT232R as exposed by periph's host drivers.
type dbus interface {
	SetDBusMask(mask uint8) error
	Tx(w, r []byte) error
	SetSpeed(f physic.Frequency) error
}

// periphDevice is one adapter enumerated by host.Init().
type periphDevice struct {
	name    string
	typ     string
	vendor  uint16
	product uint16
	serial  string
	// bus is nil when the chip has no D-bus bit-bang support in periph.
	bus dbus
}

// periphEnum lists the adapters found by periph's ftdi host driver. It is
// empty until host.Init() has run.
func periphEnum() []periphDevice {
	var out []periphDevice
	for _, d := range hostftdi.All() {
		var info hostftdi.Info
		d.Info(&info)
		p := periphDevice{name: d.String(), typ: info.Type, vendor: info.VenID, product: info.DevID}
		var ee hostftdi.EEPROM
		if err := d.EEPROM(&ee); err == nil {
			p.serial = ee.Serial
		}
		if r, ok := d.(*hostftdi.FT232R); ok {
			p.bus = r
		}
		out = append(out, p)
	}
	return out
}

// periphDriver drives adapters through periph.io/x/host/v3/ftdi, which uses
// the d2xx library.
type periphDriver struct {
	enum func() []periphDevice
}

func (p *periphDriver) String() string {
	return "periph"
}

func (p *periphDriver) NewContext() (Context, error) {
	return &periphContext{drv: p}, nil
}

var (
	errNoPeriphDevice = errors.New("periph: no FTDI adapter enumerated, was host.Init() called?")
	errNoDBus         = errors.New("periph: D-bus bit-bang is only supported on FT232R")
)

type periphContext struct {
	drv  *periphDriver
	dev  *periphDevice
	chip Chip
}

func (c *periphContext) Open(d Descriptor) error {
	if d.Kind == ByNode {
		return errNodeUnsupported
	}
	all := c.drv.enum()
	if len(all) == 0 {
		return errNoPeriphDevice
	}
	var found []periphDevice
	for _, dev := range all {
		if d.Matches(dev.vendor, dev.product, dev.serial) {
			found = append(found, dev)
		}
	}
	index := d.Index
	if d.Kind == BySerial {
		index = 0
	}
	if uint(len(found)) <= index {
		return fmt.Errorf("periph: %d matching adapter(s), wanted index %d", len(found), index)
	}
	c.dev = &found[index]
	c.chip = chipFromType(c.dev.typ)
	return nil
}

func (c *periphContext) SetBitmode(mask byte, mode Mode) error {
	if c.dev == nil {
		return ErrClosed
	}
	if c.dev.bus == nil {
		return errNoDBus
	}
	if mode != ModeBitbang {
		return fmt.Errorf("periph: unsupported bit mode %d", mode)
	}
	return c.dev.bus.SetDBusMask(mask)
}

func (c *periphContext) SetBaudrate(baud int) error {
	if c.dev == nil {
		return ErrClosed
	}
	if c.dev.bus == nil {
		return errNoDBus
	}
	return c.dev.bus.SetSpeed(physic.Frequency(baud) * physic.Hertz)
}

func (c *periphContext) Chip() Chip {
	return c.chip
}

func (c *periphContext) ReadPins() (byte, error) {
	if c.dev == nil {
		return 0, ErrClosed
	}
	if c.dev.bus == nil {
		return 0, errNoDBus
	}
	var b [1]byte
	if err := c.dev.bus.Tx(nil, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *periphContext) Write(p []byte) (int, error) {
	if c.dev == nil {
		return 0, ErrClosed
	}
	if c.dev.bus == nil {
		return 0, errNoDBus
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := c.dev.bus.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Free forgets the adapter. periph owns it and keeps it open.
func (c *periphContext) Free() error {
	c.dev = nil
	return nil
}

// chipFromType maps periph's Info.Type to a Chip.
func chipFromType(typ string) Chip {
	switch typ {
	case "FTAM":
		return ChipAM
	case "FTBM":
		return ChipBM
	case "FT2232C":
		return Chip2232C
	case "FT232R":
		return ChipR
	case "FT2232H":
		return Chip2232H
	case "FT4232H":
		return Chip4232H
	case "FT232H":
		return Chip232H
	case "FTX", "FT230X":
		return Chip230X
	}
	return ChipUnknown
}

func init() {
	_ = Register(&periphDriver{enum: periphEnum})
}
