// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Chip is the FTDI chip revision as reported by the device descriptor.
type Chip uint8

const (
	ChipUnknown Chip = iota
	ChipAM
	ChipBM
	Chip2232C
	ChipR
	Chip2232H
	Chip4232H
	Chip232H
	Chip230X
)

var chipNames = [...]string{"unknown", "AM", "BM", "2232C", "R", "2232H", "4232H", "232H", "230X"}

func (c Chip) String() string {
	if int(c) < len(chipNames) {
		return chipNames[c]
	}
	return fmt.Sprintf("Chip(%d)", uint8(c))
}

// Mode is an FTDI bit mode.
type Mode uint8

const (
	ModeReset   Mode = 0x00
	ModeBitbang Mode = 0x01
)

// Context is one native driver context, bound to at most one adapter.
//
// Implementations do not need to be safe for concurrent use.
type Context interface {
	// Open binds the context to the adapter selected by d.
	Open(d Descriptor) error
	// SetBitmode sets the bit mode; mask bits set to 1 are outputs.
	SetBitmode(mask byte, mode Mode) error
	// SetBaudrate sets the bit-bang clock.
	SetBaudrate(baud int) error
	// Chip returns the revision of the opened adapter.
	Chip() Chip
	// ReadPins returns the instantaneous level of D0~D7.
	ReadPins() (byte, error)
	// Write sends p to the output port.
	Write(p []byte) (int, error)
	// Free releases the context and the adapter, if opened.
	Free() error
}

// Driver allocates native contexts.
type Driver interface {
	String() string
	// NewContext allocates a context. A nil Context without error is
	// treated as an allocation failure.
	NewContext() (Context, error)
}

var (
	mu      sync.Mutex
	drivers = map[string]Driver{}
	// preferred is the order in which DefaultDriver looks for a driver.
	preferred = []string{"usbfs", "libftdi", "periph"}
)

// Register makes a driver available by name.
func Register(d Driver) error {
	mu.Lock()
	defer mu.Unlock()
	name := d.String()
	if _, ok := drivers[name]; ok {
		return fmt.Errorf("ftdi: driver %q already registered", name)
	}
	drivers[name] = d
	return nil
}

// DriverByName returns the registered driver with this name or nil.
func DriverByName(name string) Driver {
	mu.Lock()
	defer mu.Unlock()
	return drivers[name]
}

// Drivers returns the names of all registered drivers, sorted.
func Drivers() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(drivers))
	for name := range drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultDriver returns the preferred registered driver or nil when none is
// compiled in.
func DefaultDriver() Driver {
	mu.Lock()
	defer mu.Unlock()
	for _, name := range preferred {
		if d, ok := drivers[name]; ok {
			return d
		}
	}
	return nil
}

var errNoDriver = errors.New("no driver available on this platform")

// Opts is the configuration of a Dev.
type Opts struct {
	// Mask is the bit-bang direction mask. Bits set to 1 are outputs.
	Mask byte
	// Chip is the expected chip revision. ChipUnknown accepts any chip.
	Chip Chip
	// ClockRate is the bit-bang clock. Zero keeps the driver default.
	ClockRate physic.Frequency
	// Driver defaults to DefaultDriver().
	Driver Driver
}

// Dev is an FTDI adapter in asynchronous bit-bang mode.
//
// A Dev is owned by a single user and is not safe for concurrent use.
type Dev struct {
	ctx  Context
	desc string
	mask byte
	chip Chip
}

// Open allocates a driver context, opens the adapter selected by descriptor,
// puts it in bit-bang mode and verifies the chip revision.
//
// On error, everything allocated so far is released.
func Open(descriptor string, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	drv := opts.Driver
	if drv == nil {
		if drv = DefaultDriver(); drv == nil {
			return nil, &AllocationError{Driver: "none", Err: errNoDriver}
		}
	}
	ctx, err := drv.NewContext()
	if err != nil || ctx == nil {
		return nil, &AllocationError{Driver: drv.String(), Err: err}
	}
	d := &Dev{ctx: ctx, desc: descriptor, mask: opts.Mask}
	if err := d.configure(opts); err != nil {
		// The context is released even if the error happened before the
		// device was opened.
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Dev) configure(opts *Opts) error {
	desc, err := ParseDescriptor(d.desc)
	if err != nil {
		return &DeviceNotFoundError{Descriptor: d.desc, Err: err}
	}
	if err := d.ctx.Open(desc); err != nil {
		return &DeviceNotFoundError{Descriptor: d.desc, Err: err}
	}
	if err := d.ctx.SetBitmode(d.mask, ModeBitbang); err != nil {
		return &ModeConfigurationError{Mask: d.mask, Err: err}
	}
	if opts.ClockRate != 0 {
		if err := d.ctx.SetBaudrate(int(opts.ClockRate / physic.Hertz)); err != nil {
			return &ModeConfigurationError{Mask: d.mask, Err: fmt.Errorf("clock rate %s: %w", opts.ClockRate, err)}
		}
	}
	d.chip = d.ctx.Chip()
	if opts.Chip != ChipUnknown && d.chip != opts.Chip {
		return &UnsupportedChipError{Found: d.chip, Expected: opts.Chip}
	}
	return nil
}

func (d *Dev) String() string {
	return "FTDI(" + d.desc + ")"
}

// Chip returns the detected chip revision.
func (d *Dev) Chip() Chip {
	return d.chip
}

// Mask returns the bit-bang direction mask.
func (d *Dev) Mask() byte {
	return d.mask
}

// Halt implements conn.Resource.
//
// The pins keep their last level.
func (d *Dev) Halt() error {
	return nil
}

// Close releases the native context. Calling Close more than once is a
// no-op.
func (d *Dev) Close() error {
	if d.ctx == nil {
		return nil
	}
	ctx := d.ctx
	d.ctx = nil
	if err := ctx.Free(); err != nil {
		return fmt.Errorf("ftdi: close: %w", err)
	}
	return nil
}

// ReadRaw returns the instantaneous level of D0~D7, unmasked.
func (d *Dev) ReadRaw() (byte, error) {
	if d.ctx == nil {
		return 0, ErrClosed
	}
	b, err := d.ctx.ReadPins()
	if err != nil {
		return 0, &IoError{Op: "read", Err: err}
	}
	return b, nil
}

// WriteRaw writes b to the output port.
func (d *Dev) WriteRaw(b byte) error {
	if d.ctx == nil {
		return ErrClosed
	}
	n, err := d.ctx.Write([]byte{b})
	if err != nil {
		return &IoError{Op: "write", Err: err}
	}
	if n != 1 {
		return &IoError{Op: "write", Err: fmt.Errorf("wrote %d bytes, expected 1", n)}
	}
	return nil
}

var _ conn.Resource = &Dev{}
