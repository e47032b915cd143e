// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sainsmart

import (
	"fmt"

	"github.com/GermanBionicSystems/usbrelay/ftdi"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

const (
	// NumChannels is the number of relays on the board.
	NumChannels = 4
	// Mask covers the pins wired to a relay.
	Mask Pins = 1<<NumChannels - 1
	// DefaultDevice selects the first FT232R with the factory ids.
	DefaultDevice = "i:0x0403:0x6001"
)

// Pins is the state of all channels, one bit per channel. Bit n set means
// relay n is energized.
type Pins uint8

func (p Pins) String() string {
	return fmt.Sprintf("0x%02X", uint8(p))
}

// Format returns p as n binary digits, channel 0 last.
func (p Pins) Format(n int) string {
	return fmt.Sprintf("%0*b", n, uint8(p))
}

// Opts holds the configuration options.
type Opts struct {
	// Channels is the number of relays, 1 to 8. Zero means NumChannels.
	Channels int
	// ClockRate is the bit-bang clock. Zero keeps the chip default.
	ClockRate physic.Frequency
	// Driver is the FTDI driver. Nil means ftdi.DefaultDriver().
	Driver ftdi.Driver
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Channels: NumChannels}

// Dev is a handle to a SainSmart USB relay board.
//
// Dev is not safe for concurrent use; a board must have a single owner.
type Dev struct {
	// Channels exposes one output pin per relay.
	Channels []gpio.PinIO

	h          *ftdi.Dev
	desc       string
	n          int
	mask       Pins
	registered []string
}

// New opens the board selected by device, a libftdi style connection string
// like DefaultDevice.
//
// The adapter is put in bit-bang mode with the relay pins as outputs. The
// relays are left in the state they are in.
func New(device string, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	n := opts.Channels
	if n == 0 {
		n = NumChannels
	}
	if n < 1 || n > 8 {
		return nil, ErrInvalidChannels
	}
	mask := Pins(1<<n - 1)
	h, err := ftdi.Open(device, &ftdi.Opts{
		Mask:      byte(mask),
		Chip:      ftdi.ChipR,
		ClockRate: opts.ClockRate,
		Driver:    opts.Driver,
	})
	if err != nil {
		return nil, fmt.Errorf("sainsmart: %w", err)
	}
	d := &Dev{h: h, desc: device, n: n, mask: mask}
	d.Channels = make([]gpio.PinIO, n)
	for ix := range d.Channels {
		p := &relayPin{dev: d, number: ix, name: fmt.Sprintf("%s_RELAY%d", d, ix)}
		d.Channels[ix] = p
		// Another board opened with the same descriptor keeps its names.
		if gpioreg.Register(p) == nil {
			d.registered = append(d.registered, p.name)
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return "SainSmart(" + d.desc + ")"
}

// NumChannels returns the number of relays.
func (d *Dev) NumChannels() int {
	return d.n
}

// Mask returns the pins wired to a relay.
func (d *Dev) Mask() Pins {
	return d.mask
}

// ReadPins returns the current relay state.
func (d *Dev) ReadPins() (Pins, error) {
	if d.h == nil {
		return 0, fmt.Errorf("sainsmart: %w", ftdi.ErrClosed)
	}
	b, err := d.h.ReadRaw()
	if err != nil {
		return 0, fmt.Errorf("sainsmart: %w", err)
	}
	return Pins(b) & d.mask, nil
}

// SetPins writes p, masked, without reading it back.
//
// Use SetAndCheck for anything a user asked for.
func (d *Dev) SetPins(p Pins) error {
	if d.h == nil {
		return fmt.Errorf("sainsmart: %w", ftdi.ErrClosed)
	}
	if err := d.h.WriteRaw(byte(p & d.mask)); err != nil {
		return fmt.Errorf("sainsmart: %w", err)
	}
	return nil
}

// SetAndCheck writes p, masked, and reads the pins back.
//
// It returns *VerificationMismatchError if the read back value differs.
func (d *Dev) SetAndCheck(p Pins) error {
	p &= d.mask
	if err := d.SetPins(p); err != nil {
		return err
	}
	actual, err := d.ReadPins()
	if err != nil {
		return err
	}
	if actual != p {
		return &VerificationMismatchError{Expected: p, Actual: actual}
	}
	return nil
}

// FrobPins turns off the channels in clear and turns on the channels in set,
// in a single write. A channel in both ends up on.
func (d *Dev) FrobPins(clear, set Pins) error {
	cur, err := d.ReadPins()
	if err != nil {
		return err
	}
	return d.SetAndCheck(cur&^clear | set)
}

// ChannelMask folds channel indexes into a mask.
//
// It returns *ChannelError for the first index outside the board.
func (d *Dev) ChannelMask(channels ...int) (Pins, error) {
	var m Pins
	for _, c := range channels {
		if c < 0 || c >= d.n {
			return 0, &ChannelError{Channel: c, Channels: d.n}
		}
		m |= 1 << uint(c)
	}
	return m, nil
}

// On energizes the relays on the given channels, leaving the others as is.
func (d *Dev) On(channels ...int) error {
	m, err := d.ChannelMask(channels...)
	if err != nil {
		return err
	}
	return d.FrobPins(0, m)
}

// Off releases the relays on the given channels, leaving the others as is.
func (d *Dev) Off(channels ...int) error {
	m, err := d.ChannelMask(channels...)
	if err != nil {
		return err
	}
	return d.FrobPins(m, 0)
}

// Halt implements conn.Resource.
//
// There is no activity to stop; the relays keep their state and the board
// stays usable. Use Close to release the adapter.
func (d *Dev) Halt() error {
	return nil
}

// Close releases the adapter and unregisters the channel pins. Calling it
// again is a no-op.
func (d *Dev) Close() error {
	if d.h == nil {
		return nil
	}
	for _, name := range d.registered {
		_ = gpioreg.Unregister(name)
	}
	d.registered = nil
	h := d.h
	d.h = nil
	if err := h.Close(); err != nil {
		return fmt.Errorf("sainsmart: %w", err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
