// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

// fakeDBus is the D-bus of an FT232R in bit-bang mode.
type fakeDBus struct {
	mask  uint8
	pins  uint8
	speed physic.Frequency
	txErr error
}

func (f *fakeDBus) SetDBusMask(mask uint8) error {
	f.mask = mask
	return nil
}

func (f *fakeDBus) Tx(w, r []byte) error {
	if f.txErr != nil {
		return f.txErr
	}
	for _, b := range w {
		f.pins = f.pins&^f.mask | b&f.mask
	}
	for i := range r {
		r[i] = f.pins
	}
	return nil
}

func (f *fakeDBus) SetSpeed(s physic.Frequency) error {
	f.speed = s
	return nil
}

func newPeriphDriver(devs ...periphDevice) *periphDriver {
	return &periphDriver{enum: func() []periphDevice { return devs }}
}

func TestPeriphOpen(t *testing.T) {
	bus := &fakeDBus{pins: 0xF0}
	drv := newPeriphDriver(
		periphDevice{name: "FT232H(0)", typ: "FT232H", vendor: 0x0403, product: 0x6014},
		periphDevice{name: "FT232R(1)", typ: "FT232R", vendor: 0x0403, product: 0x6001, serial: "A50285BI", bus: bus},
	)
	d, err := Open("s:0x0403:0x6001:A50285BI", &Opts{Mask: 0x0F, Chip: ChipR, ClockRate: 9600 * physic.Hertz, Driver: drv})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if bus.mask != 0x0F || bus.speed != 9600*physic.Hertz {
		t.Fatalf("mask=0x%02X speed=%s", bus.mask, bus.speed)
	}
	if err := d.WriteRaw(0x05); err != nil {
		t.Fatal(err)
	}
	b, err := d.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0xF5 {
		t.Fatalf("ReadRaw() = 0x%02X, want 0xF5", b)
	}
	bus.txErr = errors.New("usb gone")
	var e *IoError
	if err := d.WriteRaw(0x01); !errors.As(err, &e) || !errors.Is(err, bus.txErr) {
		t.Fatalf("WriteRaw() = %v", err)
	}
}

func TestPeriphOpenErrors(t *testing.T) {
	data := []struct {
		desc string
		drv  *periphDriver
		want error
	}{
		{"i:0x0403:0x6001", newPeriphDriver(), errNoPeriphDevice},
		{"d:001/002", newPeriphDriver(periphDevice{typ: "FT232R", vendor: 0x0403, product: 0x6001}), errNodeUnsupported},
		{"i:0x0403:0x6014", newPeriphDriver(periphDevice{typ: "FT232H", vendor: 0x0403, product: 0x6014}), errNoDBus},
	}
	for _, line := range data {
		d, err := Open(line.desc, &Opts{Mask: 0x0F, Driver: line.drv})
		if d != nil || !errors.Is(err, line.want) {
			t.Errorf("Open(%q) = %v, want %v", line.desc, err, line.want)
		}
	}
	_, err := Open("i:0x0403:0x6001:1", &Opts{Mask: 0x0F, Driver: newPeriphDriver(periphDevice{typ: "FT232R", vendor: 0x0403, product: 0x6001, bus: &fakeDBus{}})})
	var e *DeviceNotFoundError
	if !errors.As(err, &e) {
		t.Fatalf("Open() with a missing index = %v", err)
	}
}

func TestPeriphClosedContext(t *testing.T) {
	c := &periphContext{drv: newPeriphDriver()}
	if err := c.SetBitmode(0x0F, ModeBitbang); err != ErrClosed {
		t.Errorf("SetBitmode() = %v", err)
	}
	if err := c.SetBaudrate(9600); err != ErrClosed {
		t.Errorf("SetBaudrate() = %v", err)
	}
	if _, err := c.ReadPins(); err != ErrClosed {
		t.Errorf("ReadPins() = %v", err)
	}
	if _, err := c.Write([]byte{1}); err != ErrClosed {
		t.Errorf("Write() = %v", err)
	}
	if c.Chip() != ChipUnknown {
		t.Errorf("Chip() = %s", c.Chip())
	}
	if err := c.Free(); err != nil {
		t.Errorf("Free() = %v", err)
	}
}

func TestChipFromType(t *testing.T) {
	data := map[string]Chip{
		"FT232R":  ChipR,
		"FT232H":  Chip232H,
		"FT2232H": Chip2232H,
		"FT4232H": Chip4232H,
		"FTX":     Chip230X,
		"FTBM":    ChipBM,
		"bogus":   ChipUnknown,
	}
	for typ, want := range data {
		if got := chipFromType(typ); got != want {
			t.Errorf("chipFromType(%q) = %s, want %s", typ, got, want)
		}
	}
}
