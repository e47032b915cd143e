// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sainsmart

import (
	"errors"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/usbrelay/ftdi/ftditest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

func TestPinBasic(t *testing.T) {
	d := newTestDev(t, &ftditest.Adapter{})
	for ix, p := range d.Channels {
		if p.Number() != ix {
			t.Errorf("pin.Number() does not match ordinal position %d! Found %d", ix, p.Number())
		}
		if p.Name() != p.String() {
			t.Error("pin.Name()!=pin.String()")
		}
		if !strings.HasPrefix(p.Name(), d.String()) {
			t.Errorf("Expected pin.Name()=%s to start with dev.String()=%s", p.Name(), d.String())
		}
		if p.Function() != "Out" {
			t.Errorf("Function() = %q", p.Function())
		}
	}
	p := d.Channels[1]
	if err := p.PWM(gpio.DutyHalf, 10); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PWM() expected ErrNotImplemented. Received %#v", err)
	}
	if err := p.In(gpio.Float, gpio.NoEdge); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("In() expected ErrNotImplemented. Received %#v", err)
	}
	if p.WaitForEdge(0) {
		t.Error("WaitForEdge() returned true")
	}
	if p.Halt() != nil {
		t.Error("expected nil on pin.Halt()")
	}
}

func TestPinGPIOReg(t *testing.T) {
	d, err := New("i:0x0403:0x6001:7", &Opts{Driver: &ftditest.Adapter{}})
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(d.Channels))
	for _, p := range d.Channels {
		if gpioreg.ByName(p.Name()) == nil {
			t.Errorf("pin %s not found in gpioreg", p.Name())
		}
		names = append(names, p.Name())
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if gpioreg.ByName(name) != nil {
			t.Errorf("pin %s still registered after Close", name)
		}
	}
}

func TestPinOutRead(t *testing.T) {
	a := &ftditest.Adapter{}
	d := newTestDev(t, a)
	for ix, p := range d.Channels {
		if err := p.Out(gpio.High); err != nil {
			t.Fatal(err)
		}
		if p.Read() != gpio.High {
			t.Errorf("channel %d: expected High", ix)
		}
		if a.Pins != byte(1<<uint(ix+1)-1) {
			t.Fatalf("channel %d: pins 0x%02X", ix, a.Pins)
		}
	}
	if err := d.Channels[2].Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if a.Pins != 0x0B {
		t.Fatalf("pins 0x%02X, expected 0x0B", a.Pins)
	}
	if d.Channels[2].Read() != gpio.Low {
		t.Error("channel 2: expected Low")
	}
}

func TestPinOutVerifies(t *testing.T) {
	a := &ftditest.Adapter{StuckLow: 0x02}
	d := newTestDev(t, a)
	var e *VerificationMismatchError
	if err := d.Channels[1].Out(gpio.High); !errors.As(err, &e) {
		t.Fatalf("Out() = %v", err)
	}
}

func TestPinReadError(t *testing.T) {
	a := &ftditest.Adapter{Pins: 0x0F}
	d := newTestDev(t, a)
	a.ReadErr = errors.New("usb: gone")
	if d.Channels[0].Read() != gpio.Low {
		t.Error("expected Low on read error")
	}
}
