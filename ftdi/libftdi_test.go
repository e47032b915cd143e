// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build cgo

package ftdi

import (
	"errors"
	"testing"
)

func TestLibftdiNodeDescriptor(t *testing.T) {
	c := &libftdiContext{}
	d, err := ParseDescriptor("d:001/002")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Open(d); !errors.Is(err, errNodeUnsupported) {
		t.Fatalf("Open(%s) = %v", d, err)
	}
	_, err = Open("d:001/002", &Opts{Mask: 0x0F, Driver: libftdiDriver{}})
	var e *DeviceNotFoundError
	if !errors.As(err, &e) || !errors.Is(err, errNodeUnsupported) {
		t.Fatalf("Open() = %v", err)
	}
}

func TestLibftdiClosedContext(t *testing.T) {
	c := &libftdiContext{}
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

func TestLibftdiRegistered(t *testing.T) {
	if d := DriverByName("libftdi"); d == nil || d.String() != "libftdi" {
		t.Fatalf("DriverByName(\"libftdi\") = %v", d)
	}
}
