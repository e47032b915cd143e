// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the addressing form of a Descriptor.
type Kind byte

const (
	// ByNode selects a device by its usbfs node.
	ByNode Kind = 'd'
	// ByIndex selects the Index-th device matching Vendor and Product.
	ByIndex Kind = 'i'
	// BySerial selects the device matching Vendor, Product and Serial.
	BySerial Kind = 's'
)

// Descriptor identifies one physical adapter.
type Descriptor struct {
	Kind    Kind
	Node    string
	Vendor  uint16
	Product uint16
	Index   uint
	Serial  string
}

var errEmptyDescriptor = errors.New("ftdi: empty descriptor")

// ParseDescriptor parses a libftdi style connection string.
func ParseDescriptor(s string) (Descriptor, error) {
	if s == "" {
		return Descriptor{}, errEmptyDescriptor
	}
	if len(s) < 2 || s[1] != ':' {
		return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: missing type prefix", s)
	}
	d := Descriptor{Kind: Kind(s[0])}
	rest := s[2:]
	switch d.Kind {
	case ByNode:
		if rest == "" {
			return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: missing device node", s)
		}
		d.Node = rest
		return d, nil
	case ByIndex, BySerial:
	default:
		return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: unknown type %q", s, s[0])
	}

	// The serial number may itself contain ':'.
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) < 2 {
		return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: expected <vendor>:<product>", s)
	}
	var err error
	if d.Vendor, err = parseID(parts[0]); err != nil {
		return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: vendor: %w", s, err)
	}
	if d.Product, err = parseID(parts[1]); err != nil {
		return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: product: %w", s, err)
	}
	if d.Kind == BySerial {
		if len(parts) != 3 || parts[2] == "" {
			return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: missing serial number", s)
		}
		d.Serial = parts[2]
		return d, nil
	}
	if len(parts) == 3 {
		i, err := strconv.ParseUint(parts[2], 0, 16)
		if err != nil {
			return Descriptor{}, fmt.Errorf("ftdi: descriptor %q: index: %w", s, err)
		}
		d.Index = uint(i)
	}
	return d, nil
}

// Matches reports whether a device with the given ids and serial number is
// selected by d. Index is not considered; the caller counts matches.
func (d Descriptor) Matches(vendor, product uint16, serial string) bool {
	switch d.Kind {
	case ByIndex:
		return d.Vendor == vendor && d.Product == product
	case BySerial:
		return d.Vendor == vendor && d.Product == product && d.Serial == serial
	}
	return false
}

func (d Descriptor) String() string {
	switch d.Kind {
	case ByNode:
		return "d:" + d.Node
	case ByIndex:
		if d.Index != 0 {
			return fmt.Sprintf("i:0x%04x:0x%04x:%d", d.Vendor, d.Product, d.Index)
		}
		return fmt.Sprintf("i:0x%04x:0x%04x", d.Vendor, d.Product)
	case BySerial:
		return fmt.Sprintf("s:0x%04x:0x%04x:%s", d.Vendor, d.Product, d.Serial)
	}
	return "<invalid>"
}

func parseID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
