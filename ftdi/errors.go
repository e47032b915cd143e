// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a Dev after Close.
var ErrClosed = errors.New("ftdi: device is closed")

var errNodeUnsupported = errors.New("ftdi: d: descriptors are only handled by the usbfs driver")

// AllocationError is returned when the driver cannot provide a native
// context.
type AllocationError struct {
	Driver string
	Err    error
}

func (e *AllocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ftdi: %s: failed to allocate context", e.Driver)
	}
	return fmt.Sprintf("ftdi: %s: failed to allocate context: %v", e.Driver, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// DeviceNotFoundError is returned when no adapter matches the descriptor or
// the matching adapter cannot be opened.
type DeviceNotFoundError struct {
	Descriptor string
	Err        error
}

func (e *DeviceNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ftdi: no device found using %q", e.Descriptor)
	}
	return fmt.Sprintf("ftdi: no device found using %q: %v", e.Descriptor, e.Err)
}

func (e *DeviceNotFoundError) Unwrap() error {
	return e.Err
}

// ModeConfigurationError is returned when the adapter refuses to enter
// bit-bang mode or to take the requested clock rate.
type ModeConfigurationError struct {
	Mask byte
	Err  error
}

func (e *ModeConfigurationError) Error() string {
	return fmt.Sprintf("ftdi: failed to set bit-bang mode with mask 0x%02X: %v", e.Mask, e.Err)
}

func (e *ModeConfigurationError) Unwrap() error {
	return e.Err
}

// UnsupportedChipError is returned when the detected chip is not the one the
// caller expects.
type UnsupportedChipError struct {
	Found    Chip
	Expected Chip
}

func (e *UnsupportedChipError) Error() string {
	return fmt.Sprintf("ftdi: chip type is %s, expected %s", e.Found, e.Expected)
}

// IoError is returned when a transfer to or from the adapter fails or moves
// the wrong number of bytes.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ftdi: %s failed", e.Op)
	}
	return fmt.Sprintf("ftdi: %s failed: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
