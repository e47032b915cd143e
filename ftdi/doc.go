// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdi opens a single FTDI USB-to-serial bridge in asynchronous
// bit-bang mode and exposes the raw output port as one byte.
//
// In bit-bang mode each of the 8 data bus pins D0~D7 follows one bit of the
// last byte written to the chip. Pins that are part of the direction mask
// passed to Open are outputs, the others stay inputs. Reading returns the
// instantaneous level of all 8 pins.
//
// # Descriptors
//
// A device is selected with the same connection strings libftdi accepts:
//
//	d:<node>                      usbfs node, e.g. d:003/001 or d:/dev/bus/usb/003/001
//	i:<vendor>:<product>          first device with these ids
//	i:<vendor>:<product>:<index>  index-th device with these ids, 0 based
//	s:<vendor>:<product>:<serial> device with this serial number
//
// # Drivers
//
// The native side is hidden behind Driver and Context. Up to three drivers
// are registered depending on the platform, in order of preference:
//
//	usbfs    Linux only, pure Go on github.com/kevmo314/go-usb.
//	libftdi  requires cgo and libftdi1, works wherever libftdi does.
//	periph   periph.io/x/host/v3/ftdi over d2xx, FT232R only. Adapters are
//	         enumerated by host.Init().
//
// Package ftditest provides a simulated driver for tests.
//
// # Datasheet
//
// https://ftdichip.com/wp-content/uploads/2020/08/DS_FT232R.pdf
//
// https://ftdichip.com/wp-content/uploads/2020/08/AN_232R-01_Bit_Bang_Mode_Available_For_FT232R_and_Ft245R.pdf
package ftdi
