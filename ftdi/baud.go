// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import "errors"

// fracCode maps eighths of the divisor to the chip's sub-integer encoding.
var fracCode = [8]uint32{0, 3, 2, 4, 1, 5, 6, 7}

const baseClock = 48000000 / 16

var errBaudRate = errors.New("baud rate must be positive")

// baudDivisor returns the wValue and wIndex of the SET_BAUDRATE request for
// an AM/BM/R/230X class chip. In bit-bang mode the chip clocks the pins at a
// quarter of the programmed rate, so the rate is scaled up when bitbang is
// set.
func baudDivisor(baud int, bitbang bool) (value, index uint16, err error) {
	if baud <= 0 {
		return 0, 0, errBaudRate
	}
	if bitbang {
		baud *= 4
	}
	var encoded uint32
	switch {
	case baud >= baseClock:
		encoded = 0
	case baud >= baseClock*2/3:
		encoded = 1
	case baud >= baseClock/2:
		encoded = 2
	default:
		// Divisor in sixteenths, rounded to eighths.
		div := uint32(baseClock * 16 / baud)
		best := div / 2
		if div&1 != 0 {
			best++
		}
		if best > 0x20000 {
			best = 0x1ffff
		}
		encoded = best>>3 | fracCode[best&7]<<14
	}
	return uint16(encoded), uint16(encoded >> 16), nil
}
