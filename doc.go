// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usbrelay is a container for the FTDI based USB relay board driver
// and its tools.
//
// Package ftdi opens the USB bridge in bit-bang mode, package sainsmart
// drives the relays on top of it and cmd/usbrelay is the command line tool.
package usbrelay
