// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sainsmart drives the SainSmart 4 channel USB relay board.
//
// The board is an FT232RL in asynchronous bit-bang mode; data bus pins D0~D3
// each drive one relay through a transistor. A 1 energizes the relay. D4~D7
// are not connected and are always kept at 0 by this driver.
//
// Every change to the relays through SetAndCheck, FrobPins, On, Off or a
// channel pin is read back and compared. USB transfers that report success
// but don't land are reported as *VerificationMismatchError.
//
// # Product
//
// https://www.sainsmart.com/products/4-channel-5v-usb-relay-module
//
// # Datasheet
//
// https://ftdichip.com/wp-content/uploads/2020/08/DS_FT232R.pdf
package sainsmart
