// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sainsmart

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// relayPin is one relay channel seen as a GPIO output. High energizes the
// relay.
type relayPin struct {
	dev    *Dev
	number int
	name   string
}

func (pin *relayPin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Deprecated: returns "Out"
func (pin *relayPin) Function() string {
	return "Out"
}

// Halt implements conn.Resource.
func (pin *relayPin) Halt() error {
	return nil
}

// In is not supported, relay pins are outputs.
func (pin *relayPin) In(pull gpio.Pull, edge gpio.Edge) error {
	return ErrNotImplemented
}

func (pin *relayPin) Name() string {
	return pin.name
}

func (pin *relayPin) Number() int {
	return pin.number
}

// Out switches the relay and verifies the board followed.
func (pin *relayPin) Out(l gpio.Level) error {
	if l {
		return pin.dev.On(pin.number)
	}
	return pin.dev.Off(pin.number)
}

func (pin *relayPin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// Read returns the relay state. Errors are logged and read as Low.
func (pin *relayPin) Read() gpio.Level {
	p, err := pin.dev.ReadPins()
	if err != nil {
		log.Println(err)
		return gpio.Low
	}
	return p&(1<<uint(pin.number)) != 0
}

func (pin *relayPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (pin *relayPin) String() string {
	return pin.name
}

func (pin *relayPin) WaitForEdge(timeout time.Duration) bool {
	return false
}

var _ gpio.PinIO = &relayPin{}
