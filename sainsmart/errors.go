// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sainsmart

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned by pin functions the board doesn't have.
	ErrNotImplemented = errors.New("sainsmart: not implemented")
	// ErrInvalidChannels is returned by New for a channel count outside 1~8.
	ErrInvalidChannels = errors.New("sainsmart: channel count must be between 1 and 8")
)

// VerificationMismatchError is returned when the pins read back after a
// write differ from the value written.
type VerificationMismatchError struct {
	Expected Pins
	Actual   Pins
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("sainsmart: failed to set pins correctly, expected %s, got %s", e.Expected, e.Actual)
}

// ChannelError is returned for a channel index outside [0, Channels-1].
type ChannelError struct {
	Channel  int
	Channels int
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("sainsmart: invalid channel %d, valid channels are 0 to %d", e.Channel, e.Channels-1)
}
