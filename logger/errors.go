// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"errors"
	"fmt"

	"github.com/go-lpc/dlog/eeprom"
)

var (
	ErrInvalidConfig = errors.New("logger: invalid configuration")
	ErrFrozen        = errors.New("logger: configuration is frozen")
	ErrUnformatted   = errors.New("logger: device is not formatted")
)

// IOError describes a failed storage access.
type IOError struct {
	Op   string // operation being performed
	Addr int    // device address of the access
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("logger: could not %s at 0x%x (block %d): %v",
		e.Op, e.Addr, e.Block(), e.Err,
	)
}

func (e *IOError) Unwrap() error { return e.Err }

// Block returns the block holding the accessed address.
func (e *IOError) Block() int { return e.Addr / eeprom.BlockSize }

// CounterError is returned when the persisted entry counter lies
// outside of the data region.
type CounterError struct {
	N int // persisted counter value
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("logger: persisted entry counter %d out of range [0, %d)",
		e.N, eeprom.Capacity,
	)
}

// ReplayError is returned when a replay stopped before completion.
type ReplayError struct {
	Emitted int // number of data records emitted before the failure
	Err     error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("logger: replay stopped after %d records: %v", e.Emitted, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }
