// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"fmt"
	"io"
)

// Mem is a Device backed by a byte slice.
// A new Mem device is fully erased.
type Mem struct {
	image
	buf memory
}

// NewMem returns a new erased in-memory device.
func NewMem() *Mem {
	buf := make(memory, Size)
	for i := range buf {
		buf[i] = Erased
	}
	return &Mem{
		image: image{r: buf, w: buf},
		buf:   buf,
	}
}

// Bytes returns the content of the device.
func (dev *Mem) Bytes() []byte {
	return dev.buf
}

type memory []byte

func (mem memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int64(len(mem)) < off {
		return 0, fmt.Errorf("eeprom: invalid ReadAt offset %d", off)
	}
	n := copy(p, mem[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (mem memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || int64(len(mem)) < off {
		return 0, fmt.Errorf("eeprom: invalid WriteAt offset %d", off)
	}
	n := copy(mem[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

var (
	_ Device      = (*Mem)(nil)
	_ io.ReaderAt = (memory)(nil)
	_ io.WriterAt = (memory)(nil)
)
