// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"fmt"

	"github.com/go-lpc/dlog/internal/mmap"
)

// File is a Device backed by a memory-mapped image file.
type File struct {
	image
	h *mmap.Handle
}

// OpenFile opens the named EEPROM image, creating an erased one
// if it does not exist yet.
func OpenFile(fname string) (*File, error) {
	h, err := mmap.Open(fname, Size, Erased)
	if err != nil {
		return nil, fmt.Errorf("eeprom: could not open image %q: %w", fname, err)
	}
	return &File{
		image: image{r: h, w: h},
		h:     h,
	}, nil
}

// Sync flushes the image to disk.
func (dev *File) Sync() error {
	err := dev.h.Sync()
	if err != nil {
		return fmt.Errorf("eeprom: could not sync image: %w", err)
	}
	return nil
}

// Close flushes and closes the image.
func (dev *File) Close() error {
	err := dev.Sync()
	if err != nil {
		_ = dev.h.Close()
		return err
	}
	return dev.h.Close()
}

var (
	_ Device = (*File)(nil)
)
