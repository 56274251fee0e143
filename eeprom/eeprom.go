// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eeprom holds the storage layout of the data logger and
// devices exposing byte and block access to a 128KiB EEPROM image.
package eeprom // import "github.com/go-lpc/dlog/eeprom"

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrAddress       = errors.New("eeprom: address out of range")
	ErrBlockOverflow = errors.New("eeprom: payload does not fit in a block")
)

// Device is a byte-addressable non-volatile store organized in
// NumBlocks blocks of BlockSize bytes.
type Device interface {
	ReadByte(addr int) (byte, error)
	WriteByte(addr int, v byte) error

	// ReadBlock returns the text payload stored in block blk.
	// The payload ends at the first 0x00 or 0xff byte, or at the end
	// of the block.
	ReadBlock(blk int) (string, error)

	// WriteBlock stores text at the beginning of block blk.
	// A payload shorter than a block is followed by a single 0x00 byte,
	// the rest of the block is left untouched.
	WriteBlock(blk int, text string) error
}

// image implements Device on top of a random access store.
type image struct {
	r io.ReaderAt
	w io.WriterAt
}

func (img image) ReadByte(addr int) (byte, error) {
	err := checkAddr(addr)
	if err != nil {
		return 0, err
	}

	var p [1]byte
	_, err = img.r.ReadAt(p[:], int64(addr))
	if err != nil {
		return 0, fmt.Errorf("eeprom: could not read byte 0x%x: %w", addr, err)
	}
	return p[0], nil
}

func (img image) WriteByte(addr int, v byte) error {
	err := checkAddr(addr)
	if err != nil {
		return err
	}

	_, err = img.w.WriteAt([]byte{v}, int64(addr))
	if err != nil {
		return fmt.Errorf("eeprom: could not write byte 0x%x: %w", addr, err)
	}
	return nil
}

func (img image) ReadBlock(blk int) (string, error) {
	err := checkBlock(blk)
	if err != nil {
		return "", err
	}

	p := make([]byte, BlockSize)
	_, err = img.r.ReadAt(p, int64(Addr(blk)))
	if err != nil {
		return "", fmt.Errorf("eeprom: could not read block %d: %w", blk, err)
	}
	return payload(p), nil
}

func (img image) WriteBlock(blk int, text string) error {
	err := checkBlock(blk)
	if err != nil {
		return err
	}
	if len(text) > BlockSize {
		return fmt.Errorf("eeprom: could not write %d bytes to block %d: %w", len(text), blk, ErrBlockOverflow)
	}

	p := make([]byte, len(text), BlockSize)
	copy(p, text)
	if len(p) < BlockSize {
		p = append(p, 0x00)
	}

	_, err = img.w.WriteAt(p, int64(Addr(blk)))
	if err != nil {
		return fmt.Errorf("eeprom: could not write block %d: %w", blk, err)
	}
	return nil
}

func payload(p []byte) string {
	for i, v := range p {
		if v == 0x00 || v == Erased {
			return string(p[:i])
		}
	}
	return string(p)
}

var (
	_ Device = (*image)(nil)
)
