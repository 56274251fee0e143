// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import "fmt"

const (
	BlockSize = 128                   // size of a block, in bytes
	NumBlocks = 1024                  // number of blocks of the device
	Size      = BlockSize * NumBlocks // size of the address space, in bytes

	ReservedBlock  = 12 // persisted cursor and flags
	HeaderBlock    = 21 // product header
	InfoBlock      = 22 // project information
	TitlesBlock    = 23 // column titles
	FirstDataBlock = 24 // first block holding a data record

	// Capacity is the number of data records the device can hold.
	Capacity = NumBlocks - FirstDataBlock

	Erased = 0xff // value of an erased byte
)

// Addresses inside the reserved block.
const (
	CounterAddr = ReservedBlock * BlockSize // cursor, high byte then low byte
	FlagsAddr   = CounterAddr + 2           // bit 0: log full, bit 1: data erased
	MagicAddr   = CounterAddr + 3           // 2 bytes format magic
)

// Magic marks a reserved block written by a format operation.
var Magic = [2]byte{'D', 'L'}

// Addr returns the device address of the first byte of block blk.
func Addr(blk int) int {
	return blk * BlockSize
}

// DataBlock returns the block index holding the data record entry.
func DataBlock(entry int) int {
	return FirstDataBlock + entry
}

// DataRange returns the [beg, end) address range of the data region.
func DataRange() (beg, end int) {
	return Addr(FirstDataBlock), Size
}

// CheckLayout verifies the invariants of the storage layout.
func CheckLayout() error {
	switch {
	case NumBlocks*BlockSize != Size:
		return fmt.Errorf("eeprom: invalid address space (blocks=%d, size=%d)", NumBlocks, Size)
	case FirstDataBlock+Capacity != NumBlocks:
		return fmt.Errorf("eeprom: data region does not fill the device (first=%d, capacity=%d)", FirstDataBlock, Capacity)
	case Capacity > 0xffff:
		return fmt.Errorf("eeprom: capacity %d does not fit the 16-bit counter", Capacity)
	}

	for _, blk := range []int{ReservedBlock, HeaderBlock, InfoBlock, TitlesBlock} {
		if blk >= FirstDataBlock {
			return fmt.Errorf("eeprom: reserved block %d overlaps data region", blk)
		}
	}

	if MagicAddr+len(Magic) > Addr(ReservedBlock+1) {
		return fmt.Errorf("eeprom: control bytes overflow reserved block %d", ReservedBlock)
	}
	return nil
}

func checkBlock(blk int) error {
	if blk < 0 || blk >= NumBlocks {
		return fmt.Errorf("eeprom: invalid block %d: %w", blk, ErrAddress)
	}
	return nil
}

func checkAddr(addr int) error {
	if addr < 0 || addr >= Size {
		return fmt.Errorf("eeprom: invalid address 0x%x: %w", addr, ErrAddress)
	}
	return nil
}
