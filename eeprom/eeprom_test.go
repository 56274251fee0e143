// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckLayout(t *testing.T) {
	err := CheckLayout()
	if err != nil {
		t.Fatalf("invalid layout: %+v", err)
	}

	if got, want := Capacity, 1000; got != want {
		t.Fatalf("invalid capacity: got=%d, want=%d", got, want)
	}
	if got, want := Size, 131072; got != want {
		t.Fatalf("invalid size: got=%d, want=%d", got, want)
	}
	if got, want := CounterAddr, 12*128; got != want {
		t.Fatalf("invalid counter address: got=%d, want=%d", got, want)
	}
	if got, want := DataBlock(999), NumBlocks-1; got != want {
		t.Fatalf("invalid last data block: got=%d, want=%d", got, want)
	}

	beg, end := DataRange()
	if beg != 24*128 || end != 131072 {
		t.Fatalf("invalid data range: [%d, %d)", beg, end)
	}
}

func TestMem(t *testing.T) {
	dev := NewMem()
	for i, v := range dev.Bytes() {
		if v != Erased {
			t.Fatalf("byte %d not erased: 0x%x", i, v)
		}
	}
	testDevice(t, dev)
}

func TestFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "eeprom.img")
	dev, err := OpenFile(fname)
	if err != nil {
		t.Fatalf("could not open image: %+v", err)
	}

	testDevice(t, dev)

	err = dev.WriteBlock(HeaderBlock, "persisted\r\n")
	if err != nil {
		t.Fatalf("could not write block: %+v", err)
	}

	err = dev.Close()
	if err != nil {
		t.Fatalf("could not close image: %+v", err)
	}

	dev, err = OpenFile(fname)
	if err != nil {
		t.Fatalf("could not re-open image: %+v", err)
	}
	defer dev.Close()

	got, err := dev.ReadBlock(HeaderBlock)
	if err != nil {
		t.Fatalf("could not read block: %+v", err)
	}
	if want := "persisted\r\n"; got != want {
		t.Fatalf("invalid block: got=%q, want=%q", got, want)
	}
}

func testDevice(t *testing.T, dev Device) {
	t.Helper()

	err := dev.WriteByte(CounterAddr, 0x03)
	if err != nil {
		t.Fatalf("could not write byte: %+v", err)
	}
	v, err := dev.ReadByte(CounterAddr)
	if err != nil {
		t.Fatalf("could not read byte: %+v", err)
	}
	if got, want := v, byte(0x03); got != want {
		t.Fatalf("invalid byte: got=0x%x, want=0x%x", got, want)
	}

	blk, err := dev.ReadBlock(FirstDataBlock)
	if err != nil {
		t.Fatalf("could not read erased block: %+v", err)
	}
	if blk != "" {
		t.Fatalf("invalid erased block: %q", blk)
	}

	long := strings.Repeat("x", 40) + "\r\n"
	err = dev.WriteBlock(FirstDataBlock, long)
	if err != nil {
		t.Fatalf("could not write block: %+v", err)
	}
	err = dev.WriteBlock(FirstDataBlock, "21,55,\r\n")
	if err != nil {
		t.Fatalf("could not write block: %+v", err)
	}
	blk, err = dev.ReadBlock(FirstDataBlock)
	if err != nil {
		t.Fatalf("could not read block: %+v", err)
	}
	if got, want := blk, "21,55,\r\n"; got != want {
		t.Fatalf("invalid block: got=%q, want=%q", got, want)
	}

	// bytes beyond the terminator are left untouched.
	v, err = dev.ReadByte(Addr(FirstDataBlock) + 20)
	if err != nil {
		t.Fatalf("could not read byte: %+v", err)
	}
	if got, want := v, byte('x'); got != want {
		t.Fatalf("invalid stale byte: got=0x%x, want=0x%x", got, want)
	}

	full := strings.Repeat("y", BlockSize)
	err = dev.WriteBlock(NumBlocks-1, full)
	if err != nil {
		t.Fatalf("could not write full block: %+v", err)
	}
	blk, err = dev.ReadBlock(NumBlocks - 1)
	if err != nil {
		t.Fatalf("could not read full block: %+v", err)
	}
	if blk != full {
		t.Fatalf("invalid full block: %q", blk)
	}

	for _, tc := range []struct {
		name string
		f    func() error
		want error
	}{
		{
			name: "block-overflow",
			f:    func() error { return dev.WriteBlock(FirstDataBlock, full+"z") },
			want: ErrBlockOverflow,
		},
		{
			name: "read-block-out-of-range",
			f: func() error {
				_, err := dev.ReadBlock(NumBlocks)
				return err
			},
			want: ErrAddress,
		},
		{
			name: "write-block-negative",
			f:    func() error { return dev.WriteBlock(-1, "") },
			want: ErrAddress,
		},
		{
			name: "read-byte-out-of-range",
			f: func() error {
				_, err := dev.ReadByte(Size)
				return err
			},
			want: ErrAddress,
		},
		{
			name: "write-byte-out-of-range",
			f:    func() error { return dev.WriteByte(-1, 0) },
			want: ErrAddress,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f()
			if !errors.Is(err, tc.want) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.want)
			}
		})
	}
}

func TestMemoryBounds(t *testing.T) {
	mem := make(memory, 4)

	_, err := mem.ReadAt(make([]byte, 2), 3)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = mem.WriteAt(make([]byte, 2), 3)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = mem.ReadAt(nil, 5)
	if got, want := err.Error(), "eeprom: invalid ReadAt offset 5"; got != want {
		t.Fatalf("invalid error: got=%q, want=%q", got, want)
	}
}
