// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtc

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

type fakeConn struct {
	regs [0x20]uint8
	err  error
}

func (c *fakeConn) ReadReg(addr, reg uint8) (uint8, error) {
	if c.err != nil {
		return 0, c.err
	}
	if addr != Addr {
		return 0, fmt.Errorf("no device at 0x%x", addr)
	}
	return c.regs[reg], nil
}

func (c *fakeConn) WriteReg(addr, reg, v uint8) error {
	if c.err != nil {
		return c.err
	}
	if addr != Addr {
		return fmt.Errorf("no device at 0x%x", addr)
	}
	c.regs[reg] = v
	return nil
}

func (c *fakeConn) Close() error { return nil }

func TestClock(t *testing.T) {
	fake := &fakeConn{}
	smbusOpen = func(bus int, addr uint8) (conn, error) {
		return fake, nil
	}
	defer func() {
		smbusOpen = smbusOpenImpl
	}()

	clk, err := Open(1)
	if err != nil {
		t.Fatalf("could not open clock: %+v", err)
	}
	defer clk.Close()

	_, err = clk.Now()
	if err == nil {
		t.Fatalf("expected an error with a stopped oscillator")
	}

	want := time.Date(2026, time.October, 15, 19, 57, 42, 0, time.UTC)
	err = clk.Set(want)
	if err != nil {
		t.Fatalf("could not set clock: %+v", err)
	}

	if got, want := fake.regs[regSec], uint8(0x42|bitST); got != want {
		t.Fatalf("invalid seconds register: got=0x%x, want=0x%x", got, want)
	}
	if got, want := fake.regs[regYear], uint8(0x26); got != want {
		t.Fatalf("invalid year register: got=0x%x, want=0x%x", got, want)
	}

	got, err := clk.Now()
	if err != nil {
		t.Fatalf("could not read clock: %+v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("invalid time: got=%v, want=%v", got, want)
	}

	fake.regs[regHour] |= bit12h
	_, err = clk.Now()
	if err == nil {
		t.Fatalf("expected an error in 12-hour mode")
	}

	err = clk.Set(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected an error for an out of range year")
	}

	fake.err = io.ErrUnexpectedEOF
	_, err = clk.Now()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("invalid error: %+v", err)
	}
	err = clk.Set(want)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestBCD(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := fromBCD(toBCD(i)); got != i {
			t.Fatalf("invalid BCD round trip: got=%d, want=%d", got, i)
		}
	}
	if got, want := toBCD(59), uint8(0x59); got != want {
		t.Fatalf("invalid BCD: got=0x%x, want=0x%x", got, want)
	}
}
