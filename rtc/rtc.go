// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rtc reads and sets the MCP7940N real-time clock of the
// logging board over SMBus.
package rtc // import "github.com/go-lpc/dlog/rtc"

import (
	"fmt"
	"time"

	"github.com/go-daq/smbus"
)

const (
	// Addr is the bus address of the MCP7940N.
	Addr = 0x6f

	regSec   = 0x00 // bit 7: oscillator start
	regMin   = 0x01
	regHour  = 0x02 // bit 6: 12h mode
	regWkDay = 0x03 // bit 3: battery enable, bit 5: oscillator running
	regDate  = 0x04
	regMonth = 0x05 // bit 5: leap year
	regYear  = 0x06

	bitST     = 0x80
	bit12h    = 0x40
	bitVBatEn = 0x08
)

type conn interface {
	ReadReg(addr, reg uint8) (uint8, error)
	WriteReg(addr, reg, v uint8) error
	Close() error
}

var (
	smbusOpen = smbusOpenImpl
)

func smbusOpenImpl(bus int, addr uint8) (conn, error) {
	c, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Clock is a MCP7940N real-time clock.
type Clock struct {
	c    conn
	addr uint8
}

// Open opens the clock on /dev/i2c-<bus>.
func Open(bus int) (*Clock, error) {
	c, err := smbusOpen(bus, Addr)
	if err != nil {
		return nil, fmt.Errorf("rtc: could not open SMBus %d: %w", bus, err)
	}
	return &Clock{c: c, addr: Addr}, nil
}

// Close closes the underlying bus connection.
func (clk *Clock) Close() error {
	return clk.c.Close()
}

// Now returns the current date and time of the clock, in UTC.
func (clk *Clock) Now() (time.Time, error) {
	var regs [regYear + 1]uint8
	for i := range regs {
		v, err := clk.c.ReadReg(clk.addr, uint8(i))
		if err != nil {
			return time.Time{}, fmt.Errorf("rtc: could not read register 0x%x: %w", i, err)
		}
		regs[i] = v
	}

	if regs[regSec]&bitST == 0 {
		return time.Time{}, fmt.Errorf("rtc: oscillator not started")
	}

	hour := regs[regHour]
	if hour&bit12h != 0 {
		return time.Time{}, fmt.Errorf("rtc: 12-hour mode not supported (hour=0x%x)", hour)
	}

	return time.Date(
		2000+fromBCD(regs[regYear]),
		time.Month(fromBCD(regs[regMonth]&0x1f)),
		fromBCD(regs[regDate]&0x3f),
		fromBCD(hour&0x3f),
		fromBCD(regs[regMin]&0x7f),
		fromBCD(regs[regSec]&0x7f),
		0, time.UTC,
	), nil
}

// Set sets the clock to t, in 24-hour mode, and starts the oscillator.
func (clk *Clock) Set(t time.Time) error {
	t = t.UTC()
	if y := t.Year(); y < 2000 || y > 2099 {
		return fmt.Errorf("rtc: year %d out of range [2000, 2099]", y)
	}

	// stop the oscillator while the time registers are updated.
	err := clk.c.WriteReg(clk.addr, regSec, 0)
	if err != nil {
		return fmt.Errorf("rtc: could not stop oscillator: %w", err)
	}

	for _, v := range []struct {
		reg uint8
		val uint8
	}{
		{regMin, toBCD(t.Minute())},
		{regHour, toBCD(t.Hour())},
		{regWkDay, uint8(t.Weekday()) + 1 | bitVBatEn},
		{regDate, toBCD(t.Day())},
		{regMonth, toBCD(int(t.Month()))},
		{regYear, toBCD(t.Year() - 2000)},
	} {
		err = clk.c.WriteReg(clk.addr, v.reg, v.val)
		if err != nil {
			return fmt.Errorf("rtc: could not write register 0x%x: %w", v.reg, err)
		}
	}

	err = clk.c.WriteReg(clk.addr, regSec, toBCD(t.Second())|bitST)
	if err != nil {
		return fmt.Errorf("rtc: could not start oscillator: %w", err)
	}
	return nil
}

func fromBCD(v uint8) int {
	return int(v>>4)*10 + int(v&0x0f)
}

func toBCD(v int) uint8 {
	return uint8(v/10)<<4 | uint8(v%10)
}
