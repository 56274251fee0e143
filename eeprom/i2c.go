// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// DefaultI2CAddr is the 7-bit bus address of the lower bank of
	// the EEPROM fitted on the logging board.
	DefaultI2CAddr = 0x54

	i2cSlave    = 0x0703 // I2C_SLAVE ioctl request
	i2cBankSize = 1 << 16
	i2cPageSize = 256
	i2cCycle    = 5 * time.Millisecond // write cycle time
)

type i2cBus interface {
	SetAddr(addr uint8) error

	io.Reader
	io.Writer
	io.Closer
}

var (
	i2cOpen = i2cOpenImpl
)

type i2cFile struct {
	f *os.File
}

func i2cOpenImpl(bus int) (i2cBus, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/i2c-%d", bus), os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	return &i2cFile{f: f}, nil
}

func (bus *i2cFile) SetAddr(addr uint8) error {
	return unix.IoctlSetInt(int(bus.f.Fd()), i2cSlave, int(addr))
}

func (bus *i2cFile) Read(p []byte) (int, error)  { return bus.f.Read(p) }
func (bus *i2cFile) Write(p []byte) (int, error) { return bus.f.Write(p) }
func (bus *i2cFile) Close() error                { return bus.f.Close() }

// I2C is a Device talking to a 1Mbit EEPROM chip over an I2C bus.
// The chip is addressed with 16-bit word addresses, the 17th address
// bit selecting the upper bank through bit 0 of the bus address.
type I2C struct {
	image

	bus  i2cBus
	addr uint8 // bus address of the lower bank
	sel  int   // currently selected bus address, -1 if none
	wait time.Duration
}

// OpenI2C opens the EEPROM at bus address addr on /dev/i2c-<bus>.
func OpenI2C(bus int, addr uint8) (*I2C, error) {
	h, err := i2cOpen(bus)
	if err != nil {
		return nil, fmt.Errorf("eeprom: could not open I2C bus %d: %w", bus, err)
	}

	dev := &I2C{
		bus:  h,
		addr: addr,
		sel:  -1,
		wait: i2cCycle,
	}
	dev.image = image{r: dev, w: dev}

	err = dev.selectBank(0)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("eeprom: could not select EEPROM 0x%x on bus %d: %w", addr, bus, err)
	}
	return dev, nil
}

// Close closes the underlying bus.
func (dev *I2C) Close() error {
	return dev.bus.Close()
}

func (dev *I2C) selectBank(off int64) error {
	addr := int(dev.addr) | int(off/i2cBankSize)
	if addr == dev.sel {
		return nil
	}
	err := dev.bus.SetAddr(uint8(addr))
	if err != nil {
		dev.sel = -1
		return fmt.Errorf("could not set I2C address 0x%x: %w", addr, err)
	}
	dev.sel = addr
	return nil
}

// ReadAt implements io.ReaderAt with sequential reads, split at bank
// boundaries.
func (dev *I2C) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > Size {
		return 0, fmt.Errorf("eeprom: invalid ReadAt offset %d: %w", off, ErrAddress)
	}

	n := 0
	for len(p) > 0 {
		sz := int64(i2cBankSize) - off%i2cBankSize
		if sz > int64(len(p)) {
			sz = int64(len(p))
		}

		err := dev.selectBank(off)
		if err != nil {
			return n, err
		}

		err = dev.writeFull(wordAddr(off))
		if err != nil {
			return n, fmt.Errorf("could not set read address 0x%x: %w", off, err)
		}

		_, err = io.ReadFull(dev.bus, p[:sz])
		if err != nil {
			return n, fmt.Errorf("could not read %d bytes at 0x%x: %w", sz, off, err)
		}

		n += int(sz)
		off += sz
		p = p[sz:]
	}
	return n, nil
}

// WriteAt implements io.WriterAt with page writes.
func (dev *I2C) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > Size {
		return 0, fmt.Errorf("eeprom: invalid WriteAt offset %d: %w", off, ErrAddress)
	}

	n := 0
	for len(p) > 0 {
		sz := int64(i2cPageSize) - off%i2cPageSize
		if sz > int64(len(p)) {
			sz = int64(len(p))
		}

		err := dev.selectBank(off)
		if err != nil {
			return n, err
		}

		buf := append(wordAddr(off), p[:sz]...)
		err = dev.writeFull(buf)
		if err != nil {
			return n, fmt.Errorf("could not write %d bytes at 0x%x: %w", sz, off, err)
		}
		time.Sleep(dev.wait)

		n += int(sz)
		off += sz
		p = p[sz:]
	}
	return n, nil
}

func (dev *I2C) writeFull(p []byte) error {
	n, err := dev.bus.Write(p)
	switch {
	case err != nil:
		return err
	case n != len(p):
		return io.ErrShortWrite
	}
	return nil
}

func wordAddr(off int64) []byte {
	a := off % i2cBankSize
	return []byte{uint8(a>>8) & 0xff, uint8(a>>0) & 0xff}
}

var (
	_ Device      = (*I2C)(nil)
	_ io.ReaderAt = (*I2C)(nil)
	_ io.WriterAt = (*I2C)(nil)
)
