// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uart provides a serial port sink for replayed logs.
package uart // import "github.com/go-lpc/dlog/uart"

import (
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
)

const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 5 * time.Second
)

var (
	serialOpen = serialOpenImpl
)

func serialOpenImpl(cfg *serial.Config) (io.ReadWriteCloser, error) {
	p, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type Option func(*serial.Config)

// WithBaudRate sets the baud rate of the port.
func WithBaudRate(v int) Option {
	return func(cfg *serial.Config) {
		cfg.BaudRate = v
	}
}

// WithTimeout sets the read/write timeout of the port.
func WithTimeout(v time.Duration) Option {
	return func(cfg *serial.Config) {
		cfg.Timeout = v
	}
}

// WithParity sets the parity of the port ("N", "E" or "O").
func WithParity(v string) Option {
	return func(cfg *serial.Config) {
		cfg.Parity = v
	}
}

// Port is a serial line, configured 8 data bits and 1 stop bit.
type Port struct {
	name string
	rw   io.ReadWriteCloser
	n    int64 // bytes written
}

// Open opens the serial device named addr (e.g. /dev/ttyUSB0).
func Open(addr string, opts ...Option) (*Port, error) {
	cfg := serial.Config{
		Address:  addr,
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.Parity {
	case "N", "E", "O":
	default:
		return nil, fmt.Errorf("uart: invalid parity %q", cfg.Parity)
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("uart: invalid baud rate %d", cfg.BaudRate)
	}

	rw, err := serialOpen(&cfg)
	if err != nil {
		return nil, fmt.Errorf("uart: could not open %q: %w", addr, err)
	}
	return &Port{name: addr, rw: rw}, nil
}

func (p *Port) Name() string { return p.name }

// Written returns the number of bytes written to the port.
func (p *Port) Written() int64 { return p.n }

func (p *Port) Write(data []byte) (int, error) {
	n, err := p.rw.Write(data)
	p.n += int64(n)
	if err != nil {
		return n, fmt.Errorf("uart: could not write to %q: %w", p.name, err)
	}
	if n != len(data) {
		return n, fmt.Errorf("uart: could not write to %q: %w", p.name, io.ErrShortWrite)
	}
	return n, nil
}

func (p *Port) Read(data []byte) (int, error) {
	return p.rw.Read(data)
}

func (p *Port) Close() error {
	err := p.rw.Close()
	if err != nil {
		return fmt.Errorf("uart: could not close %q: %w", p.name, err)
	}
	return nil
}

var (
	_ io.ReadWriteCloser = (*Port)(nil)
)
