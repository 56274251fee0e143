// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger implements a circular log of sensor records stored
// one per block in an EEPROM device.
//
// The log occupies the data blocks of the device. The index of the
// next block to write is persisted in the reserved block after every
// record, so that a log can be replayed after a power cycle.
package logger // import "github.com/go-lpc/dlog/logger"

import (
	"fmt"
	"io"
	"log"

	"github.com/go-lpc/dlog/eeprom"
)

// State is the lifecycle state of a session.
type State uint8

const (
	Uninitialized   State = iota // metadata blocks not written yet
	MetadataWritten              // header and titles written, no record yet
	Logging                      // at least one record appended
)

func (st State) String() string {
	switch st {
	case Uninitialized:
		return "uninitialized"
	case MetadataWritten:
		return "metadata-written"
	case Logging:
		return "logging"
	}
	return fmt.Sprintf("State(%d)", uint8(st))
}

// Session owns the configuration and the write cursor of a log
// stored on a device.
// A Session is not safe for concurrent use.
type Session struct {
	dev eeprom.Device
	cfg *Config
	msg *log.Logger
	hdr string

	state State
	entry int  // index of the next data block to write
	full  bool // whether the cursor wrapped at least once
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to report session events.
func WithLogger(msg *log.Logger) Option {
	return func(s *Session) {
		if msg != nil {
			s.msg = msg
		}
	}
}

// WithHeader sets the product header written to the header block.
func WithHeader(hdr string) Option {
	return func(s *Session) {
		s.hdr = hdr
	}
}

func newSession(dev eeprom.Device, cfg *Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = NewConfig()
	}
	s := &Session{
		dev: dev,
		cfg: cfg,
		msg: log.New(io.Discard, "dlog: ", 0),
		hdr: DefaultHeader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Format initializes the reserved block of dev with an empty log
// and returns a session writing its first record at the first data
// block. Data blocks are left untouched.
func Format(dev eeprom.Device, cfg *Config, opts ...Option) (*Session, error) {
	s := newSession(dev, cfg, opts...)

	for i, v := range eeprom.Magic {
		addr := eeprom.MagicAddr + i
		err := dev.WriteByte(addr, v)
		if err != nil {
			return nil, &IOError{Op: "write format magic", Addr: addr, Err: err}
		}
	}

	err := s.persist(0, false)
	if err != nil {
		return nil, fmt.Errorf("logger: could not format device: %w", err)
	}
	s.resetState()
	s.msg.Printf("formatted log (capacity=%d records)", eeprom.Capacity)

	return s, nil
}

// Open returns a session resuming the log persisted on dev.
func Open(dev eeprom.Device, cfg *Config, opts ...Option) (*Session, error) {
	s := newSession(dev, cfg, opts...)

	ctl, err := readControl(dev)
	if err != nil {
		return nil, err
	}
	if !ctl.magic {
		return nil, ErrUnformatted
	}
	if ctl.entry >= eeprom.Capacity {
		return nil, &CounterError{N: ctl.entry}
	}

	s.entry = ctl.entry
	s.full = ctl.full
	s.msg.Printf("opened log (entry=%d, full=%v)", s.entry, s.full)

	return s, nil
}

// Config returns the configuration of the session.
func (s *Session) Config() *Config { return s.cfg }

// State returns the lifecycle state of the session.
func (s *Session) State() State { return s.state }

// Entry returns the index of the next data block to write.
func (s *Session) Entry() int { return s.entry }

// Full returns whether the log wrapped around at least once.
func (s *Session) Full() bool { return s.full }

// Append writes record to the next data block and advances the
// persisted cursor. The header and titles blocks are written before
// the first record of the session.
//
// On error, the cursor is left unchanged.
func (s *Session) Append(record string) error {
	if len(record) > eeprom.BlockSize {
		return fmt.Errorf("logger: record of %d bytes: %w", len(record), eeprom.ErrBlockOverflow)
	}

	if s.state == Uninitialized {
		err := s.EnsureTitles()
		if err != nil {
			return err
		}
	}

	blk := eeprom.DataBlock(s.entry)
	err := s.dev.WriteBlock(blk, record)
	if err != nil {
		return &IOError{Op: "append record", Addr: eeprom.Addr(blk), Err: err}
	}

	next, full := s.entry+1, s.full
	if s.entry == eeprom.Capacity-1 {
		next, full = 0, true
	}

	err = s.persist(next, full)
	if err != nil {
		return err
	}

	if full && !s.full {
		s.msg.Printf("log full: cursor wrapped to block %d", eeprom.DataBlock(next))
	}
	s.entry = next
	s.full = full
	s.state = Logging
	s.cfg.freeze()

	return nil
}

// Log reads a sample from src and appends it as a new record.
// Log returns the appended record.
func (s *Session) Log(src Source) (string, error) {
	smp, err := src.Sample(s.cfg.TempUnit(), s.cfg.PressUnit())
	if err != nil {
		return "", fmt.Errorf("logger: could not read sample: %w", err)
	}

	rec, err := s.cfg.FormatRecord(smp)
	if err != nil {
		return "", err
	}

	err = s.Append(rec)
	if err != nil {
		return "", err
	}
	return rec, nil
}

// resetState resets the in-memory cursor and lifecycle of the session.
func (s *Session) resetState() {
	s.entry = 0
	s.full = false
	s.state = Uninitialized
	s.cfg.unfreeze()
}

const (
	flagFull   = 1 << 0 // the log wrapped around at least once
	flagErased = 1 << 1 // the data region was erased since the last record
)

type control struct {
	entry int
	full  bool
	magic bool
}

func readControl(dev eeprom.Device) (control, error) {
	var (
		ctl control
		raw [5]byte
	)
	for i := range raw {
		addr := eeprom.CounterAddr + i
		v, err := dev.ReadByte(addr)
		if err != nil {
			return ctl, &IOError{Op: "read control byte", Addr: addr, Err: err}
		}
		raw[i] = v
	}

	ctl.entry = int(raw[0])<<8 | int(raw[1])
	ctl.full = raw[2]&flagFull != 0
	if raw[2]&flagErased != 0 {
		ctl.entry = 0
		ctl.full = false
	}
	ctl.magic = raw[3] == eeprom.Magic[0] && raw[4] == eeprom.Magic[1]
	return ctl, nil
}

func encodeControl(entry int, full bool) [3]byte {
	var flags byte
	if full {
		flags |= flagFull
	}
	return [3]byte{uint8(entry>>8) & 0xff, uint8(entry>>0) & 0xff, flags}
}

// persist writes the cursor and flags to the reserved block.
// If a write fails, the bytes already written are restored to the
// currently persisted cursor.
func (s *Session) persist(entry int, full bool) error {
	var (
		cur = encodeControl(s.entry, s.full)
		buf = encodeControl(entry, full)
	)
	for i, v := range buf {
		addr := eeprom.CounterAddr + i
		err := s.dev.WriteByte(addr, v)
		if err != nil {
			for j := 0; j < i; j++ {
				_ = s.dev.WriteByte(eeprom.CounterAddr+j, cur[j])
			}
			return &IOError{Op: "persist entry counter", Addr: addr, Err: err}
		}
	}
	return nil
}
