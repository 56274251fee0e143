// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"io"

	"github.com/go-lpc/dlog/eeprom"
)

// Replay writes the header, project information and titles blocks to w,
// followed by the data records.
//
// Once the log is full, all the data blocks are replayed in block order.
// Otherwise, the records written since the log was formatted are replayed,
// as counted by the persisted cursor.
//
// Replay returns the number of data records emitted. Empty data blocks
// are skipped and not counted. A failing write to w stops the replay
// with a *ReplayError.
func (s *Session) Replay(w io.Writer) (int, error) {
	for _, blk := range []int{eeprom.HeaderBlock, eeprom.InfoBlock, eeprom.TitlesBlock} {
		_, err := s.emit(w, blk)
		if err != nil {
			return 0, &ReplayError{Emitted: 0, Err: err}
		}
	}

	n := eeprom.Capacity
	if !s.full {
		ctl, err := readControl(s.dev)
		if err != nil {
			return 0, &ReplayError{Emitted: 0, Err: err}
		}
		if ctl.entry >= eeprom.Capacity {
			return 0, &CounterError{N: ctl.entry}
		}
		n = ctl.entry
	}

	nrecs := 0
	for i := 0; i < n; i++ {
		ok, err := s.emit(w, eeprom.DataBlock(i))
		if err != nil {
			return nrecs, &ReplayError{Emitted: nrecs, Err: err}
		}
		if ok {
			nrecs++
		}
	}
	s.msg.Printf("replayed %d records", nrecs)

	return nrecs, nil
}

// emit writes the payload of block blk to w and reports whether the
// block held any.
func (s *Session) emit(w io.Writer, blk int) (bool, error) {
	text, err := s.dev.ReadBlock(blk)
	if err != nil {
		return false, &IOError{Op: "read block", Addr: eeprom.Addr(blk), Err: err}
	}
	if text == "" {
		return false, nil
	}
	_, err = io.WriteString(w, text)
	if err != nil {
		return false, err
	}
	return true, nil
}
