// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"github.com/go-lpc/dlog/eeprom"
)

// EraseAll sets every byte of the data region to 0xff, one byte at a
// time. The reserved, header, project information and titles blocks
// are left untouched.
//
// progress, if not nil, is called each time the completed percentage
// changes, with the number of bytes erased so far and the size of the
// data region.
//
// EraseAll then marks the log as erased in the flags byte of the
// reserved block and resets the in-memory state of the session: the
// next record is written to the first data block and the metadata
// blocks are written again. The persisted counter bytes are left
// untouched; a session opened after the erase starts from the first
// data block too.
func (s *Session) EraseAll(progress func(done, total int)) error {
	var (
		beg, end = eeprom.DataRange()
		total    = end - beg
		pct      = -1
	)

	for addr := beg; addr < end; addr++ {
		err := s.dev.WriteByte(addr, eeprom.Erased)
		if err != nil {
			return &IOError{Op: "erase", Addr: addr, Err: err}
		}
		if progress == nil {
			continue
		}
		done := addr - beg + 1
		if p := done * 100 / total; p != pct {
			pct = p
			progress(done, total)
		}
	}

	err := s.dev.WriteByte(eeprom.FlagsAddr, flagErased)
	if err != nil {
		return &IOError{Op: "mark log erased", Addr: eeprom.FlagsAddr, Err: err}
	}

	s.resetState()
	s.msg.Printf("erased %d bytes", total)

	return nil
}
