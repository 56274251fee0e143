// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"fmt"
	"strings"

	"github.com/go-lpc/dlog/eeprom"
)

// DefaultHeader is the product header written to the header block.
const DefaultHeader = "Kitronik Data Logger - Air Quality & Environmental Board - www.kitronik.co.uk" + eol

// ProjectInfo describes the person and project carrying out the logging.
// Only Name is mandatory.
type ProjectInfo struct {
	Name    string
	Subject string
	Year    string
	Class   string
}

func (info ProjectInfo) String() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "Name: %s%s", info.Name, eol)
	for _, v := range []struct {
		key string
		val string
	}{
		{"Subject", info.Subject},
		{"Year", info.Year},
		{"Class", info.Class},
	} {
		if v.val == "" {
			continue
		}
		fmt.Fprintf(o, "%s: %s%s", v.key, v.val, eol)
	}
	return o.String()
}

// EnsureTitles writes the header and column titles blocks, once per
// session. Later calls are no-ops.
//
// The configuration of the session is frozen once the titles are
// written.
func (s *Session) EnsureTitles() error {
	if s.state != Uninitialized {
		return nil
	}

	err := s.writeBlock("write header", eeprom.HeaderBlock, s.hdr)
	if err != nil {
		return err
	}

	err = s.writeBlock("write titles", eeprom.TitlesBlock, s.cfg.Titles())
	if err != nil {
		return err
	}

	s.state = MetadataWritten
	s.cfg.freeze()
	return nil
}

// WriteProjectInfo writes info to the project information block,
// replacing any previous content.
func (s *Session) WriteProjectInfo(info ProjectInfo) error {
	return s.writeBlock("write project info", eeprom.InfoBlock, info.String())
}

func (s *Session) writeBlock(op string, blk int, text string) error {
	if len(text) > eeprom.BlockSize {
		return fmt.Errorf("logger: could not %s (%d bytes): %w", op, len(text), eeprom.ErrBlockOverflow)
	}
	err := s.dev.WriteBlock(blk, text)
	if err != nil {
		return &IOError{Op: op, Addr: eeprom.Addr(blk), Err: err}
	}
	return nil
}
