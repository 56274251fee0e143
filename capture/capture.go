// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package capture decodes the text stream produced by a log replay
// and exports it to CSV.
package capture // import "github.com/go-lpc/dlog/capture"

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-lpc/dlog/logger"
	"golang.org/x/xerrors"
)

const eol = "\r\n"

// Capture is a decoded replay stream.
type Capture struct {
	Header  string             // product header, without line terminator
	Info    logger.ProjectInfo // project information, if any
	Fields  []logger.Field     // columns, in record order
	Delim   byte               // field separator
	Records [][]string         // one row of values per data record
}

type decoder struct {
	r    *bufio.Reader
	line int
	err  error
}

func (dec *decoder) next() (string, bool) {
	if dec.err != nil {
		return "", false
	}
	txt, err := dec.r.ReadString('\n')
	switch {
	case err == io.EOF && txt == "":
		return "", false
	case err == io.EOF:
		dec.line++
		dec.err = xerrors.Errorf("capture: line %d is truncated: %w", dec.line, io.ErrUnexpectedEOF)
		return "", false
	case err != nil:
		dec.err = xerrors.Errorf("capture: could not read line %d: %w", dec.line+1, err)
		return "", false
	}
	dec.line++
	if !strings.HasSuffix(txt, eol) {
		dec.err = xerrors.Errorf("capture: line %d is not CRLF terminated", dec.line)
		return "", false
	}
	return strings.TrimSuffix(txt, eol), true
}

// Parse decodes a replay stream: an optional product header, optional
// project information lines, the column titles and the data records.
func Parse(r io.Reader) (*Capture, error) {
	var (
		dec = &decoder{r: bufio.NewReader(r)}
		c   = new(Capture)
	)

	line, ok := dec.next()
	if !ok {
		if dec.err != nil {
			return nil, dec.err
		}
		return nil, xerrors.Errorf("capture: could not read header: %w", io.EOF)
	}

	_, _, isTitles := parseTitles(line)
	if !isTitles && !isInfo(line) {
		c.Header = line
		line, ok = dec.next()
	}

	for ok && isInfo(line) {
		setInfo(&c.Info, line)
		line, ok = dec.next()
	}
	if !ok {
		if dec.err != nil {
			return nil, dec.err
		}
		return nil, xerrors.Errorf("capture: could not read column titles: %w", io.ErrUnexpectedEOF)
	}

	c.Fields, c.Delim, ok = parseTitles(line)
	if !ok {
		return nil, xerrors.Errorf("capture: line %d: invalid column titles %q", dec.line, line)
	}

	for {
		line, ok = dec.next()
		if !ok {
			break
		}
		if !strings.HasSuffix(line, string(c.Delim)) {
			return nil, xerrors.Errorf("capture: line %d: record does not end with %q", dec.line, c.Delim)
		}
		row := strings.Split(strings.TrimSuffix(line, string(c.Delim)), string(c.Delim))
		if len(row) != len(c.Fields) {
			return nil, xerrors.Errorf(
				"capture: line %d: invalid number of values (got=%d, want=%d)",
				dec.line, len(row), len(c.Fields),
			)
		}
		c.Records = append(c.Records, row)
	}
	if dec.err != nil {
		return nil, dec.err
	}

	return c, nil
}

// parseTitles decodes a column titles line. The separator is the
// character terminating the line.
func parseTitles(line string) ([]logger.Field, byte, bool) {
	if line == "" {
		return nil, 0, false
	}
	var (
		delim  = line[len(line)-1]
		fields []logger.Field
	)
loop:
	for rest := line; rest != ""; {
		// titles may contain the space separator, so match whole names.
		for f := logger.Date; f <= logger.Light; f++ {
			name := f.String() + string(delim)
			if strings.HasPrefix(rest, name) {
				fields = append(fields, f)
				rest = rest[len(name):]
				continue loop
			}
		}
		return nil, 0, false
	}
	return fields, delim, true
}

var infoKeys = []string{"Name", "Subject", "Year", "Class"}

func isInfo(line string) bool {
	key, _, ok := strings.Cut(line, ": ")
	if !ok {
		return false
	}
	for _, k := range infoKeys {
		if k == key {
			return true
		}
	}
	return false
}

func setInfo(info *logger.ProjectInfo, line string) {
	key, val, _ := strings.Cut(line, ": ")
	switch key {
	case "Name":
		info.Name = val
	case "Subject":
		info.Subject = val
	case "Year":
		info.Year = val
	case "Class":
		info.Class = val
	}
}
