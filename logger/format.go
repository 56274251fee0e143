// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-lpc/dlog/eeprom"
)

const eol = "\r\n"

// Sample holds one reading of every field.
type Sample struct {
	Date        string
	Time        string
	Temperature float64
	Pressure    float64
	Humidity    float64
	IAQ         float64
	CO2         float64
	Light       float64
}

// Source provides samples, reading temperature and pressure in the
// requested units.
type Source interface {
	Sample(tu TempUnit, pu PressUnit) (Sample, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(tu TempUnit, pu PressUnit) (Sample, error)

func (f SourceFunc) Sample(tu TempUnit, pu PressUnit) (Sample, error) { return f(tu, pu) }

func (s Sample) text(f Field) string {
	switch f {
	case Date:
		return s.Date
	case Time:
		return s.Time
	case Temperature:
		return formatValue(s.Temperature)
	case Pressure:
		return formatValue(s.Pressure)
	case Humidity:
		return formatValue(s.Humidity)
	case IAQ:
		return formatValue(s.IAQ)
	case CO2:
		return formatValue(s.CO2)
	case Light:
		return formatValue(s.Light)
	}
	panic(fmt.Errorf("logger: invalid field %d", f))
}

// formatValue renders v rounded to 2 decimal places, without trailing zeros.
func formatValue(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// row renders the included fields in canonical order, each one
// followed by the delimiter, and terminates the line.
func (cfg *Config) row(text func(Field) string) string {
	var (
		o     strings.Builder
		delim = cfg.Delimiter()
	)
	for _, f := range cfg.Fields() {
		o.WriteString(text(f))
		o.WriteByte(delim)
	}
	o.WriteString(eol)
	return o.String()
}

// Titles returns the column titles line.
func (cfg *Config) Titles() string {
	return cfg.row(Field.String)
}

// FormatRecord renders the included fields of s as one record line.
func (cfg *Config) FormatRecord(s Sample) (string, error) {
	rec := cfg.row(s.text)
	if len(rec) > eeprom.BlockSize {
		return "", fmt.Errorf("logger: record of %d bytes: %w", len(rec), eeprom.ErrBlockOverflow)
	}
	return rec, nil
}
