// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"fmt"
	"strings"
)

// Field is an optional column of a data record.
type Field uint8

// Fields in canonical order.
const (
	Date Field = iota
	Time
	Temperature
	Pressure
	Humidity
	IAQ
	CO2
	Light

	numFields
)

var fieldNames = [numFields]string{
	Date:        "Date",
	Time:        "Time",
	Temperature: "Temperature",
	Pressure:    "Pressure",
	Humidity:    "Humidity",
	IAQ:         "IAQ Score",
	CO2:         "eCO2",
	Light:       "Light",
}

// String returns the column title of the field.
func (f Field) String() string {
	if f >= numFields {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	return fieldNames[f]
}

// ParseField returns the field named s.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return Date, nil
	case "time":
		return Time, nil
	case "temperature", "temp":
		return Temperature, nil
	case "pressure", "press":
		return Pressure, nil
	case "humidity", "humid":
		return Humidity, nil
	case "iaq", "iaq score":
		return IAQ, nil
	case "co2", "eco2":
		return CO2, nil
	case "light":
		return Light, nil
	}
	return 0, fmt.Errorf("logger: unknown field %q: %w", s, ErrInvalidConfig)
}

// Separator selects the character written after each field.
type Separator uint8

const (
	Tab Separator = iota
	Semicolon
	Comma
	Space
)

func (sep Separator) delim() (byte, bool) {
	switch sep {
	case Tab:
		return '\t', true
	case Semicolon:
		return ';', true
	case Comma:
		return ',', true
	case Space:
		return ' ', true
	}
	return 0, false
}

// ParseSeparator returns the separator named s.
func ParseSeparator(s string) (Separator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tab":
		return Tab, nil
	case "semicolon":
		return Semicolon, nil
	case "comma":
		return Comma, nil
	case "space":
		return Space, nil
	}
	return 0, fmt.Errorf("logger: unknown separator %q: %w", s, ErrInvalidConfig)
}

type TempUnit uint8

const (
	Celsius TempUnit = iota
	Fahrenheit
)

func (u TempUnit) String() string {
	switch u {
	case Celsius:
		return "°C"
	case Fahrenheit:
		return "°F"
	}
	return fmt.Sprintf("TempUnit(%d)", uint8(u))
}

// ParseTempUnit returns the temperature unit named s.
func ParseTempUnit(s string) (TempUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	}
	return 0, fmt.Errorf("logger: unknown temperature unit %q: %w", s, ErrInvalidConfig)
}

type PressUnit uint8

const (
	Pascal PressUnit = iota
	Millibar
)

func (u PressUnit) String() string {
	switch u {
	case Pascal:
		return "Pa"
	case Millibar:
		return "mBar"
	}
	return fmt.Sprintf("PressUnit(%d)", uint8(u))
}

// ParsePressUnit returns the pressure unit named s.
func ParsePressUnit(s string) (PressUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pa", "pascal":
		return Pascal, nil
	case "mbar", "millibar":
		return Millibar, nil
	}
	return 0, fmt.Errorf("logger: unknown pressure unit %q: %w", s, ErrInvalidConfig)
}

// Config selects the fields written to each record, their
// separator and the units of the temperature and pressure readings.
//
// Fields can only be added. A Config is frozen once a session has
// written its column titles; setters then fail with ErrFrozen.
type Config struct {
	fields uint16 // bit set of included fields
	delim  byte
	tunit  TempUnit
	punit  PressUnit
	frozen bool
}

// NewConfig returns a configuration with no field and a space separator.
func NewConfig() *Config {
	return &Config{delim: ' '}
}

func (cfg *Config) IncludeDate() error     { return cfg.Include(Date) }
func (cfg *Config) IncludeTime() error     { return cfg.Include(Time) }
func (cfg *Config) IncludeHumidity() error { return cfg.Include(Humidity) }
func (cfg *Config) IncludeIAQ() error      { return cfg.Include(IAQ) }
func (cfg *Config) IncludeCO2() error      { return cfg.Include(CO2) }
func (cfg *Config) IncludeLight() error    { return cfg.Include(Light) }

// IncludeTemperature includes the temperature, read in the given unit.
func (cfg *Config) IncludeTemperature(unit TempUnit) error {
	if unit > Fahrenheit {
		return fmt.Errorf("logger: invalid temperature unit %d: %w", unit, ErrInvalidConfig)
	}
	err := cfg.Include(Temperature)
	if err != nil {
		return err
	}
	cfg.tunit = unit
	return nil
}

// IncludePressure includes the pressure, read in the given unit.
func (cfg *Config) IncludePressure(unit PressUnit) error {
	if unit > Millibar {
		return fmt.Errorf("logger: invalid pressure unit %d: %w", unit, ErrInvalidConfig)
	}
	err := cfg.Include(Pressure)
	if err != nil {
		return err
	}
	cfg.punit = unit
	return nil
}

// Include adds f to the set of fields written to each record.
func (cfg *Config) Include(f Field) error {
	if f >= numFields {
		return fmt.Errorf("logger: invalid field %d: %w", f, ErrInvalidConfig)
	}
	if cfg.frozen {
		return fmt.Errorf("logger: could not include %v: %w", f, ErrFrozen)
	}
	cfg.fields |= 1 << f
	return nil
}

// SelectSeparator sets the character written after each field.
// An unknown separator leaves the current one unchanged.
func (cfg *Config) SelectSeparator(sep Separator) error {
	c, ok := sep.delim()
	if !ok {
		return fmt.Errorf("logger: invalid separator %d: %w", sep, ErrInvalidConfig)
	}
	if cfg.frozen {
		return fmt.Errorf("logger: could not select separator: %w", ErrFrozen)
	}
	cfg.delim = c
	return nil
}

// Has returns whether f is included.
func (cfg *Config) Has(f Field) bool {
	return f < numFields && cfg.fields&(1<<f) != 0
}

// Fields returns the included fields in canonical order.
func (cfg *Config) Fields() []Field {
	var fs []Field
	for f := Date; f < numFields; f++ {
		if cfg.Has(f) {
			fs = append(fs, f)
		}
	}
	return fs
}

// Delimiter returns the character written after each field.
func (cfg *Config) Delimiter() byte {
	if cfg.delim == 0 {
		return ' '
	}
	return cfg.delim
}

func (cfg *Config) TempUnit() TempUnit   { return cfg.tunit }
func (cfg *Config) PressUnit() PressUnit { return cfg.punit }

// Frozen returns whether the configuration can no longer be modified.
func (cfg *Config) Frozen() bool { return cfg.frozen }

func (cfg *Config) freeze()   { cfg.frozen = true }
func (cfg *Config) unfreeze() { cfg.frozen = false }

// ParseConfig builds a configuration from textual field, separator
// and unit names, as found in configuration files and profiles.
// An empty separator or unit name selects the default one.
func ParseConfig(fields []string, sep, tunit, punit string) (*Config, error) {
	tu, err := ParseTempUnit(tunit)
	if err != nil {
		return nil, err
	}
	pu, err := ParsePressUnit(punit)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	if sep != "" {
		v, err := ParseSeparator(sep)
		if err != nil {
			return nil, err
		}
		_ = cfg.SelectSeparator(v)
	}

	for _, name := range fields {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		switch f {
		case Temperature:
			err = cfg.IncludeTemperature(tu)
		case Pressure:
			err = cfg.IncludePressure(pu)
		default:
			err = cfg.Include(f)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
