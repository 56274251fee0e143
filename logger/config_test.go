// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/dlog/eeprom"
)

func TestConfig(t *testing.T) {
	cfg := NewConfig()
	if got, want := cfg.Delimiter(), byte(' '); got != want {
		t.Fatalf("invalid default delimiter: got=%q, want=%q", got, want)
	}
	if got := cfg.Fields(); len(got) != 0 {
		t.Fatalf("invalid default fields: %v", got)
	}

	var zero Config
	if got, want := zero.Delimiter(), byte(' '); got != want {
		t.Fatalf("invalid zero-value delimiter: got=%q, want=%q", got, want)
	}

	for _, f := range []func() error{
		cfg.IncludeLight,
		cfg.IncludeHumidity,
		cfg.IncludeDate,
		cfg.IncludeLight,
		func() error { return cfg.IncludeTemperature(Fahrenheit) },
		func() error { return cfg.IncludePressure(Millibar) },
	} {
		err := f()
		if err != nil {
			t.Fatalf("could not include field: %+v", err)
		}
	}

	want := []Field{Date, Temperature, Pressure, Humidity, Light}
	if got := cfg.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid fields:\ngot= %v\nwant=%v", got, want)
	}
	if got, want := cfg.TempUnit(), Fahrenheit; got != want {
		t.Fatalf("invalid temperature unit: got=%v, want=%v", got, want)
	}
	if got, want := cfg.PressUnit(), Millibar; got != want {
		t.Fatalf("invalid pressure unit: got=%v, want=%v", got, want)
	}

	for _, tc := range []struct {
		sep  Separator
		want byte
	}{
		{Tab, '\t'},
		{Semicolon, ';'},
		{Comma, ','},
		{Space, ' '},
	} {
		err := cfg.SelectSeparator(tc.sep)
		if err != nil {
			t.Fatalf("could not select separator %d: %+v", tc.sep, err)
		}
		if got := cfg.Delimiter(); got != tc.want {
			t.Fatalf("invalid delimiter: got=%q, want=%q", got, tc.want)
		}
	}

	err := cfg.SelectSeparator(Comma)
	if err != nil {
		t.Fatalf("could not select separator: %+v", err)
	}
	err = cfg.SelectSeparator(Separator(42))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}
	if got, want := cfg.Delimiter(), byte(','); got != want {
		t.Fatalf("unknown separator modified delimiter: got=%q, want=%q", got, want)
	}

	err = cfg.IncludeTemperature(TempUnit(7))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}
	if got, want := cfg.TempUnit(), Fahrenheit; got != want {
		t.Fatalf("unknown unit modified config: got=%v, want=%v", got, want)
	}

	err = cfg.IncludePressure(PressUnit(7))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}

	err = cfg.Include(numFields)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}

	cfg.freeze()
	for _, f := range []func() error{
		cfg.IncludeCO2,
		func() error { return cfg.SelectSeparator(Tab) },
		func() error { return cfg.IncludeTemperature(Celsius) },
	} {
		err := f()
		if !errors.Is(err, ErrFrozen) {
			t.Fatalf("invalid error: %+v", err)
		}
	}
	if cfg.Has(CO2) {
		t.Fatalf("frozen config was modified")
	}
	if got, want := cfg.TempUnit(), Fahrenheit; got != want {
		t.Fatalf("frozen config was modified: got=%v, want=%v", got, want)
	}
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Field
	}{
		{"date", Date},
		{"Time", Time},
		{"temp", Temperature},
		{"PRESSURE", Pressure},
		{"humidity", Humidity},
		{"iaq", IAQ},
		{"eCO2", CO2},
		{" light ", Light},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseField(tc.name)
			if err != nil {
				t.Fatalf("could not parse field: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("invalid field: got=%v, want=%v", got, tc.want)
			}
		})
	}

	_, err := ParseField("altitude")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}

	sep, err := ParseSeparator("semicolon")
	if err != nil || sep != Semicolon {
		t.Fatalf("invalid separator: %v, %+v", sep, err)
	}
	_, err = ParseSeparator("pipe")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}

	tu, err := ParseTempUnit("F")
	if err != nil || tu != Fahrenheit {
		t.Fatalf("invalid temperature unit: %v, %+v", tu, err)
	}
	pu, err := ParsePressUnit("mbar")
	if err != nil || pu != Millibar {
		t.Fatalf("invalid pressure unit: %v, %+v", pu, err)
	}
	_, err = ParsePressUnit("psi")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestFormatRecord(t *testing.T) {
	cfg := NewConfig()
	_ = cfg.IncludeHumidity()
	_ = cfg.IncludeTemperature(Celsius)
	_ = cfg.SelectSeparator(Comma)

	if got, want := cfg.Titles(), "Temperature,Humidity,\r\n"; got != want {
		t.Fatalf("invalid titles: got=%q, want=%q", got, want)
	}

	smp := Sample{Temperature: 21, Humidity: 55}
	rec, err := cfg.FormatRecord(smp)
	if err != nil {
		t.Fatalf("could not format record: %+v", err)
	}
	if got, want := rec, "21,55,\r\n"; got != want {
		t.Fatalf("invalid record: got=%q, want=%q", got, want)
	}

	again, err := cfg.FormatRecord(smp)
	if err != nil {
		t.Fatalf("could not format record: %+v", err)
	}
	if again != rec {
		t.Fatalf("formatting is not deterministic: %q != %q", again, rec)
	}

	all := NewConfig()
	for f := Light; ; f-- {
		_ = all.Include(f)
		if f == Date {
			break
		}
	}
	_ = all.SelectSeparator(Tab)
	if got, want := all.Titles(), "Date\tTime\tTemperature\tPressure\tHumidity\tIAQ Score\teCO2\tLight\t\r\n"; got != want {
		t.Fatalf("invalid titles:\ngot= %q\nwant=%q", got, want)
	}

	rec, err = all.FormatRecord(Sample{
		Date:        "15/10/2026",
		Time:        "12:34:56",
		Temperature: 21.456,
		Pressure:    101325,
		Humidity:    47.1,
		IAQ:         -0.001,
		CO2:         412.5,
		Light:       3.999,
	})
	if err != nil {
		t.Fatalf("could not format record: %+v", err)
	}
	if got, want := rec, "15/10/2026\t12:34:56\t21.46\t101325\t47.1\t0\t412.5\t4\t\r\n"; got != want {
		t.Fatalf("invalid record:\ngot= %q\nwant=%q", got, want)
	}

	empty := NewConfig()
	rec, err = empty.FormatRecord(smp)
	if err != nil {
		t.Fatalf("could not format empty record: %+v", err)
	}
	if got, want := rec, "\r\n"; got != want {
		t.Fatalf("invalid empty record: got=%q, want=%q", got, want)
	}

	long := NewConfig()
	_ = long.IncludeDate()
	_, err = long.FormatRecord(Sample{Date: strings.Repeat("x", eeprom.BlockSize)})
	if !errors.Is(err, eeprom.ErrBlockOverflow) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]string{"light", "Temperature", "date", "press"}, "semicolon", "F", "mbar")
	if err != nil {
		t.Fatalf("could not parse config: %+v", err)
	}
	if got, want := cfg.Titles(), "Date;Temperature;Pressure;Light;\r\n"; got != want {
		t.Fatalf("invalid titles: got=%q, want=%q", got, want)
	}
	if got, want := cfg.TempUnit(), Fahrenheit; got != want {
		t.Fatalf("invalid temperature unit: got=%v, want=%v", got, want)
	}
	if got, want := cfg.PressUnit(), Millibar; got != want {
		t.Fatalf("invalid pressure unit: got=%v, want=%v", got, want)
	}

	cfg, err = ParseConfig(nil, "", "", "")
	if err != nil {
		t.Fatalf("could not parse default config: %+v", err)
	}
	if got, want := cfg.Delimiter(), byte(' '); got != want {
		t.Fatalf("invalid delimiter: got=%q, want=%q", got, want)
	}

	for _, tc := range []struct {
		fields             []string
		sep, tunit, punits string
	}{
		{fields: []string{"wind"}},
		{sep: "pipe"},
		{tunit: "kelvin"},
		{punits: "atm"},
	} {
		_, err := ParseConfig(tc.fields, tc.sep, tc.tunit, tc.punits)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("invalid error for %+v: %+v", tc, err)
		}
	}
}
