// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-lpc/dlog/logger"
)

type fixedClock time.Time

func (clk fixedClock) Now() (time.Time, error) { return time.Time(clk), nil }

type fixedEnv struct {
	temp, press, hum, iaq, co2 float64
	err                        error
}

func (env fixedEnv) Temperature() (float64, error) { return env.temp, nil }
func (env fixedEnv) Pressure() (float64, error)    { return env.press, nil }
func (env fixedEnv) Humidity() (float64, error)    { return env.hum, env.err }
func (env fixedEnv) IAQ() (float64, error)         { return env.iaq, nil }
func (env fixedEnv) CO2() (float64, error)         { return env.co2, nil }

type fixedLight float64

func (v fixedLight) Light() (float64, error) { return float64(v), nil }

func TestBoard(t *testing.T) {
	board := &Board{
		Clock: fixedClock(time.Date(2026, time.October, 15, 9, 5, 7, 0, time.UTC)),
		Env:   fixedEnv{temp: 20, press: 101325, hum: 47.1, iaq: 12, co2: 412.5},
		Light: fixedLight(4),
	}

	for _, tc := range []struct {
		name  string
		tu    logger.TempUnit
		pu    logger.PressUnit
		temp  float64
		press float64
	}{
		{"C-Pa", logger.Celsius, logger.Pascal, 20, 101325},
		{"F-mBar", logger.Fahrenheit, logger.Millibar, 68, 1013.25},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := board.Sample(tc.tu, tc.pu)
			if err != nil {
				t.Fatalf("could not sample: %+v", err)
			}
			want := logger.Sample{
				Date:        "15/10/2026",
				Time:        "09:05:07",
				Temperature: tc.temp,
				Pressure:    tc.press,
				Humidity:    47.1,
				IAQ:         12,
				CO2:         412.5,
				Light:       4,
			}
			if got := s; got != want {
				t.Fatalf("invalid sample:\ngot= %+v\nwant=%+v", got, want)
			}
		})
	}

	board.Env = fixedEnv{err: io.ErrUnexpectedEOF}
	_, err := board.Sample(logger.Celsius, logger.Pascal)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("invalid error: %+v", err)
	}

	board.Env = nil
	_, err = board.Sample(logger.Celsius, logger.Pascal)
	if err == nil {
		t.Fatalf("expected an error without environment sensor")
	}

	_, err = Celsius(logger.TempUnit(42), 0)
	if !errors.Is(err, logger.ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}
	_, err = Pascal(logger.PressUnit(42), 0)
	if !errors.Is(err, logger.ErrInvalidConfig) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestSim(t *testing.T) {
	var (
		s1 = NewSim(1234)
		s2 = NewSim(1234)
		b1 = &Board{Env: s1, Light: s1}
		b2 = &Board{Env: s2, Light: s2}
	)

	for i := 0; i < 100; i++ {
		v1, err := b1.Sample(logger.Celsius, logger.Pascal)
		if err != nil {
			t.Fatalf("could not sample: %+v", err)
		}
		v2, err := b2.Sample(logger.Celsius, logger.Pascal)
		if err != nil {
			t.Fatalf("could not sample: %+v", err)
		}
		v1.Date, v1.Time = "", ""
		v2.Date, v2.Time = "", ""
		if v1 != v2 {
			t.Fatalf("simulation not reproducible at %d:\ns1=%+v\ns2=%+v", i, v1, v2)
		}
		if v1.Humidity < 0 || v1.Humidity > 100 {
			t.Fatalf("humidity out of range: %v", v1.Humidity)
		}
		if v1.Light < 0 || v1.Light > 255 {
			t.Fatalf("light out of range: %v", v1.Light)
		}
	}

	cfg := logger.NewConfig()
	_ = cfg.IncludeDate()
	_ = cfg.IncludeTemperature(logger.Celsius)
	_ = cfg.IncludeLight()
	rec, err := cfg.FormatRecord(mustSample(t, b1))
	if err != nil {
		t.Fatalf("could not format record: %+v", err)
	}
	if len(rec) > 128 {
		t.Fatalf("record too long: %q", rec)
	}
}

func mustSample(t *testing.T, src logger.Source) logger.Sample {
	t.Helper()
	s, err := src.Sample(logger.Celsius, logger.Pascal)
	if err != nil {
		t.Fatalf("could not sample: %+v", err)
	}
	return s
}
