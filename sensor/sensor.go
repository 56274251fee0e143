// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sensor assembles the readings of the logging board into
// samples for the data logger.
package sensor // import "github.com/go-lpc/dlog/sensor"

import (
	"fmt"
	"time"

	"github.com/go-lpc/dlog/logger"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"
)

// Clock provides the current date and time.
type Clock interface {
	Now() (time.Time, error)
}

// Environment provides the environmental readings of the board.
// Temperatures are in degrees Celsius and pressures in Pascal.
type Environment interface {
	Temperature() (float64, error)
	Pressure() (float64, error)
	Humidity() (float64, error)
	IAQ() (float64, error)
	CO2() (float64, error)
}

// LightMeter provides the ambient light level.
type LightMeter interface {
	Light() (float64, error)
}

// SystemClock is a Clock reading the host time.
type SystemClock struct{}

func (SystemClock) Now() (time.Time, error) { return time.Now(), nil }

// Board is a logger.Source reading all fields from its collaborators.
type Board struct {
	Clock Clock
	Env   Environment
	Light LightMeter
}

// Sample reads one value of every field, converting temperature and
// pressure to the requested units.
func (b *Board) Sample(tu logger.TempUnit, pu logger.PressUnit) (logger.Sample, error) {
	var (
		s   logger.Sample
		err error
	)

	clk := b.Clock
	if clk == nil {
		clk = SystemClock{}
	}
	now, err := clk.Now()
	if err != nil {
		return s, fmt.Errorf("sensor: could not read clock: %w", err)
	}
	s.Date = now.Format(DateLayout)
	s.Time = now.Format(TimeLayout)

	if b.Env == nil {
		return s, fmt.Errorf("sensor: no environment sensor")
	}

	for _, v := range []struct {
		name string
		dst  *float64
		read func() (float64, error)
	}{
		{"temperature", &s.Temperature, b.Env.Temperature},
		{"pressure", &s.Pressure, b.Env.Pressure},
		{"humidity", &s.Humidity, b.Env.Humidity},
		{"IAQ", &s.IAQ, b.Env.IAQ},
		{"CO2", &s.CO2, b.Env.CO2},
	} {
		*v.dst, err = v.read()
		if err != nil {
			return s, fmt.Errorf("sensor: could not read %s: %w", v.name, err)
		}
	}

	s.Temperature, err = Celsius(tu, s.Temperature)
	if err != nil {
		return s, err
	}
	s.Pressure, err = Pascal(pu, s.Pressure)
	if err != nil {
		return s, err
	}

	if b.Light != nil {
		s.Light, err = b.Light.Light()
		if err != nil {
			return s, fmt.Errorf("sensor: could not read light level: %w", err)
		}
	}

	return s, nil
}

// Celsius converts a temperature t in degrees Celsius to unit.
func Celsius(unit logger.TempUnit, t float64) (float64, error) {
	switch unit {
	case logger.Celsius:
		return t, nil
	case logger.Fahrenheit:
		return t*9/5 + 32, nil
	}
	return 0, fmt.Errorf("sensor: invalid temperature unit %d: %w", unit, logger.ErrInvalidConfig)
}

// Pascal converts a pressure p in Pascal to unit.
func Pascal(unit logger.PressUnit, p float64) (float64, error) {
	switch unit {
	case logger.Pascal:
		return p, nil
	case logger.Millibar:
		return p / 100, nil
	}
	return 0, fmt.Errorf("sensor: invalid pressure unit %d: %w", unit, logger.ErrInvalidConfig)
}

var (
	_ logger.Source = (*Board)(nil)
	_ Clock         = SystemClock{}
)
