// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-lpc/dlog/eeprom"
	"github.com/go-lpc/dlog/logger"
	"github.com/go-lpc/dlog/rtc"
	"github.com/go-lpc/dlog/sensor"
)

// OpenDevice opens the storage described by cfg.
// The returned function releases the device.
func OpenDevice(cfg DeviceConfig) (eeprom.Device, func() error, error) {
	switch cfg.Kind {
	case "mem":
		return eeprom.NewMem(), func() error { return nil }, nil
	case "", "file":
		dev, err := eeprom.OpenFile(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("config: could not open device: %w", err)
		}
		return dev, dev.Close, nil
	case "i2c":
		addr := cfg.Addr
		if addr == 0 {
			addr = eeprom.DefaultI2CAddr
		}
		dev, err := eeprom.OpenI2C(cfg.Bus, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("config: could not open device: %w", err)
		}
		return dev, dev.Close, nil
	}
	return nil, nil, fmt.Errorf("config: unknown device kind %q", cfg.Kind)
}

// OpenSession opens the log stored on dev with the configuration cfg.
// The log is formatted when requested by cfg or when dev holds no log.
// The project information, if any, is written to the log.
func OpenSession(cfg *Config, dev eeprom.Device, msg *log.Logger) (*logger.Session, error) {
	lcfg, err := Apply(cfg)
	if err != nil {
		return nil, err
	}

	opts := []logger.Option{logger.WithLogger(msg)}
	if cfg.Log.Header != "" {
		opts = append(opts, logger.WithHeader(cfg.Log.Header))
	}

	var sess *logger.Session
	switch {
	case cfg.Log.Format:
		sess, err = logger.Format(dev, lcfg, opts...)
	default:
		sess, err = logger.Open(dev, lcfg, opts...)
		if errors.Is(err, logger.ErrUnformatted) {
			msg.Printf("no log found on device: formatting...")
			sess, err = logger.Format(dev, lcfg, opts...)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("config: could not open log: %w", err)
	}

	if cfg.Project.Name != "" {
		err = sess.WriteProjectInfo(ProjectInfo(cfg))
		if err != nil {
			return nil, fmt.Errorf("config: could not write project info: %w", err)
		}
	}

	return sess, nil
}

// OpenSource returns the source of samples described by cfg.
// Environment readings are simulated. Date and time are read from the
// real-time clock when one is configured, from the host otherwise.
// The returned function releases the clock.
func OpenSource(cfg SensorConfig) (logger.Source, func() error, error) {
	var (
		sim   = sensor.NewSim(cfg.Seed)
		board = &sensor.Board{Env: sim, Light: sim}
		done  = func() error { return nil }
	)
	if cfg.RTC {
		clk, err := rtcOpen(cfg.RTCBus)
		if err != nil {
			return nil, nil, fmt.Errorf("config: could not open real-time clock: %w", err)
		}
		board.Clock = clk
		done = clk.Close
	}
	return board, done, nil
}

type clock interface {
	sensor.Clock
	Close() error
}

var rtcOpen = func(bus int) (clock, error) {
	return rtc.Open(bus)
}
