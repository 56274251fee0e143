// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration of the data logger commands.
package config // import "github.com/go-lpc/dlog/internal/config"

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-lpc/dlog/eeprom"
	"github.com/go-lpc/dlog/logger"
)

const eol = "\r\n"

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Log     LogConfig     `yaml:"log"`
	Project ProjectConfig `yaml:"project"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Serial  SerialConfig  `yaml:"serial"`
	Alert   AlertConfig   `yaml:"alert"`
	DB      DBConfig      `yaml:"db"`
}

// DeviceConfig selects the storage holding the log.
type DeviceConfig struct {
	Kind string `yaml:"kind"` // "file", "mem" or "i2c"
	Path string `yaml:"path"` // image file, for kind=file
	Bus  int    `yaml:"bus"`  // I2C bus, for kind=i2c
	Addr uint8  `yaml:"addr"` // I2C address, for kind=i2c
}

type LogConfig struct {
	Fields      []string      `yaml:"fields"`
	Separator   string        `yaml:"separator"`
	Temperature string        `yaml:"temperature"` // unit
	Pressure    string        `yaml:"pressure"`    // unit
	Period      time.Duration `yaml:"period"`
	Header      string        `yaml:"header"`
	Format      bool          `yaml:"format"` // format the log before use
}

type ProjectConfig struct {
	Name    string `yaml:"name"`
	Subject string `yaml:"subject"`
	Year    string `yaml:"year"`
	Class   string `yaml:"class"`
}

// SensorConfig describes the source of samples.
// Date and time are read from the system clock unless RTC is set.
type SensorConfig struct {
	RTC    bool  `yaml:"rtc"`     // read date and time from the real-time clock
	RTCBus int   `yaml:"rtc_bus"` // I2C bus of the real-time clock
	Seed   int64 `yaml:"seed"`    // seed of the simulated environment
}

type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

type AlertConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// DBConfig locates a logging profile stored in a profiles database.
// When Name is set, the profile replaces the field selection of the
// log section.
type DBConfig struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Profile  string `yaml:"profile"` // empty for the most recent profile
}

// Enabled returns whether alert mails should be sent.
func (cfg AlertConfig) Enabled() bool {
	return cfg.Host != "" && len(cfg.To) > 0
}

// Load reads, validates and normalizes the configuration file fname.
func Load(fname string) (*Config, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %q: %w", fname, err)
	}

	cfg, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("config: could not load %q: %w", fname, err)
	}
	return cfg, nil
}

// Parse decodes, validates and normalizes a YAML configuration.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: could not decode YAML: %w", err)
	}

	err = Validate(&cfg)
	if err != nil {
		return nil, err
	}
	Normalize(&cfg)

	return &cfg, nil
}

// Validate checks the configuration without modifying it.
func Validate(cfg *Config) error {
	switch cfg.Device.Kind {
	case "", "file":
		if cfg.Device.Path == "" {
			return fmt.Errorf("config: device of kind %q requires a path", "file")
		}
	case "mem":
	case "i2c":
		if cfg.Device.Bus < 0 {
			return fmt.Errorf("config: invalid I2C bus %d", cfg.Device.Bus)
		}
	default:
		return fmt.Errorf("config: unknown device kind %q", cfg.Device.Kind)
	}

	if cfg.Log.Period < 0 {
		return fmt.Errorf("config: invalid negative logging period %v", cfg.Log.Period)
	}
	if n := len(strings.TrimSuffix(cfg.Log.Header, eol)) + len(eol); cfg.Log.Header != "" && n > eeprom.BlockSize {
		return fmt.Errorf("config: header of %d bytes: %w", n, eeprom.ErrBlockOverflow)
	}

	_, err := Apply(cfg)
	if err != nil {
		return err
	}

	if n := len(ProjectInfo(cfg).String()); cfg.Project.Name != "" && n > eeprom.BlockSize {
		return fmt.Errorf("config: project information of %d bytes: %w", n, eeprom.ErrBlockOverflow)
	}
	if cfg.Project.Name == "" && (cfg.Project.Subject != "" || cfg.Project.Year != "" || cfg.Project.Class != "") {
		return fmt.Errorf("config: project information requires a name")
	}

	if cfg.Sensor.RTC && cfg.Sensor.RTCBus < 0 {
		return fmt.Errorf("config: invalid real-time clock bus %d", cfg.Sensor.RTCBus)
	}

	if cfg.Serial.BaudRate < 0 {
		return fmt.Errorf("config: invalid serial baud rate %d", cfg.Serial.BaudRate)
	}

	if cfg.Alert.Host != "" && cfg.Alert.From == "" {
		return fmt.Errorf("config: alert mails require a sender address")
	}

	if cfg.DB.Name == "" && cfg.DB.Profile != "" {
		return fmt.Errorf("config: profile %q requires a database name", cfg.DB.Profile)
	}

	return nil
}

// Normalize fills in default values. It must be called after Validate.
func Normalize(cfg *Config) {
	if cfg.Device.Kind == "" {
		cfg.Device.Kind = "file"
	}
	if cfg.Device.Kind == "i2c" && cfg.Device.Addr == 0 {
		cfg.Device.Addr = eeprom.DefaultI2CAddr
	}
	if cfg.Log.Period == 0 {
		cfg.Log.Period = time.Minute
	}
	switch {
	case cfg.Log.Header == "":
		cfg.Log.Header = logger.DefaultHeader
	case !strings.HasSuffix(cfg.Log.Header, eol):
		cfg.Log.Header += eol
	}
	if cfg.Alert.Port == 0 {
		cfg.Alert.Port = 587
	}
}

// Apply returns the field selection described by cfg.
func Apply(cfg *Config) (*logger.Config, error) {
	lcfg, err := logger.ParseConfig(
		cfg.Log.Fields, cfg.Log.Separator,
		cfg.Log.Temperature, cfg.Log.Pressure,
	)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log configuration: %w", err)
	}
	return lcfg, nil
}

// ProjectInfo returns the project information described by cfg.
func ProjectInfo(cfg *Config) logger.ProjectInfo {
	return logger.ProjectInfo{
		Name:    cfg.Project.Name,
		Subject: cfg.Project.Subject,
		Year:    cfg.Project.Year,
		Class:   cfg.Project.Class,
	}
}
