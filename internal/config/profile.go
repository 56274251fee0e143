// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"fmt"

	"github.com/go-lpc/dlog/confdb"
)

// LoadProfile replaces the field selection of cfg with the logging
// profile stored in the database described by cfg.DB.
// LoadProfile is a no-op when no database is configured.
func LoadProfile(ctx context.Context, cfg *Config) error {
	if cfg.DB.Name == "" {
		return nil
	}

	var opts []confdb.Option
	if cfg.DB.Host != "" {
		opts = append(opts, confdb.WithHost(cfg.DB.Host))
	}
	if cfg.DB.User != "" {
		opts = append(opts, confdb.WithCredentials(cfg.DB.User, cfg.DB.Password))
	}

	db, err := confdb.Open(cfg.DB.Name, opts...)
	if err != nil {
		return fmt.Errorf("config: could not open profiles db: %w", err)
	}
	defer db.Close()

	var p confdb.Profile
	switch cfg.DB.Profile {
	case "":
		p, err = db.LastProfile(ctx)
	default:
		p, err = db.Profile(ctx, cfg.DB.Profile)
	}
	if err != nil {
		return fmt.Errorf("config: could not load profile: %w", err)
	}

	return applyProfile(cfg, p)
}

func applyProfile(cfg *Config, p confdb.Profile) error {
	_, err := p.Config()
	if err != nil {
		return err
	}

	cfg.Log.Fields = append([]string(nil), p.Fields...)
	cfg.Log.Separator = p.Separator
	cfg.Log.Temperature = p.TempUnit
	cfg.Log.Pressure = p.PressUnit
	if p.Period > 0 {
		cfg.Log.Period = p.Period
	}
	return nil
}
