// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package confdb stores named logging profiles in a MySQL database.
package confdb // import "github.com/go-lpc/dlog/confdb"

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/go-lpc/dlog/logger"
)

const timeout = 5 * time.Second

var (
	drvName = "mysql"
)

// Profile is a named logging configuration.
type Profile struct {
	Name      string
	Fields    []string      // field names, e.g. "date", "temperature"
	Separator string        // separator name, e.g. "comma"
	TempUnit  string        // "C" or "F"
	PressUnit string        // "Pa" or "mBar"
	Period    time.Duration // sampling period
}

// Config returns the logger configuration described by the profile.
func (p Profile) Config() (*logger.Config, error) {
	cfg, err := logger.ParseConfig(p.Fields, p.Separator, p.TempUnit, p.PressUnit)
	if err != nil {
		return nil, fmt.Errorf("confdb: invalid profile %q: %w", p.Name, err)
	}
	return cfg, nil
}

type Option func(*options)

type options struct {
	host string
	usr  string
	pwd  string
}

func WithHost(host string) Option {
	return func(o *options) { o.host = host }
}

func WithCredentials(usr, pwd string) Option {
	return func(o *options) {
		o.usr = usr
		o.pwd = pwd
	}
}

// DB gives access to the logging profiles database.
type DB struct {
	db   *sql.DB
	name string
}

// Open opens a connection to the profiles database dbname.
func Open(dbname string, opts ...Option) (*DB, error) {
	o := options{
		host: "localhost",
		usr:  "dlog",
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open(drvName, dsn(o, dbname))
	if err != nil {
		return nil, fmt.Errorf("confdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(o options, db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", o.usr, o.pwd, o.host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("confdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

const profileColumns = "name, fields, separator, tunit, punit, period"

// Profile retrieves the profile named name.
func (db *DB) Profile(ctx context.Context, name string) (Profile, error) {
	ps, err := db.query(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE name=? ORDER BY datetime DESC LIMIT 1",
		name,
	)
	if err != nil {
		return Profile{}, err
	}
	if len(ps) == 0 {
		return Profile{}, fmt.Errorf("confdb: no profile named %q", name)
	}
	return ps[0], nil
}

// LastProfile retrieves the most recently saved profile.
func (db *DB) LastProfile(ctx context.Context) (Profile, error) {
	ps, err := db.query(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return Profile{}, err
	}
	if len(ps) == 0 {
		return Profile{}, fmt.Errorf("confdb: no profile in %q db", db.name)
	}
	return ps[0], nil
}

// Profiles retrieves all the profiles, sorted by name.
func (db *DB) Profiles(ctx context.Context) ([]Profile, error) {
	return db.query(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY name")
}

// SaveProfile stores p, timestamped with the current time.
func (db *DB) SaveProfile(ctx context.Context, p Profile) error {
	_, err := p.Config()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err = db.db.ExecContext(
		ctx,
		"INSERT INTO profiles ("+profileColumns+", datetime) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, strings.Join(p.Fields, ","), p.Separator, p.TempUnit, p.PressUnit,
		int64(p.Period/time.Second), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("confdb: could not save profile %q: %w", p.Name, err)
	}
	return nil
}

func (db *DB) query(ctx context.Context, query string, args ...interface{}) ([]Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("confdb: could not query profiles: %w", err)
	}
	defer rows.Close()

	var ps []Profile
	for rows.Next() {
		var (
			p      Profile
			fields string
			period int64
		)
		err = rows.Scan(&p.Name, &fields, &p.Separator, &p.TempUnit, &p.PressUnit, &period)
		if err != nil {
			return ps, fmt.Errorf("confdb: could not scan profile %d: %w", len(ps), err)
		}
		if fields != "" {
			p.Fields = strings.Split(fields, ",")
		}
		p.Period = time.Duration(period) * time.Second
		ps = append(ps, p)
	}

	if err := rows.Err(); err != nil {
		return ps, fmt.Errorf("confdb: could not scan db for profiles: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return ps, fmt.Errorf("confdb: context error while retrieving profiles: %w", err)
	}

	return ps, nil
}
