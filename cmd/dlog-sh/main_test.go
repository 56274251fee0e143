// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/dlog/internal/config"
	"github.com/go-lpc/dlog/logger"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{Device: config.DeviceConfig{Kind: "mem"}}
	dev, _, err := config.OpenDevice(cfg.Device)
	if err != nil {
		t.Fatal(err)
	}

	src := logger.SourceFunc(func(tu logger.TempUnit, pu logger.PressUnit) (logger.Sample, error) {
		temp := 21.0
		if tu == logger.Fahrenheit {
			temp = 69.8
		}
		return logger.Sample{Temperature: temp, Humidity: 45, Light: 7}, nil
	})

	out := new(bytes.Buffer)
	sh, err := newShell(cfg, dev, src, out)
	if err != nil {
		t.Fatalf("could not create shell: %+v", err)
	}
	return sh, out
}

func TestShell(t *testing.T) {
	sh, out := newTestShell(t)

	for _, line := range []string{
		"include temperature F",
		"include humidity",
		"sep comma",
		"info name Ada Lovelace",
		"info class 4B",
		"log 2",
	} {
		err := sh.exec(line)
		if err != nil {
			t.Fatalf("could not run %q: %+v", line, err)
		}
	}

	err := sh.exec("include light")
	if !errors.Is(err, logger.ErrFrozen) {
		t.Fatalf("invalid error: %+v", err)
	}

	out.Reset()
	err = sh.exec("replay")
	if err != nil {
		t.Fatalf("could not replay: %+v", err)
	}
	want := logger.DefaultHeader +
		"Name: Ada Lovelace\r\nClass: 4B\r\n" +
		"Temperature,Humidity,\r\n" +
		"69.8,45,\r\n69.8,45,\r\n"
	if got := out.String(); got != want {
		t.Fatalf("invalid replay:\ngot= %q\nwant=%q", got, want)
	}

	out.Reset()
	err = sh.exec("status")
	if err != nil {
		t.Fatalf("could not display status: %+v", err)
	}
	for _, want := range []string{
		"state:     logging\n",
		"entry:     2/1000\n",
		"fields:    Temperature, Humidity\n",
		"frozen:    true\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in status:\n%s", want, out.String())
		}
	}

	err = sh.exec("erase")
	if err != nil {
		t.Fatalf("could not erase log: %+v", err)
	}
	if got, want := sh.sess.Entry(), 0; got != want {
		t.Fatalf("invalid entry after erase: got=%d, want=%d", got, want)
	}
	if sh.sess.Config().Frozen() {
		t.Fatalf("config still frozen after erase")
	}
	err = sh.exec("include light")
	if err != nil {
		t.Fatalf("could not include light after erase: %+v", err)
	}

	err = sh.exec("log")
	if err != nil {
		t.Fatalf("could not log: %+v", err)
	}
	err = sh.exec("format")
	if err != nil {
		t.Fatalf("could not format: %+v", err)
	}
	if got, want := sh.sess.Entry(), 0; got != want {
		t.Fatalf("invalid entry after format: got=%d, want=%d", got, want)
	}

	tmpdir, err := os.MkdirTemp("", "dlog-sh-")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpdir)

	fname := filepath.Join(tmpdir, "replay.txt")
	err = sh.exec("replay " + fname)
	if err != nil {
		t.Fatalf("could not replay to file: %+v", err)
	}
	raw, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), logger.DefaultHeader) {
		t.Fatalf("invalid replay file:\n%q", raw)
	}

	if err := sh.exec("quit"); !errors.Is(err, errQuit) {
		t.Fatalf("invalid error: %+v", err)
	}
	if err := sh.exec("exit"); !errors.Is(err, errQuit) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestShellErrors(t *testing.T) {
	sh, _ := newTestShell(t)

	for _, tc := range []struct {
		line string
		err  error
	}{
		{line: "bogus"},
		{line: "include"},
		{line: "include wind", err: logger.ErrInvalidConfig},
		{line: "include temperature K", err: logger.ErrInvalidConfig},
		{line: "include light lux"},
		{line: "sep pipe", err: logger.ErrInvalidConfig},
		{line: "sep"},
		{line: "info"},
		{line: "info year 2026"},
		{line: "info colour blue"},
		{line: "log -1"},
		{line: "log many"},
	} {
		t.Run(tc.line, func(t *testing.T) {
			err := sh.exec(tc.line)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	if got, want := complete("in"), []string{"include", "info"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid completion: got=%q, want=%q", got, want)
	}
	if got := complete("xyz"); got != nil {
		t.Fatalf("invalid completion: got=%q", got)
	}
}
