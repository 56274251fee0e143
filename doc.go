// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dlog holds code for a block-addressed EEPROM data logger.
//
// The storage layout and devices live in package eeprom, the log
// itself (field selection, record formatting, append, replay and
// erase) in package logger. Commands under cmd/ drive a log from an
// interactive shell, a periodic sampler or a TDAQ run-control server.
package dlog // import "github.com/go-lpc/dlog"

import (
	"fmt"
	"runtime/debug"
)

const root = "github.com/go-lpc/dlog"

// Version returns the version of dlog and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	if b.Main.Path == root {
		return moduleVersion(&b.Main)
	}
	for _, m := range b.Deps {
		if m.Path == root {
			return moduleVersion(m)
		}
	}
	return "", ""
}

func moduleVersion(m *debug.Module) (version, sum string) {
	if m.Replace == nil {
		return m.Version, m.Sum
	}
	switch r := m.Replace; {
	case r.Version != "" && r.Path != "":
		return fmt.Sprintf("%s %s", r.Path, r.Version), r.Sum
	case r.Version != "":
		return r.Version, r.Sum
	case r.Path != "":
		return r.Path, r.Sum
	}
	return m.Version + "*", ""
}
