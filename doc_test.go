// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlog

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	for _, tc := range []struct {
		name string
		b    *debug.BuildInfo
		v    string
		sum  string
	}{
		{name: "nil"},
		{
			name: "main",
			b: &debug.BuildInfo{
				Main: debug.Module{Path: root, Version: "(devel)"},
			},
			v: "(devel)",
		},
		{
			name: "dep",
			b: &debug.BuildInfo{
				Main: debug.Module{Path: "example.org/app"},
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.7.0", Sum: "h1:x"},
					{Path: root, Version: "v0.1.0", Sum: "h1:y"},
				},
			},
			v:   "v0.1.0",
			sum: "h1:y",
		},
		{
			name: "replace-path-version",
			b: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{Path: "example.org/fork", Version: "v0.1.1", Sum: "h1:z"},
				}},
			},
			v:   "example.org/fork v0.1.1",
			sum: "h1:z",
		},
		{
			name: "replace-version",
			b: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{Version: "v0.1.2", Sum: "h1:w"},
				}},
			},
			v:   "v0.1.2",
			sum: "h1:w",
		},
		{
			name: "replace-local",
			b: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{Path: "../dlog"},
				}},
			},
			v: "../dlog",
		},
		{
			name: "replace-empty",
			b: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{},
				}},
			},
			v: "v0.1.0*",
		},
		{
			name: "missing",
			b:    &debug.BuildInfo{Main: debug.Module{Path: "example.org/app"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, sum := versionOf(tc.b)
			if v != tc.v {
				t.Fatalf("invalid version: got=%q, want=%q", v, tc.v)
			}
			if sum != tc.sum {
				t.Fatalf("invalid sum: got=%q, want=%q", sum, tc.sum)
			}
		})
	}

	_, _ = Version()
}
