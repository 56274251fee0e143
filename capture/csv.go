// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capture

import (
	"fmt"

	"go-hep.org/x/hep/csvutil"
)

// WriteCSV writes the records of c to the CSV file fname, using comma
// as field separator. The product header and project information are
// written as '#' comment lines, followed by a row of column titles.
func WriteCSV(fname string, c *Capture, comma rune) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return fmt.Errorf("capture: could not create CSV file %q: %w", fname, err)
	}
	defer tbl.Close()

	tbl.Writer.Comma = comma

	var hdr []string
	if c.Header != "" {
		hdr = append(hdr, c.Header)
	}
	if info := c.Info; info.Name != "" {
		for _, kv := range [][2]string{
			{"Name", info.Name},
			{"Subject", info.Subject},
			{"Year", info.Year},
			{"Class", info.Class},
		} {
			if kv[1] == "" {
				continue
			}
			hdr = append(hdr, kv[0]+": "+kv[1])
		}
	}
	for _, line := range hdr {
		err = tbl.WriteHeader("# " + line + "\n")
		if err != nil {
			return fmt.Errorf("capture: could not write CSV header: %w", err)
		}
	}

	row := make([]interface{}, len(c.Fields))
	for i, f := range c.Fields {
		row[i] = f.String()
	}
	err = tbl.WriteRow(row...)
	if err != nil {
		return fmt.Errorf("capture: could not write CSV titles: %w", err)
	}

	for i, rec := range c.Records {
		if len(rec) != len(row) {
			return fmt.Errorf("capture: invalid number of values in record %d (got=%d, want=%d)", i, len(rec), len(row))
		}
		for j, v := range rec {
			row[j] = v
		}
		err = tbl.WriteRow(row...)
		if err != nil {
			return fmt.Errorf("capture: could not write CSV record %d: %w", i, err)
		}
	}

	err = tbl.Close()
	if err != nil {
		return fmt.Errorf("capture: could not close CSV file %q: %w", fname, err)
	}
	return nil
}
