// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dlog-csv converts a captured log replay into a CSV file.
//
// Usage: dlog-csv [OPTIONS] FILE
//
// Example:
//
//	$> dlog-dump ./dlog.img > capture.txt
//	$> dlog-csv -o out.csv ./capture.txt
//	dlog-csv: wrote 42 records to "out.csv"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/go-lpc/dlog/capture"
)

func main() {
	log.SetPrefix("dlog-csv: ")
	log.SetFlags(0)

	var (
		oname = flag.String("o", "out.csv", "path to the output CSV file")
		comma = flag.String("comma", ",", "CSV field separator")
	)

	flag.Usage = func() {
		fmt.Printf(`dlog-csv converts a captured log replay into a CSV file.

Usage: dlog-csv [OPTIONS] [FILE]

With no FILE, the capture is read from stdin.

Example:

 $> dlog-csv -o out.csv ./capture.txt

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		log.Fatalf("too many input files")
	}

	var r io.Reader = os.Stdin
	if flag.NArg() == 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("could not open capture: %+v", err)
		}
		defer f.Close()
		r = f
	}

	n, err := process(*oname, r, *comma)
	if err != nil {
		log.Fatalf("could not convert capture: %+v", err)
	}
	log.Printf("wrote %d records to %q", n, *oname)
}

func process(oname string, r io.Reader, comma string) (int, error) {
	if utf8.RuneCountInString(comma) != 1 {
		return 0, fmt.Errorf("invalid CSV separator %q", comma)
	}
	sep, _ := utf8.DecodeRuneInString(comma)

	c, err := capture.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("could not parse capture: %w", err)
	}

	err = capture.WriteCSV(oname, c, sep)
	if err != nil {
		return 0, err
	}
	return len(c.Records), nil
}
