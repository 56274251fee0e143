// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dlog-dump replays the content of a log to stdout or to a serial port.
//
// Usage: dlog-dump [OPTIONS] FILE
//
// Example:
//
//	$> dlog-dump ./dlog.img
//	Kitronik Data Logger - Air Quality & Environmental Board - www.kitronik.co.uk
//	Name: Ada
//	Temperature,Humidity,
//	21,55,
//	[...]
//
//	$> dlog-dump -port /dev/ttyUSB0 ./dlog.img
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/dlog/eeprom"
	"github.com/go-lpc/dlog/logger"
	"github.com/go-lpc/dlog/uart"
)

func main() {
	log.SetPrefix("dlog-dump: ")
	log.SetFlags(0)

	var (
		port = flag.String("port", "", "serial port to replay the log to (default: stdout)")
		baud = flag.Int("baud", uart.DefaultBaudRate, "baud rate of the serial port")
	)

	flag.Usage = func() {
		fmt.Printf(`dlog-dump replays the content of a log to stdout or to a serial port.

Usage: dlog-dump [OPTIONS] FILE

Example:

 $> dlog-dump ./dlog.img
 $> dlog-dump -port /dev/ttyUSB0 ./dlog.img

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing input file")
	}

	var out io.Writer = os.Stdout
	if *port != "" {
		p, err := uart.Open(*port, uart.WithBaudRate(*baud))
		if err != nil {
			log.Fatalf("could not open serial port: %+v", err)
		}
		defer p.Close()
		out = p
	}

	n, err := process(out, flag.Arg(0))
	if err != nil {
		log.Fatalf("could not dump log: %+v", err)
	}
	log.Printf("replayed %d records", n)
}

func process(w io.Writer, fname string) (int, error) {
	_, err := os.Stat(fname)
	if err != nil {
		return 0, fmt.Errorf("could not stat log image: %w", err)
	}

	dev, err := eeprom.OpenFile(fname)
	if err != nil {
		return 0, fmt.Errorf("could not open log image: %w", err)
	}
	defer dev.Close()

	sess, err := logger.Open(dev, nil)
	if err != nil {
		return 0, fmt.Errorf("could not open log: %w", err)
	}

	return sess.Replay(w)
}
