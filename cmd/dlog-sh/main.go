// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dlog-sh is an interactive shell to configure, fill and
// inspect a log.
//
// Example:
//
//	$> dlog-sh -dev ./dlog.img
//	dlog> include temperature F
//	dlog> include humidity
//	dlog> sep comma
//	dlog> info name Ada
//	dlog> log 3
//	dlog> replay
//	Kitronik Data Logger - Air Quality & Environmental Board - www.kitronik.co.uk
//	Name: Ada
//	Temperature,Humidity,
//	69.8,45.12,
//	[...]
package main // import "github.com/go-lpc/dlog/cmd/dlog-sh"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/go-lpc/dlog"
	"github.com/go-lpc/dlog/eeprom"
	"github.com/go-lpc/dlog/internal/config"
	"github.com/go-lpc/dlog/logger"
)

func main() {
	var (
		fname = flag.String("cfg", "", "path to a YAML configuration file")
		path  = flag.String("dev", "dlog.img", "path to the log image file")
		rtc   = flag.Int("rtc", -1, "I2C bus of the real-time clock (-1: system clock)")
		seed  = flag.Int64("seed", 1234, "seed of the simulated environment")
	)

	flag.Parse()

	log.SetPrefix("dlog-sh: ")
	log.SetFlags(0)

	cfg := &config.Config{
		Device: config.DeviceConfig{Kind: "file", Path: *path},
		Sensor: config.SensorConfig{RTC: *rtc >= 0, RTCBus: *rtc, Seed: *seed},
	}
	if *fname != "" {
		var err error
		cfg, err = config.Load(*fname)
		if err != nil {
			log.Fatalf("could not load configuration: %+v", err)
		}
	}

	err := run(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(cfg *config.Config, stdout io.Writer) error {
	dev, closeDev, err := config.OpenDevice(cfg.Device)
	if err != nil {
		return err
	}
	defer closeDev()

	src, closeSrc, err := config.OpenSource(cfg.Sensor)
	if err != nil {
		return err
	}
	defer closeSrc()

	sh, err := newShell(cfg, dev, src, stdout)
	if err != nil {
		return err
	}

	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(complete)

	for {
		line, err := term.Prompt("dlog> ")
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return nil
		default:
			return fmt.Errorf("could not read command: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		err = sh.exec(line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		default:
			fmt.Fprintf(stdout, "error: %v\n", err)
		}
	}
}

var errQuit = errors.New("quit")

type command struct {
	help string
	run  func(sh *shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"help: list commands", (*shell).help},
		"include": {"include <field> [unit]: add a field to the records", (*shell).include},
		"sep":     {"sep <tab|semicolon|comma|space>: select the field separator", (*shell).sep},
		"info":    {"info <name|subject|year|class> <value>: set project information", (*shell).info},
		"log":     {"log [n]: sample and append n records (default: 1)", (*shell).log},
		"replay":  {"replay [file]: replay the log to stdout or to a file", (*shell).replay},
		"erase":   {"erase: erase all the data records", (*shell).erase},
		"format":  {"format: reset the log to an empty one", (*shell).format},
		"status":  {"status: display the state of the log", (*shell).status},
		"quit":    {"quit: leave the shell", (*shell).quit},
	}
}

func complete(line string) []string {
	var cs []string
	for name := range commands {
		if strings.HasPrefix(name, line) {
			cs = append(cs, name)
		}
	}
	sort.Strings(cs)
	return cs
}

type shell struct {
	dev  eeprom.Device
	sess *logger.Session
	src  logger.Source
	hdr  string
	proj logger.ProjectInfo
	out  io.Writer
	msg  *log.Logger
}

func newShell(cfg *config.Config, dev eeprom.Device, src logger.Source, out io.Writer) (*shell, error) {
	msg := log.New(log.Writer(), "dlog: ", 0)
	sess, err := config.OpenSession(cfg, dev, msg)
	if err != nil {
		return nil, err
	}
	hdr := cfg.Log.Header
	if hdr == "" {
		hdr = logger.DefaultHeader
	}
	return &shell{
		dev:  dev,
		sess: sess,
		src:  src,
		hdr:  hdr,
		proj: config.ProjectInfo(cfg),
		out:  out,
		msg:  msg,
	}, nil
}

func (sh *shell) exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
	return cmd.run(sh, args[1:])
}

func (sh *shell) help(args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sh.out, "  %s\n", commands[name].help)
	}
	return nil
}

func (sh *shell) include(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: %s", commands["include"].help)
	}
	f, err := logger.ParseField(args[0])
	if err != nil {
		return err
	}
	unit := ""
	if len(args) == 2 {
		unit = args[1]
	}

	cfg := sh.sess.Config()
	switch f {
	case logger.Temperature:
		u, err := logger.ParseTempUnit(unit)
		if err != nil {
			return err
		}
		return cfg.IncludeTemperature(u)
	case logger.Pressure:
		u, err := logger.ParsePressUnit(unit)
		if err != nil {
			return err
		}
		return cfg.IncludePressure(u)
	}
	if unit != "" {
		return fmt.Errorf("field %v takes no unit", f)
	}
	return cfg.Include(f)
}

func (sh *shell) sep(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", commands["sep"].help)
	}
	sep, err := logger.ParseSeparator(args[0])
	if err != nil {
		return err
	}
	return sh.sess.Config().SelectSeparator(sep)
}

func (sh *shell) info(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", commands["info"].help)
	}
	info := sh.proj
	val := strings.Join(args[1:], " ")
	switch strings.ToLower(args[0]) {
	case "name":
		info.Name = val
	case "subject":
		info.Subject = val
	case "year":
		info.Year = val
	case "class":
		info.Class = val
	default:
		return fmt.Errorf("unknown project information %q", args[0])
	}
	if info.Name == "" {
		return fmt.Errorf("project information requires a name")
	}

	err := sh.sess.WriteProjectInfo(info)
	if err != nil {
		return err
	}
	sh.proj = info
	return nil
}

func (sh *shell) log(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid number of records %q", args[0])
		}
		n = v
	}
	for i := 0; i < n; i++ {
		entry := sh.sess.Entry()
		rec, err := sh.sess.Log(sh.src)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%4d: %s\n", entry, strings.TrimSuffix(rec, "\r\n"))
	}
	return nil
}

func (sh *shell) replay(args []string) error {
	w := sh.out
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("could not create replay file: %w", err)
		}
		defer f.Close()
		w = f

		n, err := sh.sess.Replay(w)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "replayed %d records to %q\n", n, args[0])
		return f.Close()
	}

	_, err := sh.sess.Replay(w)
	return err
}

func (sh *shell) erase(args []string) error {
	err := sh.sess.EraseAll(func(done, total int) {
		pct := 100 * done / total
		if pct%10 == 0 {
			fmt.Fprintf(sh.out, "\rerasing... %3d%%", pct)
		}
	})
	fmt.Fprintf(sh.out, "\n")
	return err
}

func (sh *shell) format(args []string) error {
	cfg := sh.sess.Config()
	sess, err := logger.Format(
		sh.dev, cfg,
		logger.WithLogger(sh.msg),
		logger.WithHeader(sh.hdr),
	)
	if err != nil {
		return err
	}
	sh.sess = sess
	return nil
}

func (sh *shell) status(args []string) error {
	cfg := sh.sess.Config()
	names := make([]string, 0, len(cfg.Fields()))
	for _, f := range cfg.Fields() {
		names = append(names, f.String())
	}
	if v, _ := dlog.Version(); v != "" {
		fmt.Fprintf(sh.out, "version:   %s\n", v)
	}
	fmt.Fprintf(sh.out, "state:     %v\n", sh.sess.State())
	fmt.Fprintf(sh.out, "entry:     %d/%d\n", sh.sess.Entry(), eeprom.Capacity)
	fmt.Fprintf(sh.out, "full:      %v\n", sh.sess.Full())
	fmt.Fprintf(sh.out, "fields:    %s\n", strings.Join(names, ", "))
	fmt.Fprintf(sh.out, "separator: %q\n", cfg.Delimiter())
	fmt.Fprintf(sh.out, "units:     %v, %v\n", cfg.TempUnit(), cfg.PressUnit())
	fmt.Fprintf(sh.out, "frozen:    %v\n", cfg.Frozen())
	return nil
}

func (sh *shell) quit(args []string) error {
	return errQuit
}
