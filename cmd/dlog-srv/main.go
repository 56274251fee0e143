// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dlog-srv starts a TDAQ server driving a data logger.
//
// Usage: dlog-srv [TDAQ-OPTIONS] CONFIG-FILE
//
// The YAML configuration file is (re)loaded on /config, the log is
// opened on /init and samples are appended while the run is started.
// Each appended record is published on the /records output.
package main // import "github.com/go-lpc/dlog/cmd/dlog-srv"

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"

	"github.com/go-lpc/dlog/internal/alert"
	"github.com/go-lpc/dlog/internal/config"
	"github.com/go-lpc/dlog/logger"
)

func main() {
	cmd := flags.New()
	if len(cmd.Args) != 1 {
		log.Fatalf("dlog-srv: missing configuration file")
	}

	dev := newServer(cmd.Args[0])

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/records", dev.records)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type server struct {
	fname string
	msg   *log.Logger

	mu       sync.Mutex
	cfg      *config.Config
	sess     *logger.Session
	src      logger.Source
	mailer   *alert.Mailer
	closeDev func() error
	closeSrc func() error

	n    int         // records appended during the current run
	data chan []byte // records waiting for publication
}

func newServer(fname string) *server {
	return &server{
		fname: fname,
		msg:   log.New(os.Stdout, "dlog: ", 0),
		data:  make(chan []byte, 1024),
	}
}

func (dev *server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	err := dev.configure()
	if err != nil {
		ctx.Msg.Errorf("could not configure: %+v", err)
		return err
	}
	ctx.Msg.Infof("loaded configuration %q (period=%v)", dev.fname, dev.cfg.Log.Period)
	return nil
}

func (dev *server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	err := dev.init()
	if err != nil {
		ctx.Msg.Errorf("could not initialize log: %+v", err)
		return err
	}
	ctx.Msg.Infof("log ready (entry=%d, full=%v)", dev.sess.Entry(), dev.sess.Full())
	return nil
}

func (dev *server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	err := dev.close()
	if err != nil {
		ctx.Msg.Errorf("could not close log: %+v", err)
		return err
	}
	return nil
}

func (dev *server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.sess == nil {
		return fmt.Errorf("dlog-srv: log not initialized")
	}
	dev.n = 0
	return nil
}

func (dev *server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	dev.mu.Lock()
	n := dev.n
	dev.mu.Unlock()
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (dev *server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return dev.close()
}

func (dev *server) records(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-dev.data:
		dst.Body = data
	}
	return nil
}

func (dev *server) run(ctx tdaq.Context) error {
	dev.mu.Lock()
	if dev.cfg == nil {
		dev.mu.Unlock()
		return fmt.Errorf("dlog-srv: not configured")
	}
	period := dev.cfg.Log.Period
	dev.mu.Unlock()

	tick := time.NewTicker(period)
	defer tick.Stop()

	for {
		rec, err := dev.sample()
		if err != nil {
			ctx.Msg.Errorf("could not log record: %+v", err)
			return err
		}
		ctx.Msg.Debugf("record: %q", rec)

		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

func (dev *server) configure() error {
	cfg, err := config.Load(dev.fname)
	if err != nil {
		return err
	}

	err = config.LoadProfile(context.Background(), cfg)
	if err != nil {
		return err
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.cfg = cfg
	return nil
}

func (dev *server) init() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.cfg == nil {
		return fmt.Errorf("dlog-srv: not configured")
	}
	if dev.sess != nil {
		return fmt.Errorf("dlog-srv: log already initialized")
	}

	d, closeDev, err := config.OpenDevice(dev.cfg.Device)
	if err != nil {
		return err
	}

	sess, err := config.OpenSession(dev.cfg, d, dev.msg)
	if err != nil {
		_ = closeDev()
		return err
	}

	src, closeSrc, err := config.OpenSource(dev.cfg.Sensor)
	if err != nil {
		_ = closeDev()
		return err
	}

	if a := dev.cfg.Alert; a.Enabled() {
		dev.mailer = &alert.Mailer{
			Host: a.Host, Port: a.Port,
			User: a.User, Password: a.Password,
			From: a.From, To: a.To,
		}
	}

	dev.sess = sess
	dev.src = src
	dev.closeDev = closeDev
	dev.closeSrc = closeSrc
	dev.n = 0
	dev.drain()
	return nil
}

// drain discards the records of a previous run not yet published.
func (dev *server) drain() {
	for {
		select {
		case <-dev.data:
		default:
			return
		}
	}
}

// sample appends one record to the log and queues it for publication.
func (dev *server) sample() (string, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.sess == nil {
		return "", fmt.Errorf("dlog-srv: log not initialized")
	}

	full := dev.sess.Full()
	rec, err := dev.sess.Log(dev.src)
	if err != nil {
		if dev.mailer != nil {
			if err := dev.mailer.Failure(dev.fname, err); err != nil {
				dev.msg.Printf("%+v", err)
			}
		}
		return "", err
	}
	dev.n++

	if !full && dev.sess.Full() && dev.mailer != nil {
		err = dev.mailer.LogFull(dev.fname, dev.sess.Entry())
		if err != nil {
			dev.msg.Printf("%+v", err)
		}
	}

	select {
	case dev.data <- []byte(rec):
	default:
	}
	return rec, nil
}

func (dev *server) close() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.sess == nil {
		return nil
	}

	errSrc := dev.closeSrc()
	errDev := dev.closeDev()
	dev.sess = nil
	dev.src = nil
	dev.mailer = nil
	dev.closeDev = nil
	dev.closeSrc = nil

	switch {
	case errDev != nil:
		return fmt.Errorf("dlog-srv: could not close device: %w", errDev)
	case errSrc != nil:
		return fmt.Errorf("dlog-srv: could not close clock: %w", errSrc)
	}
	return nil
}
