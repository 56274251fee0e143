// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dlog-run periodically samples the board and appends the
// readings to the log.
//
// Usage: dlog-run [OPTIONS]
//
// Example:
//
//	$> dlog-run -cfg ./dlog.yaml -n 10
//	dlog-run: opened log (entry=0, full=false)
//	dlog-run: record 0: "15/10/2026,12:00:00,21.03,\r\n"
//	[...]
package main // import "github.com/go-lpc/dlog/cmd/dlog-run"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/sbinet/pmon"
	"golang.org/x/sync/errgroup"

	"github.com/go-lpc/dlog"
	"github.com/go-lpc/dlog/internal/alert"
	"github.com/go-lpc/dlog/internal/config"
	"github.com/go-lpc/dlog/logger"
)

var (
	doMon  = flag.Bool("pmon", false, "enable pmon monitoring")
	doFreq = flag.Duration("freq", 1*time.Second, "pmon frequency")
)

func main() {
	var (
		fname = flag.String("cfg", "dlog.yaml", "path to the YAML configuration file")
		nrecs = flag.Int("n", 0, "number of records to log (0: until interrupted)")
	)

	flag.Parse()

	log.SetPrefix("dlog-run: ")
	log.SetFlags(0)

	if v, _ := dlog.Version(); v != "" {
		log.Printf("version %s", v)
	}

	cfg, err := config.Load(*fname)
	if err != nil {
		log.Fatalf("could not load configuration: %+v", err)
	}

	err = config.LoadProfile(context.Background(), cfg)
	if err != nil {
		log.Fatalf("could not load logging profile: %+v", err)
	}

	if *doMon {
		err = monitor(*fname+".pmon", *doFreq)
		if err != nil {
			log.Fatalf("could not start monitoring: %+v", err)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	err = run(context.Background(), cfg, *nrecs, stop)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func monitor(fname string, freq time.Duration) error {
	p, err := pmon.Monitor(os.Getpid())
	if err != nil {
		return fmt.Errorf("could not monitor pid=%d: %w", os.Getpid(), err)
	}
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create pmon log file: %w", err)
	}
	p.W = f
	p.Freq = freq

	go func() {
		defer f.Close()
		log.Printf("run pmon (freq=%v)...", freq)
		err := p.Run()
		if err != nil {
			log.Printf("could not monitor dlog-run: %+v", err)
		}
	}()
	return nil
}

func newMailer(cfg config.AlertConfig) *alert.Mailer {
	if !cfg.Enabled() {
		return nil
	}
	return &alert.Mailer{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
		To:       cfg.To,
	}
}

func run(ctx context.Context, cfg *config.Config, nrecs int, stop chan os.Signal) error {
	msg := log.New(log.Writer(), log.Prefix(), log.Flags())

	dev, closeDev, err := config.OpenDevice(cfg.Device)
	if err != nil {
		return err
	}
	defer closeDev()

	sess, err := config.OpenSession(cfg, dev, msg)
	if err != nil {
		return err
	}

	src, closeSrc, err := config.OpenSource(cfg.Sensor)
	if err != nil {
		return err
	}
	defer closeSrc()

	var (
		name   = cfg.Device.Kind + ":" + cfg.Device.Path
		mailer = newMailer(cfg.Alert)
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		select {
		case <-stop:
			msg.Printf("interrupted")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	grp.Go(func() error {
		defer cancel()
		err := sample(ctx, sess, src, cfg.Log.Period, nrecs, msg, mailer, name)
		if err != nil && mailer != nil {
			if err := mailer.Failure(name, err); err != nil {
				msg.Printf("%+v", err)
			}
		}
		return err
	})

	err = grp.Wait()
	if err != nil {
		return fmt.Errorf("could not run logger: %w", err)
	}

	msg.Printf("stopped at entry=%d (full=%v)", sess.Entry(), sess.Full())
	return nil
}

func sample(ctx context.Context, sess *logger.Session, src logger.Source, period time.Duration, nrecs int, msg *log.Logger, mailer *alert.Mailer, name string) error {
	tick := time.NewTicker(period)
	defer tick.Stop()

	for i := 0; nrecs <= 0 || i < nrecs; i++ {
		full := sess.Full()
		rec, err := sess.Log(src)
		if err != nil {
			return fmt.Errorf("could not log record %d: %w", i, err)
		}
		msg.Printf("record %d: %q", i, rec)

		if !full && sess.Full() && mailer != nil {
			err = mailer.LogFull(name, sess.Entry())
			if err != nil {
				msg.Printf("%+v", err)
			}
		}

		if nrecs > 0 && i == nrecs-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}
