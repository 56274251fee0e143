// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alert sends mail notifications about the state of a log.
package alert // import "github.com/go-lpc/dlog/internal/alert"

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"

	mail "gopkg.in/gomail.v2"

	"github.com/go-lpc/dlog/eeprom"
)

// maxAlerts is the maximum number of mails sent per kind of event.
const maxAlerts = 5

var (
	dialAndSend = func(d *mail.Dialer, msgs ...*mail.Message) error {
		return d.DialAndSend(msgs...)
	}
)

// Mailer sends alert mails through a SMTP server.
type Mailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string

	sent map[string]int
}

// FromEnv returns a mailer configured from the MAIL_SERVER, MAIL_PORT,
// MAIL_USERNAME, MAIL_PASSWORD and MAIL_TGTS environment variables.
func FromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	m := &Mailer{
		Host:     os.Getenv("MAIL_SERVER"),
		Port:     port,
		User:     os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     os.Getenv("MAIL_USERNAME"),
	}
	if tgts := os.Getenv("MAIL_TGTS"); tgts != "" {
		m.To = strings.Split(tgts, ",")
	}
	return m
}

func (m *Mailer) enabled() bool {
	return m != nil && m.Host != "" && m.Port != 0 && m.From != "" && len(m.To) != 0
}

// LogFull notifies that the log named name wrapped around and
// started overwriting its oldest records.
func (m *Mailer) LogFull(name string, entry int) error {
	return m.send(
		"log-full",
		fmt.Sprintf("[dlog] log %q is full", name),
		fmt.Sprintf(
			"log:      %q\ncapacity: %d records\ncursor:   %d\n\nthe oldest records are being overwritten.\n",
			name, eeprom.Capacity, entry,
		),
	)
}

// Failure notifies that logging to name stopped on err.
func (m *Mailer) Failure(name string, err error) error {
	return m.send(
		"failure",
		fmt.Sprintf("[dlog] logging to %q failed", name),
		fmt.Sprintf("log:   %q\nerror: %+v\n", name, err),
	)
}

func (m *Mailer) send(kind, subject, body string) error {
	if !m.enabled() {
		return fmt.Errorf("alert: could not send mail alert: missing configuration")
	}
	if m.sent == nil {
		m.sent = make(map[string]int)
	}
	if m.sent[kind] >= maxAlerts {
		return nil
	}
	m.sent[kind]++

	msg := m.message(subject, body)

	dial := mail.NewDialer(m.Host, m.Port, m.User, m.Password)
	dial.TLSConfig = &tls.Config{
		ServerName: m.Host,
	}
	err := dialAndSend(dial, msg)
	if err != nil {
		return fmt.Errorf("alert: could not send mail alert: %w", err)
	}
	return nil
}

func (m *Mailer) message(subject, body string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("Bcc", m.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
