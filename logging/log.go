// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-sysgov
//
// go-sysgov is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-sysgov is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-sysgov.  If not, see <https://www.gnu.org/licenses/>.

// Package logging is the structured logger of sysgovd. Every entry carries
// the file, line and function of its call site; errors built with serr add
// their kind and attributes as fields.
package logging

import (
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sysgov/go-sysgov/serr"
)

// Level is a log severity. Lower is more severe.
type Level uint32

// Levels, mirroring logrus.
const (
	Panic Level = iota
	Fatal
	Error
	Warn
	Info
	Debug
)

// Fields maps logrus fields
type Fields = logrus.Fields

// Logger is the interface for loggers.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})

	// Fatal logs and exits the process after the registered exit handlers ran.
	Fatal(...interface{})
	Fatalf(string, ...interface{})

	// With returns a logger adding one field to every entry.
	With(key string, value interface{}) Logger
	WithFields(Fields) Logger

	// WithError adds err and, for structured errors, its kind and attributes.
	WithError(err error) Logger

	SetLevel(Level)
	GetLevel() Level
	IsLevelEnabled(level Level) bool
	SetOutput(io.Writer)
	SetJSONFormatter()
}

// callerDepth is the number of frames between a Logger method's caller and
// runtime.Caller inside logger.at.
const callerDepth = 3

var baseLogger = func() Logger {
	l := NewLogger()
	l.SetLevel(Warn)
	return l
}()

// Base returns the process-wide logger. It starts at Warn on stderr; the
// daemon reconfigures it from config.Local.
func Base() Logger {
	return baseLogger
}

// NewLogger returns a new Logger logging to stderr at Info.
func NewLogger() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{TimestampFormat: "2006-01-02T15:04:05.000000 -0700"})
	return logger{logrus.NewEntry(l)}
}

// RegisterExitHandler runs handler before a Fatal log exits the process.
func RegisterExitHandler(handler func()) {
	logrus.RegisterExitHandler(handler)
}

type logger struct {
	entry *logrus.Entry
}

// at returns the entry decorated with the call site.
func (l logger) at() *logrus.Entry {
	pc, file, line, ok := runtime.Caller(callerDepth)
	if !ok {
		return l.entry
	}
	fields := logrus.Fields{"file": file[strings.LastIndex(file, "/")+1:], "line": line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		fields["function"] = fn.Name()
	}
	return l.entry.WithFields(fields)
}

func (l logger) log(lvl logrus.Level, args []interface{}) {
	if l.entry.Logger.IsLevelEnabled(lvl) {
		l.at().Log(lvl, args...)
	}
}

func (l logger) logf(lvl logrus.Level, format string, args []interface{}) {
	if l.entry.Logger.IsLevelEnabled(lvl) {
		l.at().Logf(lvl, format, args...)
	}
}

func (l logger) Debug(args ...interface{})            { l.log(logrus.DebugLevel, args) }
func (l logger) Debugf(f string, args ...interface{}) { l.logf(logrus.DebugLevel, f, args) }
func (l logger) Info(args ...interface{})             { l.log(logrus.InfoLevel, args) }
func (l logger) Infof(f string, args ...interface{})  { l.logf(logrus.InfoLevel, f, args) }
func (l logger) Warn(args ...interface{})             { l.log(logrus.WarnLevel, args) }
func (l logger) Warnf(f string, args ...interface{})  { l.logf(logrus.WarnLevel, f, args) }
func (l logger) Error(args ...interface{})            { l.log(logrus.ErrorLevel, args) }
func (l logger) Errorf(f string, args ...interface{}) { l.logf(logrus.ErrorLevel, f, args) }

func (l logger) Fatal(args ...interface{}) {
	l.log(logrus.FatalLevel, args)
	l.entry.Logger.Exit(1)
}

func (l logger) Fatalf(format string, args ...interface{}) {
	l.logf(logrus.FatalLevel, format, args)
	l.entry.Logger.Exit(1)
}

func (l logger) With(key string, value interface{}) Logger {
	return logger{l.entry.WithField(key, value)}
}

func (l logger) WithFields(fields Fields) Logger {
	return logger{l.entry.WithFields(fields)}
}

func (l logger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	fields := Fields{"error": err.Error()}
	if kind := serr.KindOf(err); kind != serr.Unknown {
		fields["kind"] = kind.String()
	}
	for k, v := range serr.AttrsOf(err) {
		fields[k] = v
	}
	return logger{l.entry.WithFields(fields)}
}

func (l logger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(logrus.Level(lvl))
}

func (l logger) GetLevel() Level {
	return Level(l.entry.Logger.GetLevel())
}

func (l logger) IsLevelEnabled(lvl Level) bool {
	return l.entry.Logger.IsLevelEnabled(logrus.Level(lvl))
}

func (l logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

func (l logger) SetJSONFormatter() {
	l.entry.Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000000Z07:00"})
}
