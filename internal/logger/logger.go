/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger wraps logrus with the component/bridge-id field pair every
// part of the bridge runtime tags its log lines with.
package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	once sync.Once
)

// Fields is a typed alias kept distinct from logrus.Fields so call sites
// never import logrus directly outside this package.
type Fields map[string]any

func (f Fields) logrus() logrus.Fields {
	return logrus.Fields(f)
}

func root() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		base.SetLevel(logrus.InfoLevel)
	})
	return base
}

// SetLevel adjusts the process-wide minimum log level, by name
// ("debug", "info", "warn", "error").
func SetLevel(name string) {
	if lvl, err := logrus.ParseLevel(name); err == nil {
		root().SetLevel(lvl)
	}
}

// Entry is a named, field-carrying logger handed to one component or
// bridge instance; every call site adds context via With rather than
// formatting it into the message.
type Entry struct {
	e *logrus.Entry
}

// New returns an Entry tagged with the given component name.
func New(component string) *Entry {
	return &Entry{e: root().WithField("component", component)}
}

// With returns a child Entry with additional fields merged in.
func (l *Entry) With(f Fields) *Entry {
	if l == nil {
		return New("unknown").With(f)
	}
	return &Entry{e: l.e.WithFields(f.logrus())}
}

func (l *Entry) Debugf(format string, args ...any) { l.e.Debugf(format, args...) }
func (l *Entry) Infof(format string, args ...any)  { l.e.Infof(format, args...) }
func (l *Entry) Warnf(format string, args ...any)  { l.e.Warnf(format, args...) }
func (l *Entry) Errorf(format string, args ...any) { l.e.Errorf(format, args...) }
