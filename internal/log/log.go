// The MIT License
//
// Copyright (c) 2020 Temporal Technologies Inc.  All rights reserved.
//
// Copyright (c) 2020 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package log defines the minimal structured logger interface the rest of the SDK
// depends on, plus a stdlib-backed default so a caller who configures nothing still
// gets usable output.
package log

import (
	"fmt"
	"log"
	"os"
)

// Logger is the structured logging contract every internal component is built
// against. keyvals are alternating key/value pairs, the same convention the bundled
// default and most structured loggers in the ecosystem use.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// With returns a Logger that prepends keyvals to every subsequent call's own keyvals.
// Implementations that can do this more efficiently (structured backends) should
// satisfy this interface directly; for other Loggers With2 falls back to wrapping
// them in a keyval-prefixing Logger.
type With interface {
	With(keyvals ...interface{}) Logger
}

type stdLogger struct {
	l       *log.Logger
	keyvals []interface{}
}

// NewDefaultLogger returns a Logger that writes level-prefixed lines to stderr via the
// standard library's log package. Used whenever a caller leaves client.Options.Logger
// or worker.Options.Logger unset.
func NewDefaultLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)}
}

func (s *stdLogger) With(keyvals ...interface{}) Logger {
	combined := make([]interface{}, 0, len(s.keyvals)+len(keyvals))
	combined = append(combined, s.keyvals...)
	combined = append(combined, keyvals...)
	return &stdLogger{l: s.l, keyvals: combined}
}

func (s *stdLogger) log(level, msg string, keyvals []interface{}) {
	all := make([]interface{}, 0, len(s.keyvals)+len(keyvals))
	all = append(all, s.keyvals...)
	all = append(all, keyvals...)
	s.l.Print(level + " " + msg + " " + formatKeyvals(all))
}

func (s *stdLogger) Debug(msg string, keyvals ...interface{}) { s.log("DEBUG", msg, keyvals) }
func (s *stdLogger) Info(msg string, keyvals ...interface{})  { s.log("INFO ", msg, keyvals) }
func (s *stdLogger) Warn(msg string, keyvals ...interface{})  { s.log("WARN ", msg, keyvals) }
func (s *stdLogger) Error(msg string, keyvals ...interface{}) { s.log("ERROR", msg, keyvals) }

func formatKeyvals(keyvals []interface{}) string {
	if len(keyvals) == 0 {
		return ""
	}
	out := ""
	for i := 0; i < len(keyvals); i += 2 {
		if i > 0 {
			out += " "
		}
		if i+1 < len(keyvals) {
			out += fmt.Sprintf("%v=%v", keyvals[i], keyvals[i+1])
		} else {
			out += fmt.Sprintf("%v", keyvals[i])
		}
	}
	return out
}

// With2 is a package-level convenience for wrapping any Logger with additional
// keyvals, falling back to a plain prefix-accumulator when l doesn't implement With.
func With2(l Logger, keyvals ...interface{}) Logger {
	if w, ok := l.(With); ok {
		return w.With(keyvals...)
	}
	return &prefixed{base: l, keyvals: keyvals}
}

type prefixed struct {
	base    Logger
	keyvals []interface{}
}

func (p *prefixed) Debug(msg string, keyvals ...interface{}) {
	p.base.Debug(msg, append(append([]interface{}{}, p.keyvals...), keyvals...)...)
}
func (p *prefixed) Info(msg string, keyvals ...interface{}) {
	p.base.Info(msg, append(append([]interface{}{}, p.keyvals...), keyvals...)...)
}
func (p *prefixed) Warn(msg string, keyvals ...interface{}) {
	p.base.Warn(msg, append(append([]interface{}{}, p.keyvals...), keyvals...)...)
}
func (p *prefixed) Error(msg string, keyvals ...interface{}) {
	p.base.Error(msg, append(append([]interface{}{}, p.keyvals...), keyvals...)...)
}
