// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clog provides the logging interface used by ontokit packages.
//
// Packages log through the functions in this package; binaries choose the
// backend by importing one (see clog/glog) or calling SetLogger.
package clog

import (
	"log"
	"sync/atomic"
)

// Logger is the clog logging interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Leveler is implemented by loggers that manage their own verbosity.
type Leveler interface {
	V(level int) bool
	SetV(level int)
}

var logger Logger = stdlog{}

// SetLogger set the clog logging implementation.
func SetLogger(l Logger) { logger = l }

var verbosity int32

// V returns whether the current clog verbosity is above the specified level.
func V(level int) bool {
	if l, ok := logger.(Leveler); ok {
		return l.V(level)
	}
	return int(atomic.LoadInt32(&verbosity)) >= level
}

// SetV sets the clog verbosity level.
func SetV(level int) {
	atomic.StoreInt32(&verbosity, int32(level))
	if l, ok := logger.(Leveler); ok {
		l.SetV(level)
	}
}

// Infof logs information level messages.
func Infof(format string, args ...interface{}) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

// Debugf logs information level messages when verbosity is at least level.
func Debugf(level int, format string, args ...interface{}) {
	if logger != nil && V(level) {
		logger.Infof(format, args...)
	}
}

// Warningf logs warning level messages.
func Warningf(format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Errorf logs error level messages.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Fatalf logs fatal messages and terminates the program.
func Fatalf(format string, args ...interface{}) {
	if logger != nil {
		logger.Fatalf(format, args...)
	}
}

// stdlog wraps the standard library logger.
type stdlog struct{}

func (stdlog) Infof(format string, args ...interface{})    { log.Printf(format, args...) }
func (stdlog) Warningf(format string, args ...interface{}) { log.Printf("WARN: "+format, args...) }
func (stdlog) Errorf(format string, args ...interface{})   { log.Printf("ERROR: "+format, args...) }
func (stdlog) Fatalf(format string, args ...interface{})   { log.Fatalf("FATAL: "+format, args...) }
