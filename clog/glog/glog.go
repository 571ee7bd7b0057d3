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

// Package glog routes clog output to github.com/golang/glog.
// Import it for side effects from a binary's main package.
package glog

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/ontokit/ontokit/clog"
)

func init() {
	clog.SetLogger(Logger{})
}

// Logger is a clog.Logger backed by glog. Its verbosity is glog's -v flag.
type Logger struct{}

func (Logger) Infof(format string, args ...interface{}) {
	glog.InfoDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Warningf(format string, args ...interface{}) {
	glog.WarningDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Fatalf(format string, args ...interface{}) {
	glog.FatalDepth(3, fmt.Sprintf(format, args...))
}

func (Logger) V(level int) bool {
	return bool(glog.V(glog.Level(level)))
}

func (Logger) SetV(level int) {
	if err := flag.Set("v", strconv.Itoa(level)); err != nil {
		glog.Warningf("cannot change log level to %d: %v", level, err)
	}
}
