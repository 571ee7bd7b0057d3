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

package swrl

import (
	"errors"
	"fmt"
)

var (
	ErrNilArgument     = errors.New("swrl: required argument is missing")
	ErrInvalidArgument = errors.New("swrl: invalid argument")
	ErrUnboundVariable = errors.New("swrl: variable is not bound by the antecedent")
	ErrUnknownBuiltIn  = errors.New("swrl: unknown built-in")
	ErrArity           = errors.New("swrl: wrong number of arguments")
)

// ArgumentError reports which parameter of a constructor was rejected.
type ArgumentError struct {
	Func  string
	Param string
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: parameter %s: %v", e.Func, e.Param, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argError(fn, param string, err error) error {
	return &ArgumentError{Func: fn, Param: param, Err: err}
}
