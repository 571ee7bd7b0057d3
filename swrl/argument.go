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
	"fmt"
	"strings"

	"github.com/ontokit/ontokit/term"
)

// Argument is a slot of an atom or built-in: a Variable or a Constant.
type Argument interface {
	String() string
	isArgument()
}

// Variable is a named slot bound by evaluation. Its name excludes the
// leading '?'.
type Variable string

// Var returns the variable with the given name. A leading '?' is dropped.
func Var(name string) Variable {
	return Variable(strings.TrimPrefix(name, "?"))
}

func (Variable) isArgument() {}

func (v Variable) Name() string { return string(v) }

func (v Variable) String() string { return "?" + string(v) }

// Constant is an argument bound to a term.
type Constant struct {
	Term term.Term
}

func (Constant) isArgument() {}

func (c Constant) String() string {
	if c.Term == nil {
		return "<nil>"
	}
	return c.Term.String()
}

// Const wraps a term.
func Const(t term.Term) Constant { return Constant{Term: t} }

// Ind returns a constant naming an individual.
func Ind(iri string) Constant { return Constant{Term: term.NewIndividual(iri)} }

// Lit returns a literal constant.
func Lit(l term.Literal) Constant { return Constant{Term: l} }

// Str returns an xsd:string constant.
func Str(s string) Constant { return Constant{Term: term.NewString(s)} }

// Int returns an xsd:integer constant.
func Int(v int64) Constant { return Constant{Term: term.NewInt(v)} }

// Float returns an xsd:double constant.
func Float(v float64) Constant { return Constant{Term: term.NewFloat(v)} }

// checkArg rejects missing arguments, empty variable names and constants
// without a term.
func checkArg(fn, param string, a Argument) error {
	switch a := a.(type) {
	case nil:
		return argError(fn, param, ErrNilArgument)
	case Variable:
		if a == "" {
			return argError(fn, param, fmt.Errorf("%w: empty variable name", ErrNilArgument))
		}
	case Constant:
		if a.Term == nil {
			return argError(fn, param, fmt.Errorf("%w: constant without a value", ErrNilArgument))
		}
		if ind, ok := a.Term.(term.Individual); ok && ind.IsZero() {
			return argError(fn, param, fmt.Errorf("%w: individual without an IRI", ErrNilArgument))
		}
	}
	return nil
}

// checkKind rejects a constant argument that is not an individual (wantInd)
// or not a literal.
func checkKind(fn, param string, a Argument, wantInd bool) error {
	c, ok := a.(Constant)
	if !ok {
		return nil
	}
	switch c.Term.(type) {
	case term.Individual:
		if !wantInd {
			return argError(fn, param, fmt.Errorf("%w: %v is an individual, want a literal", ErrInvalidArgument, c))
		}
	case term.Literal:
		if wantInd {
			return argError(fn, param, fmt.Errorf("%w: %v is a literal, want an individual", ErrInvalidArgument, c))
		}
	}
	return nil
}

// resolve returns the value of an argument in a row.
func resolve(t *Table, r Row, a Argument) (term.Term, bool) {
	switch a := a.(type) {
	case Constant:
		return a.Term, true
	case Variable:
		return t.Get(r, a)
	}
	return nil, false
}

// variablesOf returns the distinct variables among args, in order.
func variablesOf(args ...Argument) []Variable {
	var out []Variable
	for _, a := range args {
		v, ok := a.(Variable)
		if !ok {
			continue
		}
		dup := false
		for _, w := range out {
			if w == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func joinArgs(args []Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
