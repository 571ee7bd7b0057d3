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
	"sort"
	"strings"
	"sync"

	"github.com/cayleygraph/quad/voc"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/term"
)

const (
	// NS is the namespace of the SWRL built-in vocabulary.
	NS     = "http://www.w3.org/2003/11/swrlb#"
	Prefix = "swrlb:"
)

func init() {
	voc.Register(voc.Namespace{Full: NS, Prefix: Prefix})
}

// BuiltIn is a predicate or derivation over the values of a row.
//
// A predicate keeps the rows it holds for. A derivation computes its first
// argument from the others: when the first argument is a variable that is
// not yet bound the result is bound to it as a new column, otherwise the
// row is kept when the computed value equals the bound one.
type BuiltIn interface {
	// Name is the local name in the swrlb: vocabulary.
	Name() string
	// IRI is the full name of the built-in.
	IRI() string
	Args() []Argument
	// String renders the canonical form name(arg1,arg2,...). Literal
	// arguments are double-quoted, individuals and variables are not.
	String() string

	// inputs are the variables that must be bound before evaluation.
	inputs(bound func(Variable) bool) []Variable
	// output is the variable the built-in binds, if any.
	output(bound func(Variable) bool) (Variable, bool)
	evaluate(t *Table) *Table
}

// BuiltInFunc builds a built-in from its arguments.
type BuiltInFunc func(args ...Argument) (BuiltIn, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]BuiltInFunc)
)

// RegisterBuiltIn makes a built-in available to NewBuiltIn under its local
// name. It panics if the name is taken.
func RegisterBuiltIn(name string, f BuiltInFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, found := registry[name]; found {
		panic(fmt.Sprintf("swrl: built-in %q already registered", name))
	}
	registry[name] = f
}

// LookupBuiltIn finds a built-in by local name, prefixed name (swrlb:add)
// or full IRI.
func LookupBuiltIn(name string) (BuiltInFunc, bool) {
	name = strings.TrimPrefix(name, NS)
	name = strings.TrimPrefix(name, Prefix)
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// NewBuiltIn builds the named built-in.
func NewBuiltIn(name string, args ...Argument) (BuiltIn, error) {
	f, ok := LookupBuiltIn(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltIn, name)
	}
	return f(args...)
}

// BuiltIns lists the registered built-in names, sorted.
func BuiltIns() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func builtInString(name string, args []Argument) string {
	return name + "(" + joinArgs(args) + ")"
}

// checkArity validates the argument count and every argument. max < 0
// means no upper bound.
func checkArity(name string, args []Argument, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		want := fmt.Sprint(min)
		switch {
		case max < 0:
			want = fmt.Sprintf("at least %d", min)
		case max != min:
			want = fmt.Sprintf("%d to %d", min, max)
		}
		return fmt.Errorf("%s: %w: got %d, want %s", name, ErrArity, len(args), want)
	}
	for i, a := range args {
		if err := checkArg(name, fmt.Sprintf("arg%d", i+1), a); err != nil {
			return err
		}
	}
	return nil
}

// dropRow records a row a built-in did not hold for because of err.
func dropRow(name string, r Row, err error) {
	mBuiltInDropped.WithLabelValues(name).Inc()
	if term.IsMismatch(err) {
		mTypeMismatch.Inc()
		clog.Debugf(3, "swrl: %s drops row %v: %v", name, r, err)
		return
	}
	clog.Warningf("swrl: %s drops row %v: %v", name, r, err)
}

// predicate is a built-in that tests its arguments.
type predicate struct {
	name string
	args []Argument
	test func(vals []term.Term) (bool, error)
}

func newPredicate(name string, min, max int, test func([]term.Term) (bool, error)) BuiltInFunc {
	return func(args ...Argument) (BuiltIn, error) {
		if err := checkArity(name, args, min, max); err != nil {
			return nil, err
		}
		return &predicate{name: name, args: append([]Argument(nil), args...), test: test}, nil
	}
}

func (p *predicate) Name() string     { return p.name }
func (p *predicate) IRI() string      { return NS + p.name }
func (p *predicate) Args() []Argument { return append([]Argument(nil), p.args...) }
func (p *predicate) String() string   { return builtInString(p.name, p.args) }

func (p *predicate) inputs(func(Variable) bool) []Variable { return variablesOf(p.args...) }

func (p *predicate) output(func(Variable) bool) (Variable, bool) { return "", false }

func (p *predicate) evaluate(t *Table) *Table {
	return testRows(t, p.name, p.args, p.test)
}

func testRows(t *Table, name string, args []Argument, test func([]term.Term) (bool, error)) *Table {
	vals := make([]term.Term, len(args))
	return t.Filter(func(r Row) bool {
		for i, a := range args {
			v, ok := resolve(t, r, a)
			if !ok {
				dropRow(name, r, fmt.Errorf("%w: %v", ErrUnboundVariable, a))
				return false
			}
			vals[i] = v
		}
		ok, err := test(vals)
		if err != nil {
			dropRow(name, r, err)
			return false
		}
		return ok
	})
}

// derivation is a built-in whose first argument is a function of the
// others.
type derivation struct {
	name string
	args []Argument
	fn   func(vals []term.Term) (term.Term, error)
}

func newDerivation(name string, min, max int, fn func([]term.Term) (term.Term, error)) BuiltInFunc {
	return func(args ...Argument) (BuiltIn, error) {
		if err := checkArity(name, args, min, max); err != nil {
			return nil, err
		}
		return &derivation{name: name, args: append([]Argument(nil), args...), fn: fn}, nil
	}
}

func (d *derivation) Name() string     { return d.name }
func (d *derivation) IRI() string      { return NS + d.name }
func (d *derivation) Args() []Argument { return append([]Argument(nil), d.args...) }
func (d *derivation) String() string   { return builtInString(d.name, d.args) }

func (d *derivation) output(bound func(Variable) bool) (Variable, bool) {
	v, ok := d.args[0].(Variable)
	if !ok || bound(v) {
		return "", false
	}
	for _, w := range variablesOf(d.args[1:]...) {
		if w == v {
			return "", false
		}
	}
	return v, true
}

func (d *derivation) inputs(bound func(Variable) bool) []Variable {
	if _, ok := d.output(bound); ok {
		return variablesOf(d.args[1:]...)
	}
	return variablesOf(d.args...)
}

func (d *derivation) evaluate(t *Table) *Table {
	if v, ok := d.output(t.Has); ok {
		vals := make([]term.Term, len(d.args)-1)
		return t.extend(v, func(r Row) (term.Term, bool) {
			for i, a := range d.args[1:] {
				val, ok := resolve(t, r, a)
				if !ok {
					dropRow(d.name, r, fmt.Errorf("%w: %v", ErrUnboundVariable, a))
					return nil, false
				}
				vals[i] = val
			}
			res, err := d.fn(vals)
			if err != nil {
				dropRow(d.name, r, err)
				return nil, false
			}
			return res, true
		})
	}
	return testRows(t, d.name, d.args, func(vals []term.Term) (bool, error) {
		res, err := d.fn(vals[1:])
		if err != nil {
			return false, err
		}
		return valueEqual(vals[0], res), nil
	})
}
