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

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
)

// Antecedent is the body of a rule: atoms joined in order, then built-ins
// applied to the joined table.
type Antecedent struct {
	atoms    []Atom
	builtIns []BuiltIn

	// Reorder evaluates every atom first and joins the smallest tables
	// first. The result holds the same rows in a different order.
	Reorder bool
}

// NewAntecedent returns the antecedent of atoms and built-ins. Built-ins
// are reordered so that each runs after those that bind its inputs; it is
// an error if some input is bound by neither an atom nor a built-in.
func NewAntecedent(atoms []Atom, builtIns ...BuiltIn) (*Antecedent, error) {
	const fn = "NewAntecedent"
	bound := make(map[Variable]bool)
	for i, a := range atoms {
		if a == nil {
			return nil, argError(fn, fmt.Sprintf("atoms[%d]", i), ErrNilArgument)
		}
		for _, v := range a.Variables() {
			bound[v] = true
		}
	}
	for i, b := range builtIns {
		if b == nil {
			return nil, argError(fn, fmt.Sprintf("builtIns[%d]", i), ErrNilArgument)
		}
	}
	isBound := func(v Variable) bool { return bound[v] }

	ordered := make([]BuiltIn, 0, len(builtIns))
	pending := append([]BuiltIn(nil), builtIns...)
	for len(pending) > 0 {
		next := -1
		for i, b := range pending {
			if missing(b.inputs(isBound), isBound) == "" {
				next = i
				break
			}
		}
		if next < 0 {
			b := pending[0]
			return nil, fmt.Errorf("%s: %v: %w: %v", fn, b, ErrUnboundVariable, missing(b.inputs(isBound), isBound))
		}
		b := pending[next]
		if v, ok := b.output(isBound); ok {
			bound[v] = true
		}
		ordered = append(ordered, b)
		pending = append(pending[:next], pending[next+1:]...)
	}
	return &Antecedent{
		atoms:    append([]Atom(nil), atoms...),
		builtIns: ordered,
	}, nil
}

func missing(vs []Variable, bound func(Variable) bool) Variable {
	for _, v := range vs {
		if !bound(v) {
			return v
		}
	}
	return ""
}

// Atoms returns the atoms in join order.
func (a *Antecedent) Atoms() []Atom { return append([]Atom(nil), a.atoms...) }

// BuiltIns returns the built-ins in evaluation order.
func (a *Antecedent) BuiltIns() []BuiltIn { return append([]BuiltIn(nil), a.builtIns...) }

// Variables returns the variables bound by the antecedent: those of the
// atoms in order, followed by those bound by built-ins.
func (a *Antecedent) Variables() []Variable {
	var args []Argument
	for _, at := range a.atoms {
		for _, v := range at.Variables() {
			args = append(args, v)
		}
	}
	vars := variablesOf(args...)
	bound := make(map[Variable]bool, len(vars))
	for _, v := range vars {
		bound[v] = true
	}
	isBound := func(v Variable) bool { return bound[v] }
	for _, b := range a.builtIns {
		if v, ok := b.output(isBound); ok {
			bound[v] = true
			vars = append(vars, v)
		}
	}
	return vars
}

// Evaluate returns the binding table of the antecedent over fs. It stops
// as soon as a step leaves no rows, in which case the table may lack the
// columns of the steps that were not run.
func (a *Antecedent) Evaluate(fs factstore.Reader) (*Table, error) {
	var (
		t   *Table
		err error
	)
	if a.Reorder {
		t, err = a.joinBySize(fs)
	} else {
		t, err = a.join(fs)
	}
	if err != nil {
		return nil, err
	}
	mJoinedRows.Observe(float64(t.Len()))
	for _, b := range a.builtIns {
		if t.Len() == 0 {
			return t, nil
		}
		t = b.evaluate(t)
		if clog.V(2) {
			clog.Infof("swrl: %v keeps %d rows", b, t.Len())
		}
	}
	return t, nil
}

func (a *Antecedent) join(fs factstore.Reader) (*Table, error) {
	t := UnitTable()
	for _, at := range a.atoms {
		local, err := at.evaluate(fs)
		if err != nil {
			return nil, err
		}
		t = t.Join(local)
		if clog.V(2) {
			clog.Infof("swrl: %v matches %d rows, %d after join", at, local.Len(), t.Len())
		}
		if t.Len() == 0 {
			return t, nil
		}
	}
	return t, nil
}

func (a *Antecedent) joinBySize(fs factstore.Reader) (*Table, error) {
	locals := make([]*Table, 0, len(a.atoms))
	for _, at := range a.atoms {
		local, err := at.evaluate(fs)
		if err != nil {
			return nil, err
		}
		if clog.V(2) {
			clog.Infof("swrl: %v matches %d rows", at, local.Len())
		}
		if local.Len() == 0 {
			return local, nil
		}
		locals = append(locals, local)
	}
	sort.SliceStable(locals, func(i, j int) bool { return locals[i].Len() < locals[j].Len() })

	t := UnitTable()
	for len(locals) > 0 {
		next := 0
		for i, l := range locals {
			if sharesColumn(t, l) {
				next = i
				break
			}
		}
		t = t.Join(locals[next])
		locals = append(locals[:next], locals[next+1:]...)
		if t.Len() == 0 {
			return t, nil
		}
	}
	return t, nil
}

func sharesColumn(t, o *Table) bool {
	for _, c := range o.cols {
		if t.Has(c) {
			return true
		}
	}
	return false
}

func (a *Antecedent) String() string {
	parts := make([]string, 0, len(a.atoms)+len(a.builtIns))
	for _, at := range a.atoms {
		parts = append(parts, at.String())
	}
	for _, b := range a.builtIns {
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " ^ ")
}
