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

	"github.com/ontokit/ontokit/clog"
)

// Consequent is the head of a rule: atom templates instantiated once per
// row of the antecedent's table.
type Consequent struct {
	atoms []Atom
}

// NewConsequent returns the consequent of the given atoms.
func NewConsequent(atoms ...Atom) (*Consequent, error) {
	const fn = "NewConsequent"
	if len(atoms) == 0 {
		return nil, argError(fn, "atoms", fmt.Errorf("%w: no atoms", ErrNilArgument))
	}
	for i, a := range atoms {
		if a == nil {
			return nil, argError(fn, fmt.Sprintf("atoms[%d]", i), ErrNilArgument)
		}
	}
	return &Consequent{atoms: append([]Atom(nil), atoms...)}, nil
}

// Atoms returns the atom templates.
func (c *Consequent) Atoms() []Atom { return append([]Atom(nil), c.atoms...) }

// Variables returns the distinct variables of the templates, in order.
func (c *Consequent) Variables() []Variable {
	var args []Argument
	for _, a := range c.atoms {
		for _, v := range a.Variables() {
			args = append(args, v)
		}
	}
	return variablesOf(args...)
}

// materialize instantiates every template for every row, row-major. An
// instantiation whose values do not fit the template is dropped.
func (c *Consequent) materialize(t *Table, rule string) []Inference {
	out := make([]Inference, 0, t.Len()*len(c.atoms))
	for _, r := range t.Rows() {
		for _, a := range c.atoms {
			fact, err := a.instantiate(t, r)
			if err != nil {
				mDroppedInferences.Inc()
				clog.Debugf(3, "swrl: rule %q drops %v for row %v: %v", rule, a, r, err)
				continue
			}
			out = append(out, Inference{Fact: fact, Rule: rule})
		}
	}
	return out
}

func (c *Consequent) String() string {
	parts := make([]string, len(c.atoms))
	for i, a := range c.atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ^ ")
}
