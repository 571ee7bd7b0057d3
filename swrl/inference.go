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

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

// Inference is a fact derived by a rule. Fact is a ground atom: all its
// arguments are constants.
type Inference struct {
	Fact Atom
	Rule string
}

// Quad renders the fact as a quad with no label.
func (inf Inference) Quad() quad.Quad { return inf.Fact.quad() }

func (inf Inference) String() string {
	return fmt.Sprintf("%v <- %s", inf.Fact, inf.Rule)
}

// Quads renders the facts of infs, in order.
func Quads(infs []Inference) []quad.Quad {
	out := make([]quad.Quad, len(infs))
	for i, inf := range infs {
		out[i] = inf.Quad()
	}
	return out
}

// LiteralsOf returns the values derived for the data property, in order.
func LiteralsOf(infs []Inference, property string) []term.Literal {
	var out []term.Literal
	for _, inf := range infs {
		a, ok := inf.Fact.(*DataPropertyAtom)
		if !ok || a.Property != property {
			continue
		}
		lit, err := a.Literal()
		if err != nil {
			continue
		}
		out = append(out, lit)
	}
	return out
}

// FloatsOf returns the numeric values derived for the data property.
// Values that are not numbers are skipped.
func FloatsOf(infs []Inference, property string) ([]float64, error) {
	var out []float64
	for _, lit := range LiteralsOf(infs, property) {
		f, err := lit.Float()
		if term.IsMismatch(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// factKey identifies a ground atom by content.
func factKey(a Atom) string {
	var sb strings.Builder
	switch a := a.(type) {
	case *ClassAtom:
		sb.WriteString("c ")
	case *ObjectPropertyAtom:
		sb.WriteString("o ")
		if a.Property.Inverse {
			return factKey(&ObjectPropertyAtom{
				Property: factstore.PropertyExpr{IRI: a.Property.IRI},
				Subject:  a.Object,
				Object:   a.Subject,
			})
		}
	case *DataPropertyAtom:
		sb.WriteString("d ")
	}
	sb.WriteString(a.Predicate())
	for _, arg := range a.Args() {
		sb.WriteByte(' ')
		if c, ok := arg.(Constant); ok {
			sb.WriteString(term.Key(c.Term))
		} else {
			sb.WriteString(arg.String())
		}
	}
	return sb.String()
}

// Dedup returns infs without facts already derived earlier in the slice,
// keeping the first occurrence.
func Dedup(infs []Inference) []Inference {
	seen := make(map[string]struct{}, len(infs))
	out := make([]Inference, 0, len(infs))
	for _, inf := range infs {
		k := factKey(inf.Fact)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, inf)
	}
	return out
}
