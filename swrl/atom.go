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

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

// Atom is one relation pattern of a rule: *ClassAtom, *ObjectPropertyAtom
// or *DataPropertyAtom.
type Atom interface {
	// Predicate is the IRI of the class or property.
	Predicate() string
	Args() []Argument
	// Variables returns the distinct variables of the atom, in order.
	Variables() []Variable
	String() string

	// evaluate reads the atom's local table from the store.
	evaluate(fs factstore.Reader) (*Table, error)
	// instantiate substitutes the row's values for the atom's variables.
	instantiate(t *Table, r Row) (Atom, error)
	// quad renders a ground atom.
	quad() quad.Quad
}

func atomString(predicate string, args ...Argument) string {
	return term.NewIndividual(predicate).String() + "(" + joinArgs(args) + ")"
}

func checkIRI(fn, param, iri string) error {
	if iri == "" {
		return argError(fn, param, fmt.Errorf("%w: empty IRI", ErrNilArgument))
	}
	return nil
}

// substitute returns the value of a in r as a constant.
func substitute(t *Table, r Row, a Argument) (Constant, error) {
	v, ok := resolve(t, r, a)
	if !ok {
		return Constant{}, fmt.Errorf("%w: %v", ErrUnboundVariable, a)
	}
	return Constant{Term: v}, nil
}

func individualOf(a Argument) term.Individual {
	ind, _ := a.(Constant).Term.(term.Individual)
	return ind
}

// pairTable builds the local table of a binary atom from its edges.
// Constant arguments filter; a variable repeated on both sides keeps only
// edges whose ends are equal.
func pairTable(a, b Argument, n int, edge func(i int) (term.Term, term.Term)) *Table {
	vars := variablesOf(a, b)
	t := NewTable(vars...)
	ca, aConst := a.(Constant)
	cb, bConst := b.(Constant)
	same := !aConst && !bConst && a == b
	for i := 0; i < n; i++ {
		x, y := edge(i)
		if aConst && ca.Term != x {
			continue
		}
		if bConst && cb.Term != y {
			continue
		}
		switch {
		case same:
			if x != y {
				continue
			}
			t.rows = append(t.rows, Row{x})
		case aConst && bConst:
			t.rows = append(t.rows, Row{})
		case aConst:
			t.rows = append(t.rows, Row{y})
		case bConst:
			t.rows = append(t.rows, Row{x})
		default:
			t.rows = append(t.rows, Row{x, y})
		}
	}
	return t
}

// ClassAtom tests membership of an individual in a class.
type ClassAtom struct {
	Class string
	Arg   Argument
}

// NewClassAtom returns the atom class(arg). A constant arg must be an
// individual.
func NewClassAtom(class string, arg Argument) (*ClassAtom, error) {
	const fn = "NewClassAtom"
	if err := checkIRI(fn, "class", class); err != nil {
		return nil, err
	}
	if err := checkArg(fn, "arg", arg); err != nil {
		return nil, err
	}
	if err := checkKind(fn, "arg", arg, true); err != nil {
		return nil, err
	}
	return &ClassAtom{Class: class, Arg: arg}, nil
}

func (a *ClassAtom) Predicate() string     { return a.Class }
func (a *ClassAtom) Args() []Argument      { return []Argument{a.Arg} }
func (a *ClassAtom) Variables() []Variable { return variablesOf(a.Arg) }
func (a *ClassAtom) String() string        { return atomString(a.Class, a.Arg) }

func (a *ClassAtom) evaluate(fs factstore.Reader) (*Table, error) {
	inds, err := fs.IndividualsOf(a.Class)
	if err != nil {
		return nil, fmt.Errorf("individuals of %v: %w", a.Class, err)
	}
	t := NewTable(a.Variables()...)
	c, isConst := a.Arg.(Constant)
	for _, ind := range inds {
		if isConst {
			if c.Term == term.Term(ind) {
				t.rows = append(t.rows, Row{})
				break
			}
			continue
		}
		t.rows = append(t.rows, Row{ind})
	}
	return t, nil
}

func (a *ClassAtom) instantiate(t *Table, r Row) (Atom, error) {
	arg, err := substitute(t, r, a.Arg)
	if err != nil {
		return nil, err
	}
	if _, err := term.AsIndividual(arg.Term); err != nil {
		return nil, err
	}
	return &ClassAtom{Class: a.Class, Arg: arg}, nil
}

func (a *ClassAtom) quad() quad.Quad {
	return quad.Quad{
		Subject:   individualOf(a.Arg).Value(),
		Predicate: quad.IRI(rdf.Type),
		Object:    quad.IRI(a.Class),
	}
}

// ObjectPropertyAtom tests an edge between two individuals.
type ObjectPropertyAtom struct {
	Property factstore.PropertyExpr
	Subject  Argument
	Object   Argument
}

// NewObjectPropertyAtom returns the atom property(subject, object).
// Constant arguments must be individuals.
func NewObjectPropertyAtom(property string, subject, object Argument) (*ObjectPropertyAtom, error) {
	return newObjectPropertyAtom("NewObjectPropertyAtom", factstore.PropertyExpr{IRI: property}, subject, object)
}

// NewInverseObjectPropertyAtom returns the atom inverse(property)(subject,
// object), which holds when property(object, subject) does.
func NewInverseObjectPropertyAtom(property string, subject, object Argument) (*ObjectPropertyAtom, error) {
	return newObjectPropertyAtom("NewInverseObjectPropertyAtom", factstore.PropertyExpr{IRI: property, Inverse: true}, subject, object)
}

func newObjectPropertyAtom(fn string, p factstore.PropertyExpr, subject, object Argument) (*ObjectPropertyAtom, error) {
	if err := checkIRI(fn, "property", p.IRI); err != nil {
		return nil, err
	}
	for _, a := range []struct {
		name string
		arg  Argument
	}{{"subject", subject}, {"object", object}} {
		if err := checkArg(fn, a.name, a.arg); err != nil {
			return nil, err
		}
		if err := checkKind(fn, a.name, a.arg, true); err != nil {
			return nil, err
		}
	}
	return &ObjectPropertyAtom{Property: p, Subject: subject, Object: object}, nil
}

func (a *ObjectPropertyAtom) Predicate() string     { return a.Property.IRI }
func (a *ObjectPropertyAtom) Args() []Argument      { return []Argument{a.Subject, a.Object} }
func (a *ObjectPropertyAtom) Variables() []Variable { return variablesOf(a.Subject, a.Object) }

func (a *ObjectPropertyAtom) String() string {
	return a.Property.String() + "(" + joinArgs(a.Args()) + ")"
}

func (a *ObjectPropertyAtom) evaluate(fs factstore.Reader) (*Table, error) {
	edges, err := factstore.ObjectEdgesOf(fs, a.Property)
	if err != nil {
		return nil, fmt.Errorf("edges of %v: %w", a.Property, err)
	}
	return pairTable(a.Subject, a.Object, len(edges), func(i int) (term.Term, term.Term) {
		return edges[i].Subject, edges[i].Object
	}), nil
}

// instantiate also normalizes an inverse expression, so ground atoms
// always name the asserted direction.
func (a *ObjectPropertyAtom) instantiate(t *Table, r Row) (Atom, error) {
	s, err := substitute(t, r, a.Subject)
	if err != nil {
		return nil, err
	}
	o, err := substitute(t, r, a.Object)
	if err != nil {
		return nil, err
	}
	for _, c := range []Constant{s, o} {
		if _, err := term.AsIndividual(c.Term); err != nil {
			return nil, err
		}
	}
	if a.Property.Inverse {
		s, o = o, s
	}
	return &ObjectPropertyAtom{Property: factstore.PropertyExpr{IRI: a.Property.IRI}, Subject: s, Object: o}, nil
}

func (a *ObjectPropertyAtom) quad() quad.Quad {
	s, o := a.Subject, a.Object
	if a.Property.Inverse {
		s, o = o, s
	}
	return quad.Quad{
		Subject:   individualOf(s).Value(),
		Predicate: quad.IRI(a.Property.IRI),
		Object:    individualOf(o).Value(),
	}
}

// DataPropertyAtom tests an edge from an individual to a literal.
type DataPropertyAtom struct {
	Property string
	Subject  Argument
	Object   Argument
}

// NewDataPropertyAtom returns the atom property(subject, object). A
// constant subject must be an individual and a constant object a literal.
func NewDataPropertyAtom(property string, subject, object Argument) (*DataPropertyAtom, error) {
	const fn = "NewDataPropertyAtom"
	if err := checkIRI(fn, "property", property); err != nil {
		return nil, err
	}
	if err := checkArg(fn, "subject", subject); err != nil {
		return nil, err
	}
	if err := checkArg(fn, "object", object); err != nil {
		return nil, err
	}
	if err := checkKind(fn, "subject", subject, true); err != nil {
		return nil, err
	}
	if err := checkKind(fn, "object", object, false); err != nil {
		return nil, err
	}
	return &DataPropertyAtom{Property: property, Subject: subject, Object: object}, nil
}

func (a *DataPropertyAtom) Predicate() string     { return a.Property }
func (a *DataPropertyAtom) Args() []Argument      { return []Argument{a.Subject, a.Object} }
func (a *DataPropertyAtom) Variables() []Variable { return variablesOf(a.Subject, a.Object) }
func (a *DataPropertyAtom) String() string        { return atomString(a.Property, a.Subject, a.Object) }

func (a *DataPropertyAtom) evaluate(fs factstore.Reader) (*Table, error) {
	edges, err := fs.DataEdges(a.Property)
	if err != nil {
		return nil, fmt.Errorf("edges of %v: %w", a.Property, err)
	}
	return pairTable(a.Subject, a.Object, len(edges), func(i int) (term.Term, term.Term) {
		return edges[i].Subject, edges[i].Object
	}), nil
}

func (a *DataPropertyAtom) instantiate(t *Table, r Row) (Atom, error) {
	s, err := substitute(t, r, a.Subject)
	if err != nil {
		return nil, err
	}
	o, err := substitute(t, r, a.Object)
	if err != nil {
		return nil, err
	}
	if _, err := term.AsIndividual(s.Term); err != nil {
		return nil, err
	}
	if _, err := term.AsLiteral(o.Term); err != nil {
		return nil, err
	}
	return &DataPropertyAtom{Property: a.Property, Subject: s, Object: o}, nil
}

func (a *DataPropertyAtom) quad() quad.Quad {
	return quad.Quad{
		Subject:   individualOf(a.Subject).Value(),
		Predicate: quad.IRI(a.Property),
		Object:    a.Object.(Constant).Term.Value(),
	}
}

// Literal returns the object of a ground data property atom.
func (a *DataPropertyAtom) Literal() (term.Literal, error) {
	c, ok := a.Object.(Constant)
	if !ok {
		return term.Literal{}, fmt.Errorf("%w: %v is not bound", ErrUnboundVariable, a.Object)
	}
	return term.AsLiteral(c.Term)
}
