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

// Package factstore defines the fact store that rules are evaluated
// against, and the registry of its backends.
//
// A store holds three kinds of assertions derived from quads:
//
//	(s rdf:type C)     class membership of s in C
//	(s p o), o an IRI  object property edge
//	(s p o), o literal data property edge
//
// Named graph labels are stored but not visible through Reader.
package factstore

import (
	"errors"
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/ontokit/ontokit/term"
)

var (
	ErrInvalidQuad = errors.New("factstore: invalid quad")
	ErrClosed      = errors.New("factstore: store is closed")
)

// ObjectEdge is an asserted edge of an object property.
type ObjectEdge struct {
	Subject term.Individual
	Object  term.Individual
}

// Reverse returns the edge read from the object side.
func (e ObjectEdge) Reverse() ObjectEdge {
	return ObjectEdge{Subject: e.Object, Object: e.Subject}
}

// DataEdge is an asserted edge of a data property.
type DataEdge struct {
	Subject term.Individual
	Object  term.Literal
}

// PropertyExpr is an object property, optionally read in the inverse
// direction.
type PropertyExpr struct {
	IRI     string
	Inverse bool
}

func (p PropertyExpr) String() string {
	s := term.NewIndividual(p.IRI).String()
	if p.Inverse {
		return "inverse(" + s + ")"
	}
	return s
}

// Reader answers the queries rule atoms need. Results are returned in
// store order and hold no duplicates.
type Reader interface {
	// IndividualsOf returns every individual asserted to be of class.
	IndividualsOf(class string) ([]term.Individual, error)
	// ObjectEdges returns every asserted edge of an object property.
	ObjectEdges(property string) ([]ObjectEdge, error)
	// DataEdges returns every asserted edge of a data property.
	DataEdges(property string) ([]DataEdge, error)
}

// ObjectEdgesOf reads the edges of a property expression, reversing them
// for an inverse expression.
func ObjectEdgesOf(r Reader, p PropertyExpr) ([]ObjectEdge, error) {
	edges, err := r.ObjectEdges(p.IRI)
	if err != nil || !p.Inverse {
		return edges, err
	}
	out := make([]ObjectEdge, len(edges))
	for i, e := range edges {
		out[i] = e.Reverse()
	}
	return out, nil
}

// Writer adds assertions. Quads already present are ignored.
type Writer interface {
	AddQuads(quads []quad.Quad) error
}

// Snapshot is a read view that does not observe writes made after it was
// taken. Release must be called when the view is no longer needed.
type Snapshot interface {
	Reader
	Release()
}

// Store is a fact store backend.
type Store interface {
	Reader
	Writer
	// Snapshot takes an immutable read view of the store.
	Snapshot() (Snapshot, error)
	// ForEach calls fn for every fact in store order, stopping at the first
	// error returned by fn.
	ForEach(fn func(Fact) error) error
	// Size returns the number of facts stored.
	Size() (int64, error)
	Close() error
}

// Kind tells which of the three relations a fact belongs to.
type Kind uint8

const (
	KindClass Kind = iota + 1
	KindObject
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindObject:
		return "object"
	case KindData:
		return "data"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Fact is a classified assertion. For class facts Predicate is the class
// IRI and Object is nil; otherwise Predicate is the property IRI.
type Fact struct {
	Kind      Kind
	Subject   term.Individual
	Predicate string
	Object    term.Term
	Label     quad.Value
}

// Classify converts a quad to a fact.
func Classify(q quad.Quad) (Fact, error) {
	s, err := term.FromValue(q.Subject)
	if err != nil {
		return Fact{}, fmt.Errorf("%w: subject: %v", ErrInvalidQuad, err)
	}
	subject, ok := s.(term.Individual)
	if !ok {
		return Fact{}, fmt.Errorf("%w: literal subject %v", ErrInvalidQuad, s)
	}
	pred, ok := q.Predicate.(quad.IRI)
	if !ok {
		return Fact{}, fmt.Errorf("%w: predicate %v is not an IRI", ErrInvalidQuad, q.Predicate)
	}
	predicate := string(pred.Full())
	f := Fact{Subject: subject, Label: q.Label}
	if predicate == rdf.Type {
		class, ok := q.Object.(quad.IRI)
		if !ok {
			return Fact{}, fmt.Errorf("%w: class %v is not an IRI", ErrInvalidQuad, q.Object)
		}
		f.Kind = KindClass
		f.Predicate = string(class.Full())
		return f, nil
	}
	o, err := term.FromValue(q.Object)
	if err != nil {
		return Fact{}, fmt.Errorf("%w: object: %v", ErrInvalidQuad, err)
	}
	f.Predicate = predicate
	f.Object = o
	switch o.(type) {
	case term.Individual:
		f.Kind = KindObject
	default:
		f.Kind = KindData
	}
	return f, nil
}

// ClassifyAll classifies every quad, failing on the first invalid one.
func ClassifyAll(quads []quad.Quad) ([]Fact, error) {
	facts := make([]Fact, 0, len(quads))
	for i, q := range quads {
		f, err := Classify(q)
		if err != nil {
			return nil, fmt.Errorf("quad %d: %w", i, err)
		}
		facts = append(facts, f)
	}
	return facts, nil
}

// Quad renders the fact back as a quad.
func (f Fact) Quad() quad.Quad {
	q := quad.Quad{Subject: f.Subject.Value(), Label: f.Label}
	if f.Kind == KindClass {
		q.Predicate = quad.IRI(rdf.Type)
		q.Object = quad.IRI(f.Predicate)
		return q
	}
	q.Predicate = quad.IRI(f.Predicate)
	q.Object = f.Object.Value()
	return q
}

// Key identifies the fact's content, ignoring its label.
func (f Fact) Key() string {
	return f.Kind.String() + term.KeyOf(f.Subject, term.NewIndividual(f.Predicate), f.Object)
}

// ObjectEdge returns an object fact as an edge.
func (f Fact) ObjectEdge() ObjectEdge {
	o, _ := f.Object.(term.Individual)
	return ObjectEdge{Subject: f.Subject, Object: o}
}

// DataEdge returns a data fact as an edge.
func (f Fact) DataEdge() DataEdge {
	o, _ := f.Object.(term.Literal)
	return DataEdge{Subject: f.Subject, Object: o}
}
