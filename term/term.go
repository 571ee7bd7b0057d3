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

// Package term defines the constants a rule binds to its variables.
//
// A Term is either an Individual (an IRI or blank node naming something in
// the ontology) or a Literal (a lexical form with a datatype). The two are
// never interchangeable: comparing terms of different kinds always fails.
// Both concrete types are comparable, so == on two Terms is RDF term
// equality and Terms can be used as map keys.
package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
)

var (
	// ErrTypeMismatch is returned when a term is used as a kind or datatype
	// it does not have.
	ErrTypeMismatch = errors.New("term: type mismatch")
	// ErrMalformed is returned when a literal's lexical form is not valid
	// for its datatype.
	ErrMalformed = errors.New("term: malformed literal")
	// ErrUnsupportedValue is returned for quad values that cannot be bound.
	ErrUnsupportedValue = errors.New("term: unsupported value")
)

// IsMismatch reports whether err is an expected divergence between a value
// and the type it was used as, as opposed to an unexpected failure.
func IsMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrMalformed)
}

// Term is a constant bound in a rule: an Individual or a Literal.
type Term interface {
	// Value converts the term to a quad value.
	Value() quad.Value
	// String renders the term the way rule diagnostics print it.
	String() string

	isTerm()
}

// Individual names an ontology individual by IRI, or by blank node label
// when Blank is set.
type Individual struct {
	IRI   string
	Blank bool
}

// NewIndividual returns an individual named by iri.
func NewIndividual(iri string) Individual {
	return Individual{IRI: iri}
}

// BlankNode returns an anonymous individual with the given label.
func BlankNode(id string) Individual {
	return Individual{IRI: id, Blank: true}
}

func (Individual) isTerm() {}

// IsZero reports whether the individual is unset.
func (i Individual) IsZero() bool { return i.IRI == "" }

// Value implements Term.
func (i Individual) Value() quad.Value {
	if i.Blank {
		return quad.BNode(i.IRI)
	}
	return quad.IRI(i.IRI)
}

// String renders the IRI in its short form, if a prefix is registered for it.
func (i Individual) String() string {
	if i.Blank {
		return "_:" + i.IRI
	}
	return voc.ShortIRI(i.IRI)
}

// FromValue converts a quad value to a term.
func FromValue(v quad.Value) (Term, error) {
	switch v := v.(type) {
	case quad.IRI:
		return NewIndividual(string(v.Full())), nil
	case quad.BNode:
		return BlankNode(string(v)), nil
	case quad.String:
		return NewString(string(v)), nil
	case quad.LangString:
		return NewLangString(string(v.Value), v.Lang), nil
	case quad.TypedString:
		return NewTyped(string(v.Value), string(v.Type.Full())), nil
	case quad.Int:
		return NewInt(int64(v)), nil
	case quad.Float:
		return NewFloat(float64(v)), nil
	case quad.Bool:
		return NewBool(bool(v)), nil
	case quad.Time:
		return NewTime(time.Time(v)), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedValue)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// AsIndividual returns t as an Individual, or an ErrTypeMismatch error.
func AsIndividual(t Term) (Individual, error) {
	if ind, ok := t.(Individual); ok {
		return ind, nil
	}
	return Individual{}, fmt.Errorf("%w: %v is not an individual", ErrTypeMismatch, t)
}

// AsLiteral returns t as a Literal, or an ErrTypeMismatch error.
func AsLiteral(t Term) (Literal, error) {
	if lit, ok := t.(Literal); ok {
		return lit, nil
	}
	return Literal{}, fmt.Errorf("%w: %v is not a literal", ErrTypeMismatch, t)
}

// Key returns a string that is equal for two terms iff the terms are equal.
// It is used to hash rows on join columns.
func Key(t Term) string {
	var sb strings.Builder
	writeKey(&sb, t)
	return sb.String()
}

// KeyOf concatenates the keys of several terms, unambiguously.
func KeyOf(ts ...Term) string {
	var sb strings.Builder
	for _, t := range ts {
		writeKey(&sb, t)
	}
	return sb.String()
}

func writeKey(sb *strings.Builder, t Term) {
	writeField := func(s string) {
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
	switch t := t.(type) {
	case Individual:
		if t.Blank {
			sb.WriteByte('b')
		} else {
			sb.WriteByte('i')
		}
		writeField(t.IRI)
	case Literal:
		sb.WriteByte('l')
		writeField(t.Lexical)
		writeField(t.Datatype)
		writeField(t.Lang)
	default:
		sb.WriteByte('-')
	}
}
