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

package term

import (
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValue(t *testing.T) {
	when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		name string
		in   quad.Value
		exp  Term
	}{
		{"iri", quad.IRI("http://example.org/a"), NewIndividual("http://example.org/a")},
		{"bnode", quad.BNode("n1"), BlankNode("n1")},
		{"string", quad.String("abc"), NewString("abc")},
		{"lang", quad.LangString{Value: "chat", Lang: "FR"}, NewLangString("chat", "fr")},
		{"typed string", quad.TypedString{Value: "abc", Type: quad.IRI(DatatypeString)}, NewString("abc")},
		{"typed int", quad.TypedString{Value: "42", Type: quad.IRI(DatatypeInt)}, NewTyped("42", DatatypeInt)},
		{"int", quad.Int(-7), NewInt(-7)},
		{"float", quad.Float(1.5), NewFloat(1.5)},
		{"bool", quad.Bool(true), NewBool(true)},
		{"time", quad.Time(when), NewTime(when)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := FromValue(c.in)
			require.NoError(t, err)
			require.Equal(t, c.exp, got)
		})
	}

	_, err := FromValue(nil)
	require.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestValueRoundTrip(t *testing.T) {
	for _, tm := range []Term{
		NewIndividual("http://example.org/a"),
		BlankNode("b0"),
		NewString("plain"),
		NewLangString("hello", "en"),
		NewTyped("12", DatatypeInteger),
		NewBool(false),
	} {
		got, err := FromValue(tm.Value())
		require.NoError(t, err)
		require.Equal(t, tm, got, "%v", tm)
	}
}

func TestTermEquality(t *testing.T) {
	var a, b Term = NewIndividual("ex:x"), NewString("ex:x")
	assert.NotEqual(t, a, b)
	assert.False(t, a == b)
	assert.NotEqual(t, Key(a), Key(b))
	assert.True(t, NewTyped("1", DatatypeInteger) == Term(NewInt(1)))
	assert.False(t, Term(NewTyped("01", DatatypeInteger)) == Term(NewInt(1)))

	// Keys must not collide when field boundaries shift.
	assert.NotEqual(t, KeyOf(NewString("ab"), NewString("c")), KeyOf(NewString("a"), NewString("bc")))
}

func TestLiteralAccessors(t *testing.T) {
	v, err := NewTyped(" 42 ", DatatypeInt).Int()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	f, err := NewTyped("2.5", DatatypeDecimal).Float()
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	f, err = NewInt(3).Float()
	require.NoError(t, err)
	require.Equal(t, 3.0, f)

	_, err = NewString("3").Float()
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.True(t, IsMismatch(err))

	_, err = NewTyped("three", DatatypeInteger).Int()
	require.ErrorIs(t, err, ErrMalformed)
	require.True(t, IsMismatch(err))

	b, err := NewTyped("1", DatatypeBoolean).Bool()
	require.NoError(t, err)
	require.True(t, b)

	d, err := NewTyped("2021-03-04", DatatypeDate).Time()
	require.NoError(t, err)
	require.Equal(t, 2021, d.Year())

	_, err = AsIndividual(NewString("x"))
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = AsLiteral(NewIndividual("x"))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, `"val"`, NewString("val").String())
	assert.Equal(t, `"chat"@fr`, NewLangString("chat", "fr").String())
	assert.Equal(t, `"17"^^xsd:integer`, NewInt(17).String())
	assert.Equal(t, "_:b1", BlankNode("b1").String())
	assert.Equal(t, "ex:indiv1", NewIndividual("ex:indiv1").String())
}
