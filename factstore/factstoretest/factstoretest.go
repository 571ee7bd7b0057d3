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

// Package factstoretest is a conformance suite run by every fact store
// backend.
package factstoretest

import (
	"errors"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

// DatabaseFunc creates an empty store and a function that disposes of it.
type DatabaseFunc func(t testing.TB) (factstore.Store, func())

const ex = "http://example.org/"

func iri(s string) quad.IRI { return quad.IRI(ex + s) }

func ind(s string) term.Individual { return term.NewIndividual(ex + s) }

// MakeQuadSet returns a small family graph used by the suite.
func MakeQuadSet() []quad.Quad {
	return []quad.Quad{
		{Subject: iri("alice"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
		{Subject: iri("bob"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
		{Subject: iri("carol"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
		{Subject: iri("rex"), Predicate: quad.IRI(rdf.Type), Object: iri("Dog")},
		{Subject: iri("alice"), Predicate: iri("knows"), Object: iri("bob")},
		{Subject: iri("bob"), Predicate: iri("knows"), Object: iri("carol")},
		{Subject: iri("carol"), Predicate: iri("owns"), Object: iri("rex"), Label: iri("pets")},
		{Subject: iri("alice"), Predicate: iri("age"), Object: quad.Int(34)},
		{Subject: iri("bob"), Predicate: iri("age"), Object: quad.Int(17)},
		{Subject: iri("carol"), Predicate: iri("name"), Object: quad.LangString{Value: "Carol", Lang: "en"}},
		{Subject: iri("carol"), Predicate: iri("born"), Object: quad.Time(time.Date(1990, 1, 2, 3, 4, 5, 0, time.UTC))},
		{Subject: quad.BNode("n1"), Predicate: iri("name"), Object: quad.String("anon")},
	}
}

// TestAll runs the whole suite.
func TestAll(t *testing.T, gen DatabaseFunc) {
	t.Run("add and read", func(t *testing.T) { TestAddAndRead(t, gen) })
	t.Run("duplicates", func(t *testing.T) { TestDuplicates(t, gen) })
	t.Run("invalid quads", func(t *testing.T) { TestInvalidQuads(t, gen) })
	t.Run("snapshot isolation", func(t *testing.T) { TestSnapshot(t, gen) })
	t.Run("for each", func(t *testing.T) { TestForEach(t, gen) })
}

func load(t testing.TB, qs factstore.Store) {
	require.NoError(t, qs.AddQuads(MakeQuadSet()))
}

func TestAddAndRead(t testing.TB, gen DatabaseFunc) {
	qs, closer := gen(t)
	defer closer()
	load(t, qs)

	persons, err := qs.IndividualsOf(ex + "Person")
	require.NoError(t, err)
	require.Equal(t, []term.Individual{ind("alice"), ind("bob"), ind("carol")}, persons)

	none, err := qs.IndividualsOf(ex + "Cat")
	require.NoError(t, err)
	require.Empty(t, none)

	knows, err := qs.ObjectEdges(ex + "knows")
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{
		{Subject: ind("alice"), Object: ind("bob")},
		{Subject: ind("bob"), Object: ind("carol")},
	}, knows)

	owns, err := qs.ObjectEdges(ex + "owns")
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{{Subject: ind("carol"), Object: ind("rex")}}, owns)

	ages, err := qs.DataEdges(ex + "age")
	require.NoError(t, err)
	require.Equal(t, []factstore.DataEdge{
		{Subject: ind("alice"), Object: term.NewInt(34)},
		{Subject: ind("bob"), Object: term.NewInt(17)},
	}, ages)

	names, err := qs.DataEdges(ex + "name")
	require.NoError(t, err)
	require.Equal(t, []factstore.DataEdge{
		{Subject: ind("carol"), Object: term.NewLangString("Carol", "en")},
		{Subject: term.BlankNode("n1"), Object: term.NewString("anon")},
	}, names)

	born, err := qs.DataEdges(ex + "born")
	require.NoError(t, err)
	require.Len(t, born, 1)
	tm, err := born[0].Object.Time()
	require.NoError(t, err)
	require.True(t, tm.Equal(time.Date(1990, 1, 2, 3, 4, 5, 0, time.UTC)))

	// An object property is never reported as a data property.
	data, err := qs.DataEdges(ex + "knows")
	require.NoError(t, err)
	require.Empty(t, data)

	size, err := qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(len(MakeQuadSet())), size)
}

func TestDuplicates(t testing.TB, gen DatabaseFunc) {
	qs, closer := gen(t)
	defer closer()
	load(t, qs)
	load(t, qs)
	// Same triple in another graph.
	require.NoError(t, qs.AddQuads([]quad.Quad{
		{Subject: iri("alice"), Predicate: iri("knows"), Object: iri("bob"), Label: iri("other")},
	}))

	size, err := qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(len(MakeQuadSet())), size)

	knows, err := qs.ObjectEdges(ex + "knows")
	require.NoError(t, err)
	require.Len(t, knows, 2)
}

func TestInvalidQuads(t testing.TB, gen DatabaseFunc) {
	qs, closer := gen(t)
	defer closer()

	for _, q := range []quad.Quad{
		{Subject: quad.String("lit"), Predicate: iri("p"), Object: iri("o")},
		{Subject: iri("s"), Predicate: quad.String("p"), Object: iri("o")},
		{Subject: iri("s"), Predicate: quad.IRI(rdf.Type), Object: quad.String("Person")},
		{Subject: iri("s"), Predicate: iri("p"), Object: nil},
	} {
		err := qs.AddQuads([]quad.Quad{
			{Subject: iri("ok"), Predicate: quad.IRI(rdf.Type), Object: iri("Thing")},
			q,
		})
		require.True(t, errors.Is(err, factstore.ErrInvalidQuad), "quad %v: %v", q, err)
	}
	size, err := qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(0), size, "no quad of a failed batch is added")
}

func TestSnapshot(t testing.TB, gen DatabaseFunc) {
	qs, closer := gen(t)
	defer closer()
	load(t, qs)

	snap, err := qs.Snapshot()
	require.NoError(t, err)
	defer snap.Release()

	require.NoError(t, qs.AddQuads([]quad.Quad{
		{Subject: iri("dave"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
		{Subject: iri("carol"), Predicate: iri("knows"), Object: iri("dave")},
	}))

	persons, err := snap.IndividualsOf(ex + "Person")
	require.NoError(t, err)
	require.Len(t, persons, 3)
	knows, err := snap.ObjectEdges(ex + "knows")
	require.NoError(t, err)
	require.Len(t, knows, 2)

	persons, err = qs.IndividualsOf(ex + "Person")
	require.NoError(t, err)
	require.Len(t, persons, 4)
}

func TestForEach(t testing.TB, gen DatabaseFunc) {
	qs, closer := gen(t)
	defer closer()
	load(t, qs)

	var got []quad.Quad
	err := qs.ForEach(func(f factstore.Fact) error {
		got = append(got, f.Quad())
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, len(MakeQuadSet()))
	for i, q := range MakeQuadSet() {
		require.Equal(t, q.Subject, got[i].Subject, "quad %d", i)
		require.Equal(t, q.Predicate, got[i].Predicate, "quad %d", i)
	}
	require.Equal(t, iri("pets"), got[6].Label)

	stop := errors.New("stop")
	n := 0
	err = qs.ForEach(func(factstore.Fact) error {
		n++
		return stop
	})
	require.Equal(t, stop, err)
	require.Equal(t, 1, n)
}
