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

package factstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/owl"
	"github.com/ontokit/ontokit/taxonomy"
	"github.com/ontokit/ontokit/term"
)

const ex = "http://example.org/"

func iri(s string) quad.IRI { return quad.IRI(ex + s) }

func ind(s string) term.Individual { return term.NewIndividual(ex + s) }

func TestClassify(t *testing.T) {
	f, err := factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: quad.IRI(rdf.Type), Object: iri("C")})
	require.NoError(t, err)
	require.Equal(t, factstore.KindClass, f.Kind)
	require.Equal(t, ex+"C", f.Predicate)
	require.Nil(t, f.Object)

	f, err = factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: iri("b")})
	require.NoError(t, err)
	require.Equal(t, factstore.KindObject, f.Kind)
	require.Equal(t, factstore.ObjectEdge{Subject: ind("a"), Object: ind("b")}, f.ObjectEdge())

	f, err = factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: quad.Float(1.5)})
	require.NoError(t, err)
	require.Equal(t, factstore.KindData, f.Kind)
	require.Equal(t, term.NewFloat(1.5), f.DataEdge().Object)

	_, err = factstore.Classify(quad.Quad{Subject: quad.Int(1), Predicate: iri("p"), Object: iri("b")})
	require.True(t, errors.Is(err, factstore.ErrInvalidQuad))
}

func TestFactKeyIgnoresLabel(t *testing.T) {
	a, err := factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: iri("b"), Label: iri("g1")})
	require.NoError(t, err)
	b, err := factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: iri("b")})
	require.NoError(t, err)
	c, err := factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: quad.String(ex + "b")})
	require.NoError(t, err)
	require.Equal(t, a.Key(), b.Key())
	require.NotEqual(t, a.Key(), c.Key())
	require.Equal(t, iri("g1"), a.Quad().Label)
}

func TestPropertyExpr(t *testing.T) {
	require.Equal(t, "inverse(http://example.org/p)", factstore.PropertyExpr{IRI: ex + "p", Inverse: true}.String())
	require.Equal(t, "http://example.org/p", factstore.PropertyExpr{IRI: ex + "p"}.String())

	qs, err := memstore.NewFromQuads([]quad.Quad{{Subject: iri("a"), Predicate: iri("p"), Object: iri("b")}})
	require.NoError(t, err)
	edges, err := factstore.ObjectEdgesOf(qs, factstore.PropertyExpr{IRI: ex + "p", Inverse: true})
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{{Subject: ind("b"), Object: ind("a")}}, edges)
}

func TestOptions(t *testing.T) {
	opts := factstore.Options{
		"n":       3,
		"f":       4.0,
		"s":       "x",
		"b":       true,
		"d":       "2s",
		"secs":    5,
		"badbool": "yes",
	}
	n, err := opts.IntKey("n", 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = opts.IntKey("f", 0)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	n, err = opts.IntKey("missing", 7)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	_, err = opts.IntKey("s", 0)
	require.Error(t, err)

	s, err := opts.StringKey("s", "")
	require.NoError(t, err)
	require.Equal(t, "x", s)

	b, err := opts.BoolKey("b", false)
	require.NoError(t, err)
	require.True(t, b)
	_, err = opts.BoolKey("badbool", false)
	require.Error(t, err)

	d, err := opts.DurationKey("d", 0)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, d)
	d, err = opts.DurationKey("secs", 0)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, d)
}

func TestRegistry(t *testing.T) {
	require.Contains(t, factstore.Backends(), memstore.QuadStoreType)
	_, err := factstore.Open("no-such-backend", "", nil)
	require.True(t, errors.Is(err, factstore.ErrBackendNotRegistered))
	err = factstore.Init(memstore.QuadStoreType, "", nil)
	require.Equal(t, factstore.ErrOperationNotSupported, err)
	require.Panics(t, func() {
		factstore.Register(memstore.QuadStoreType, factstore.Registration{NewFunc: func(string, factstore.Options) (factstore.Store, error) { return nil, nil }})
	})
}

func TestCalibrate(t *testing.T) {
	schema := []quad.Quad{
		quad.MakeIRI(ex+"Adult", rdfs.SubClassOf, ex+"Person", ""),
		quad.MakeIRI(ex+"hasMother", rdfs.SubPropertyOf, ex+"hasParent", ""),
		quad.MakeIRI(ex+"hasParent", owl.InverseOf, ex+"hasChild", ""),
		quad.MakeIRI(ex+"knows", rdf.Type, owl.SymmetricProperty, ""),
		quad.MakeIRI(ex+"fullName", owl.EquivalentProperty, ex+"name", ""),
	}
	tax := taxonomy.NewStore()
	tax.ProcessQuads(schema)

	qs, err := memstore.NewFromQuads([]quad.Quad{
		{Subject: iri("ann"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
		{Subject: iri("bea"), Predicate: quad.IRI(rdf.Type), Object: iri("Adult")},
		{Subject: iri("ann"), Predicate: quad.IRI(rdf.Type), Object: iri("Adult")},
		{Subject: iri("bea"), Predicate: iri("hasMother"), Object: iri("ann")},
		{Subject: iri("cid"), Predicate: iri("hasChild"), Object: iri("bea")},
		{Subject: iri("ann"), Predicate: iri("knows"), Object: iri("cid")},
		{Subject: iri("ann"), Predicate: iri("fullName"), Object: quad.String("Ann A")},
		{Subject: iri("ann"), Predicate: iri("name"), Object: quad.String("Ann")},
	})
	require.NoError(t, err)
	r := factstore.Calibrate(qs, tax)

	persons, err := r.IndividualsOf(ex + "Person")
	require.NoError(t, err)
	require.Equal(t, []term.Individual{ind("ann"), ind("bea")}, persons)

	parents, err := r.ObjectEdges(ex + "hasParent")
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{
		{Subject: ind("bea"), Object: ind("cid")},
		{Subject: ind("bea"), Object: ind("ann")},
	}, parents)

	children, err := r.ObjectEdges(ex + "hasChild")
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{
		{Subject: ind("cid"), Object: ind("bea")},
		{Subject: ind("ann"), Object: ind("bea")},
	}, children)

	knows, err := r.ObjectEdges(ex + "knows")
	require.NoError(t, err)
	require.Equal(t, []factstore.ObjectEdge{
		{Subject: ind("ann"), Object: ind("cid")},
		{Subject: ind("cid"), Object: ind("ann")},
	}, knows)

	names, err := r.DataEdges(ex + "name")
	require.NoError(t, err)
	require.Len(t, names, 2)
}

func TestMarshalFact(t *testing.T) {
	for _, q := range []quad.Quad{
		{Subject: iri("a"), Predicate: quad.IRI(rdf.Type), Object: iri("C"), Label: iri("g")},
		{Subject: quad.BNode("b1"), Predicate: iri("p"), Object: iri("b")},
		{Subject: iri("a"), Predicate: iri("age"), Object: quad.Int(42)},
		{Subject: iri("a"), Predicate: iri("name"), Object: quad.LangString{Value: "A", Lang: "de"}},
		{Subject: iri("a"), Predicate: iri("born"), Object: quad.Time(time.Date(2001, 2, 3, 4, 5, 6, 7, time.UTC))},
	} {
		f, err := factstore.Classify(q)
		require.NoError(t, err)
		rec, err := factstore.MarshalFact(f)
		require.NoError(t, err)
		got, err := factstore.UnmarshalFact(rec)
		require.NoError(t, err)
		require.Equal(t, f.Key(), got.Key())
		require.Equal(t, f.Label, got.Label)
		require.Equal(t, factstore.HashFact(f), factstore.HashFact(got))
	}

	_, err := factstore.UnmarshalFact(nil)
	require.Equal(t, factstore.ErrCorrupt, err)
	_, err = factstore.UnmarshalFact([]byte{byte(factstore.KindData), 0xff})
	require.Error(t, err)

	f, err := factstore.Classify(quad.Quad{Subject: iri("a"), Predicate: iri("p"), Object: quad.String("x")})
	require.NoError(t, err)
	rec, err := factstore.MarshalFact(f)
	require.NoError(t, err)
	rec[0] = byte(factstore.KindObject)
	_, err = factstore.UnmarshalFact(rec)
	require.True(t, errors.Is(err, factstore.ErrCorrupt))
}
