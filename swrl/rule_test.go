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

package swrl_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/swrl"
	"github.com/ontokit/ontokit/term"
)

const ex = "http://example.org/"

func init() {
	voc.Register(voc.Namespace{Full: ex, Prefix: "ex:"})
}

func iri(s string) quad.IRI { return quad.IRI(ex + s) }

func ind(s string) term.Individual { return term.NewIndividual(ex + s) }

// This is a small social graph.
//
//	alice --knows--> bob --knows--> carol --owns--> rex, fido
//	dave --likes--> dave, alice
var socialGraph = []quad.Quad{
	{Subject: iri("alice"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
	{Subject: iri("bob"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
	{Subject: iri("carol"), Predicate: quad.IRI(rdf.Type), Object: iri("Person")},
	{Subject: iri("rex"), Predicate: quad.IRI(rdf.Type), Object: iri("Dog")},
	{Subject: iri("fido"), Predicate: quad.IRI(rdf.Type), Object: iri("Dog")},
	{Subject: iri("alice"), Predicate: iri("knows"), Object: iri("bob")},
	{Subject: iri("bob"), Predicate: iri("knows"), Object: iri("carol")},
	{Subject: iri("carol"), Predicate: iri("owns"), Object: iri("rex")},
	{Subject: iri("carol"), Predicate: iri("owns"), Object: iri("fido")},
	{Subject: iri("dave"), Predicate: iri("likes"), Object: iri("dave")},
	{Subject: iri("dave"), Predicate: iri("likes"), Object: iri("alice")},
	{Subject: iri("alice"), Predicate: iri("age"), Object: quad.Int(34)},
	{Subject: iri("bob"), Predicate: iri("age"), Object: quad.Int(17)},
	{Subject: iri("carol"), Predicate: iri("age"), Object: quad.Int(20)},
	{Subject: iri("rex"), Predicate: iri("age"), Object: quad.String("unknown")},
}

func makeStore(t testing.TB) *memstore.QuadStore {
	qs, err := memstore.NewFromQuads(socialGraph)
	require.NoError(t, err)
	return qs
}

func classAtom(t testing.TB, class string, arg swrl.Argument) swrl.Atom {
	a, err := swrl.NewClassAtom(ex+class, arg)
	require.NoError(t, err)
	return a
}

func objectAtom(t testing.TB, prop string, s, o swrl.Argument) swrl.Atom {
	a, err := swrl.NewObjectPropertyAtom(ex+prop, s, o)
	require.NoError(t, err)
	return a
}

func dataAtom(t testing.TB, prop string, s, o swrl.Argument) swrl.Atom {
	a, err := swrl.NewDataPropertyAtom(ex+prop, s, o)
	require.NoError(t, err)
	return a
}

func builtIn(t testing.TB, name string, args ...swrl.Argument) swrl.BuiltIn {
	b, err := swrl.NewBuiltIn(name, args...)
	require.NoError(t, err)
	return b
}

func makeRule(t testing.TB, name string, body []swrl.Atom, builtIns []swrl.BuiltIn, head ...swrl.Atom) *swrl.Rule {
	ant, err := swrl.NewAntecedent(body, builtIns...)
	require.NoError(t, err)
	cons, err := swrl.NewConsequent(head...)
	require.NoError(t, err)
	r, err := swrl.NewRule(name, ant, cons)
	require.NoError(t, err)
	return r
}

func factStrings(infs []swrl.Inference) []string {
	out := make([]string, len(infs))
	for i, inf := range infs {
		out[i] = inf.Fact.String()
	}
	return out
}

var (
	p = swrl.Var("p")
	a = swrl.Var("a")
	x = swrl.Var("x")
	y = swrl.Var("y")
	z = swrl.Var("z")
)

func adultRule(t testing.TB) *swrl.Rule {
	return makeRule(t, "adult",
		[]swrl.Atom{classAtom(t, "Person", p), dataAtom(t, "age", p, a)},
		[]swrl.BuiltIn{builtIn(t, "greaterThan", a, swrl.Int(17))},
		classAtom(t, "Adult", p),
	)
}

func TestApplyAdult(t *testing.T) {
	qs := makeStore(t)
	r := adultRule(t)
	require.Equal(t, `ex:Person(?p) ^ ex:age(?p,?a) ^ greaterThan(?a,"17"^^xsd:integer) -> ex:Adult(?p)`, r.String())

	infs, err := r.Apply(qs)
	require.NoError(t, err)
	require.Equal(t, []string{"ex:Adult(ex:alice)", "ex:Adult(ex:carol)"}, factStrings(infs))
	for _, inf := range infs {
		require.Equal(t, "adult", inf.Rule)
	}
	require.Equal(t, quad.Quad{
		Subject:   iri("alice"),
		Predicate: quad.IRI(rdf.Type),
		Object:    iri("Adult"),
	}, infs[0].Quad())
}

func TestApplyIsIdempotent(t *testing.T) {
	qs := makeStore(t)
	r := adultRule(t)
	first, err := r.Apply(qs)
	require.NoError(t, err)
	second, err := r.Apply(qs)
	require.NoError(t, err)
	require.Equal(t, factStrings(first), factStrings(second))

	n, err := qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(len(socialGraph)), n)
}

func TestJoinOrderIndependence(t *testing.T) {
	qs := makeStore(t)
	atoms := []swrl.Atom{
		classAtom(t, "Person", x),
		objectAtom(t, "knows", x, y),
		classAtom(t, "Person", y),
		objectAtom(t, "owns", y, z),
	}
	keys := func(order []int, reorder bool) []string {
		perm := make([]swrl.Atom, len(order))
		for i, j := range order {
			perm[i] = atoms[j]
		}
		ant, err := swrl.NewAntecedent(perm)
		require.NoError(t, err)
		ant.Reorder = reorder
		tb, err := ant.Evaluate(qs)
		require.NoError(t, err)
		return tb.Keys()
	}
	want := keys([]int{0, 1, 2, 3}, false)
	require.Len(t, want, 2)
	for _, order := range [][]int{
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
		{0, 3, 1, 2},
	} {
		require.Equal(t, want, keys(order, false), "order %v", order)
		require.Equal(t, want, keys(order, true), "order %v reordered", order)
	}
}

// countingReader records the predicates queried.
type countingReader struct {
	factstore.Reader
	mu      sync.Mutex
	queried []string
}

func (r *countingReader) record(p string) {
	r.mu.Lock()
	r.queried = append(r.queried, p)
	r.mu.Unlock()
}

func (r *countingReader) IndividualsOf(class string) ([]term.Individual, error) {
	r.record(class)
	return r.Reader.IndividualsOf(class)
}

func (r *countingReader) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	r.record(property)
	return r.Reader.ObjectEdges(property)
}

func (r *countingReader) DataEdges(property string) ([]factstore.DataEdge, error) {
	r.record(property)
	return r.Reader.DataEdges(property)
}

func TestEmptyShortCircuit(t *testing.T) {
	cr := &countingReader{Reader: makeStore(t)}
	r := makeRule(t, "cats",
		[]swrl.Atom{classAtom(t, "Cat", x), classAtom(t, "Person", y)},
		nil,
		objectAtom(t, "meets", x, y),
	)
	infs, err := r.Apply(cr)
	require.NoError(t, err)
	require.Empty(t, infs)
	require.Equal(t, []string{ex + "Cat"}, cr.queried)

	r = makeRule(t, "teen",
		[]swrl.Atom{classAtom(t, "Person", p), dataAtom(t, "age", p, a)},
		[]swrl.BuiltIn{builtIn(t, "greaterThan", a, swrl.Int(100))},
		classAtom(t, "Old", p),
	)
	infs, err = r.Apply(cr)
	require.NoError(t, err)
	require.Empty(t, infs)
}

func TestCartesianProduct(t *testing.T) {
	qs := makeStore(t)
	ant, err := swrl.NewAntecedent([]swrl.Atom{classAtom(t, "Person", x), classAtom(t, "Dog", y)})
	require.NoError(t, err)
	tb, err := ant.Evaluate(qs)
	require.NoError(t, err)
	require.Equal(t, 3*2, tb.Len())
}

func TestConsequentPerRow(t *testing.T) {
	qs := makeStore(t)
	r := makeRule(t, "known-by",
		[]swrl.Atom{objectAtom(t, "knows", x, y)},
		nil,
		objectAtom(t, "knownBy", y, x),
	)
	infs, err := r.Apply(qs)
	require.NoError(t, err)
	require.Equal(t, []string{"ex:knownBy(ex:bob,ex:alice)", "ex:knownBy(ex:carol,ex:bob)"}, factStrings(infs))
	for _, inf := range infs {
		for _, arg := range inf.Fact.Args() {
			require.IsType(t, swrl.Constant{}, arg)
		}
	}
}

func TestConstantArguments(t *testing.T) {
	qs := makeStore(t)
	ant, err := swrl.NewAntecedent([]swrl.Atom{
		objectAtom(t, "knows", swrl.Ind(ex+"alice"), y),
		dataAtom(t, "age", y, swrl.Int(17)),
	})
	require.NoError(t, err)
	tb, err := ant.Evaluate(qs)
	require.NoError(t, err)
	require.Equal(t, []swrl.Variable{"y"}, tb.Columns())
	require.Equal(t, []swrl.Row{{ind("bob")}}, tb.Rows())

	ant, err = swrl.NewAntecedent([]swrl.Atom{classAtom(t, "Person", swrl.Ind(ex+"rex"))})
	require.NoError(t, err)
	tb, err = ant.Evaluate(qs)
	require.NoError(t, err)
	require.Equal(t, 0, tb.Len())
}

func TestRepeatedVariable(t *testing.T) {
	qs := makeStore(t)
	ant, err := swrl.NewAntecedent([]swrl.Atom{objectAtom(t, "likes", x, x)})
	require.NoError(t, err)
	tb, err := ant.Evaluate(qs)
	require.NoError(t, err)
	require.Equal(t, []swrl.Variable{"x"}, tb.Columns())
	require.Equal(t, []swrl.Row{{ind("dave")}}, tb.Rows())
}

func TestInverseProperty(t *testing.T) {
	qs := makeStore(t)
	inv, err := swrl.NewInverseObjectPropertyAtom(ex+"knows", x, y)
	require.NoError(t, err)
	require.Equal(t, "inverse(ex:knows)(?x,?y)", inv.String())

	head, err := swrl.NewInverseObjectPropertyAtom(ex+"follows", x, y)
	require.NoError(t, err)
	r := makeRule(t, "followed", []swrl.Atom{inv}, nil, head)
	infs, err := r.Apply(qs)
	require.NoError(t, err)
	require.Equal(t, []string{"ex:follows(ex:alice,ex:bob)", "ex:follows(ex:bob,ex:carol)"}, factStrings(infs))
	require.Equal(t, iri("alice"), infs[0].Quad().Subject)
}

func TestDerivedScalar(t *testing.T) {
	qs := makeStore(t)
	n := swrl.Var("n")
	r := makeRule(t, "next-age",
		[]swrl.Atom{dataAtom(t, "age", p, a)},
		[]swrl.BuiltIn{
			builtIn(t, "greaterThan", n, swrl.Int(20)),
			builtIn(t, "add", n, a, swrl.Int(1)),
		},
		dataAtom(t, "nextAge", p, n),
	)
	require.Equal(t, []string{`add(?n,?a,"1"^^xsd:integer)`, `greaterThan(?n,"20"^^xsd:integer)`},
		[]string{r.Antecedent.BuiltIns()[0].String(), r.Antecedent.BuiltIns()[1].String()})

	infs, err := r.Apply(qs)
	require.NoError(t, err)
	vals, err := swrl.FloatsOf(infs, ex+"nextAge")
	require.NoError(t, err)
	require.Equal(t, []float64{35, 21}, vals)
	require.Empty(t, swrl.LiteralsOf(infs, ex+"age"))
}

func TestConsequentDropsMismatch(t *testing.T) {
	qs := makeStore(t)
	r := makeRule(t, "typed",
		[]swrl.Atom{dataAtom(t, "age", p, a)},
		nil,
		classAtom(t, "Aged", p),
		classAtom(t, "Number", a),
	)
	infs, err := r.Apply(qs)
	require.NoError(t, err)
	require.Equal(t, []string{"ex:Aged(ex:alice)", "ex:Aged(ex:bob)", "ex:Aged(ex:carol)", "ex:Aged(ex:rex)"}, factStrings(infs))
}

func TestDedup(t *testing.T) {
	qs := makeStore(t)
	r := makeRule(t, "social",
		[]swrl.Atom{objectAtom(t, "knows", x, y), classAtom(t, "Person", z)},
		nil,
		classAtom(t, "Social", x),
	)
	infs, err := r.Apply(qs)
	require.NoError(t, err)
	require.Len(t, infs, 6)
	require.Equal(t, []string{"ex:Social(ex:alice)", "ex:Social(ex:bob)"}, factStrings(swrl.Dedup(infs)))
}

func TestUnboundConsequentVariable(t *testing.T) {
	ant, err := swrl.NewAntecedent([]swrl.Atom{classAtom(t, "Person", x)})
	require.NoError(t, err)
	cons, err := swrl.NewConsequent(objectAtom(t, "knows", x, y))
	require.NoError(t, err)
	_, err = swrl.NewRule("bad", ant, cons)
	require.ErrorIs(t, err, swrl.ErrUnboundVariable)

	_, err = swrl.NewAntecedent([]swrl.Atom{classAtom(t, "Person", x)}, builtIn(t, "lessThan", y, swrl.Int(3)))
	require.ErrorIs(t, err, swrl.ErrUnboundVariable)
}

func TestAtomConstruction(t *testing.T) {
	var aerr *swrl.ArgumentError

	_, err := swrl.NewClassAtom(ex+"Person", nil)
	require.ErrorIs(t, err, swrl.ErrNilArgument)
	require.True(t, errors.As(err, &aerr))
	require.Equal(t, "arg", aerr.Param)
	require.Equal(t, "NewClassAtom", aerr.Func)

	_, err = swrl.NewClassAtom("", x)
	require.ErrorIs(t, err, swrl.ErrNilArgument)

	_, err = swrl.NewObjectPropertyAtom(ex+"knows", x, swrl.Str("bob"))
	require.ErrorIs(t, err, swrl.ErrInvalidArgument)
	require.True(t, errors.As(err, &aerr))
	require.Equal(t, "object", aerr.Param)

	_, err = swrl.NewDataPropertyAtom(ex+"age", x, swrl.Ind(ex+"bob"))
	require.ErrorIs(t, err, swrl.ErrInvalidArgument)

	_, err = swrl.NewDataPropertyAtom(ex+"age", swrl.Var(""), a)
	require.ErrorIs(t, err, swrl.ErrNilArgument)

	_, err = swrl.NewConsequent()
	require.ErrorIs(t, err, swrl.ErrNilArgument)

	_, err = swrl.NewRule("r", nil, nil)
	require.ErrorIs(t, err, swrl.ErrNilArgument)
}

var errBroken = errors.New("broken store")

type brokenReader struct{ factstore.Reader }

func (brokenReader) IndividualsOf(string) ([]term.Individual, error) { return nil, errBroken }

func TestStoreErrors(t *testing.T) {
	_, err := adultRule(t).Apply(brokenReader{Reader: makeStore(t)})
	require.ErrorIs(t, err, errBroken)
}

func TestConcurrentApply(t *testing.T) {
	qs := makeStore(t)
	r := adultRule(t)
	want, err := r.Apply(qs)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			infs, err := r.Apply(qs)
			if err == nil {
				results[i] = factStrings(infs)
			}
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, factStrings(want), got)
	}
}

func TestBuiltInNames(t *testing.T) {
	names := swrl.BuiltIns()
	require.True(t, sort.StringsAreSorted(names))
}
