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

package taxonomy

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/owl"
)

const ex = "http://example.org/"

func iri(s string) quad.IRI { return quad.IRI(ex + s) }

func TestProcessQuadDeclarations(t *testing.T) {
	store := NewStore()
	require.True(t, store.ProcessQuad(quad.MakeIRI(ex+"Person", rdf.Type, owl.Class, "")))
	require.True(t, store.ProcessQuad(quad.MakeIRI(ex+"knows", rdf.Type, owl.SymmetricProperty, "")))
	require.False(t, store.ProcessQuad(quad.MakeIRI(ex+"alice", rdf.Type, ex+"Person", "")))
	require.False(t, store.ProcessQuad(quad.Quad{Subject: iri("alice"), Predicate: iri("age"), Object: quad.Int(3)}))

	require.NotNil(t, store.GetClass(ex+"Person"))
	require.Nil(t, store.GetClass(ex+"alice"))
	require.True(t, store.IsSymmetric(ex+"knows"))
	require.True(t, store.GetProperty(ex+"knows").IsSymmetric())
	require.False(t, store.IsSymmetric(ex+"unknown"))
}

func TestSubClasses(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{
		quad.MakeIRI(ex+"Adult", rdfs.SubClassOf, ex+"Person", ""),
		quad.MakeIRI(ex+"Child", rdfs.SubClassOf, ex+"Person", ""),
		quad.MakeIRI(ex+"Senior", rdfs.SubClassOf, ex+"Adult", ""),
		quad.MakeIRI(ex+"Human", owl.EquivalentClass, ex+"Person", ""),
	})
	require.Equal(t, []string{
		ex + "Person", ex + "Adult", ex + "Child", ex + "Human", ex + "Senior",
	}, store.SubClassesOf(ex+"Person"))
	require.Equal(t, []string{ex + "Unknown"}, store.SubClassesOf(ex+"Unknown"))

	senior, person := store.GetClass(ex+"Senior"), store.GetClass(ex+"Person")
	require.True(t, senior.IsSubClassOf(person))
	require.False(t, person.IsSubClassOf(senior))
	require.True(t, person.IsSubClassOf(store.GetClass(ex+"Human")))
}

func TestSubClassCycle(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{
		quad.MakeIRI(ex+"A", rdfs.SubClassOf, ex+"B", ""),
		quad.MakeIRI(ex+"B", rdfs.SubClassOf, ex+"A", ""),
	})
	require.Equal(t, []string{ex + "A", ex + "B"}, store.SubClassesOf(ex+"A"))
	require.False(t, store.GetClass(ex+"A").IsSubClassOf(newClass(ex+"C")))
}

func TestProperties(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{
		quad.MakeIRI(ex+"hasMother", rdfs.SubPropertyOf, ex+"hasParent", ""),
		quad.MakeIRI(ex+"hasFather", rdfs.SubPropertyOf, ex+"hasParent", ""),
		quad.MakeIRI(ex+"hasParent", owl.InverseOf, ex+"hasChild", ""),
		quad.MakeIRI(ex+"parentOf", owl.EquivalentProperty, ex+"hasChild", ""),
	})
	require.Equal(t, []string{ex + "hasParent", ex + "hasFather", ex + "hasMother"}, store.SubPropertiesOf(ex+"hasParent"))
	require.Equal(t, []string{ex + "hasChild"}, store.InversesOf(ex+"hasParent"))
	require.Equal(t, []string{ex + "hasParent"}, store.InversesOf(ex+"hasChild"))
	require.Nil(t, store.InversesOf(ex+"unknown"))
	require.Equal(t, []string{ex + "hasChild", ex + "parentOf"}, store.SubPropertiesOf(ex+"hasChild"))
	require.True(t, store.GetProperty(ex+"hasMother").IsSubPropertyOf(store.GetProperty(ex+"hasParent")))
	require.False(t, store.GetProperty(ex+"hasParent").IsSubPropertyOf(store.GetProperty(ex+"hasMother")))
}
