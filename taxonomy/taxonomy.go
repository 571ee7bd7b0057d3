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

// Package taxonomy keeps the class and property hierarchy of an ontology,
// together with the property characteristics a fact store needs to
// calibrate assertions before rules query it.
//
// Schema axioms understood:
// 1. (c rdfs:subClassOf d), (x rdf:type c) -> (x rdf:type d)
// 2. (c owl:equivalentClass d) -> (c rdfs:subClassOf d), (d rdfs:subClassOf c)
// 3. (p rdfs:subPropertyOf q), (x p y) -> (x q y)
// 4. (p owl:equivalentProperty q) -> (p rdfs:subPropertyOf q), (q rdfs:subPropertyOf p)
// 5. (p owl:inverseOf q), (x p y) -> (y q x)
// 6. (p rdf:type owl:SymmetricProperty), (x p y) -> (y p x)
// Declarations (rdf:type rdfs:Class, owl:Class, rdf:Property,
// owl:ObjectProperty, owl:DatatypeProperty) register the named entity.
package taxonomy

import (
	"sort"
	"sync"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/ontokit/ontokit/owl"
)

// Class is a named class with links to its direct super and sub classes.
type Class struct {
	name  string
	super map[*Class]struct{}
	sub   map[*Class]struct{}
}

func newClass(name string) *Class {
	return &Class{
		name:  name,
		super: map[*Class]struct{}{},
		sub:   map[*Class]struct{}{},
	}
}

// Name returns the class's IRI.
func (class *Class) Name() string {
	return class.name
}

// IsSubClassOf checks whether superClass is reachable through subClassOf
// links. Every class is a subclass of itself and of owl:Thing.
func (class *Class) IsSubClassOf(superClass *Class) bool {
	if superClass.name == owl.Thing || superClass.name == rdfs.Resource {
		return true
	}
	seen := map[*Class]struct{}{}
	var walk func(c *Class) bool
	walk = func(c *Class) bool {
		if c == superClass {
			return true
		}
		if _, ok := seen[c]; ok {
			return false
		}
		seen[c] = struct{}{}
		for s := range c.super {
			if walk(s) {
				return true
			}
		}
		return false
	}
	return walk(class)
}

// Property is a named property with its hierarchy links and the
// characteristics used for calibration.
type Property struct {
	name      string
	super     map[*Property]struct{}
	sub       map[*Property]struct{}
	inverse   map[*Property]struct{}
	symmetric bool
}

func newProperty(name string) *Property {
	return &Property{
		name:    name,
		super:   map[*Property]struct{}{},
		sub:     map[*Property]struct{}{},
		inverse: map[*Property]struct{}{},
	}
}

// Name returns the property's IRI.
func (property *Property) Name() string {
	return property.name
}

// IsSymmetric reports whether the property was declared owl:SymmetricProperty.
func (property *Property) IsSymmetric() bool {
	return property.symmetric
}

// IsSubPropertyOf checks whether superProperty is reachable through
// subPropertyOf links.
func (property *Property) IsSubPropertyOf(superProperty *Property) bool {
	seen := map[*Property]struct{}{}
	var walk func(p *Property) bool
	walk = func(p *Property) bool {
		if p == superProperty {
			return true
		}
		if _, ok := seen[p]; ok {
			return false
		}
		seen[p] = struct{}{}
		for s := range p.super {
			if walk(s) {
				return true
			}
		}
		return false
	}
	return walk(property)
}

// Store holds the hierarchy. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	classes    map[string]*Class
	properties map[string]*Property
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		classes:    map[string]*Class{},
		properties: map[string]*Property{},
	}
}

// GetClass returns the class named name, or nil if the store has never seen it.
func (store *Store) GetClass(name string) *Class {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.classes[name]
}

// GetProperty returns the property named name, or nil if the store has never seen it.
func (store *Store) GetProperty(name string) *Property {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.properties[name]
}

func (store *Store) addClass(name string) *Class {
	if c, ok := store.classes[name]; ok {
		return c
	}
	c := newClass(name)
	store.classes[name] = c
	return c
}

func (store *Store) addProperty(name string) *Property {
	if p, ok := store.properties[name]; ok {
		return p
	}
	p := newProperty(name)
	store.properties[name] = p
	return p
}

func (store *Store) addClassRelationship(child, parent string) {
	parentClass := store.addClass(parent)
	childClass := store.addClass(child)
	parentClass.sub[childClass] = struct{}{}
	childClass.super[parentClass] = struct{}{}
}

func (store *Store) addPropertyRelationship(child, parent string) {
	parentProperty := store.addProperty(parent)
	childProperty := store.addProperty(child)
	parentProperty.sub[childProperty] = struct{}{}
	childProperty.super[parentProperty] = struct{}{}
}

func (store *Store) addInverse(a, b string) {
	pa, pb := store.addProperty(a), store.addProperty(b)
	pa.inverse[pb] = struct{}{}
	pb.inverse[pa] = struct{}{}
}

// ProcessQuad updates the store with a quad and reports whether the quad
// was a schema axiom. Assertions about individuals are ignored.
func (store *Store) ProcessQuad(q quad.Quad) bool {
	subject, sok := q.Subject.(quad.IRI)
	predicate, pok := q.Predicate.(quad.IRI)
	object, ook := q.Object.(quad.IRI)
	if !sok || !pok || !ook {
		return false
	}
	s, o := string(subject.Full()), string(object.Full())

	store.mu.Lock()
	defer store.mu.Unlock()
	switch string(predicate.Full()) {
	case rdf.Type:
		switch o {
		case rdfs.Class, owl.Class:
			store.addClass(s)
		case rdf.Property, owl.ObjectProperty, owl.DatatypeProperty:
			store.addProperty(s)
		case owl.SymmetricProperty:
			store.addProperty(s).symmetric = true
		default:
			return false
		}
	case rdfs.SubClassOf:
		store.addClassRelationship(s, o)
	case owl.EquivalentClass:
		store.addClassRelationship(s, o)
		store.addClassRelationship(o, s)
	case rdfs.SubPropertyOf:
		store.addPropertyRelationship(s, o)
	case owl.EquivalentProperty:
		store.addPropertyRelationship(s, o)
		store.addPropertyRelationship(o, s)
	case owl.InverseOf:
		store.addInverse(s, o)
	default:
		return false
	}
	return true
}

// ProcessQuads is used to update the store with multiple quads.
func (store *Store) ProcessQuads(quads []quad.Quad) {
	for _, q := range quads {
		store.ProcessQuad(q)
	}
}

// SubClassesOf returns name followed by every class below it, each once.
// The order is breadth-first with siblings sorted by name.
func (store *Store) SubClassesOf(name string) []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := []string{name}
	c, ok := store.classes[name]
	if !ok {
		return out
	}
	seen := map[*Class]struct{}{c: {}}
	queue := []*Class{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range sortedClasses(cur.sub) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s.name)
			queue = append(queue, s)
		}
	}
	return out
}

// SubPropertiesOf returns name followed by every property below it, each
// once, breadth-first with siblings sorted by name.
func (store *Store) SubPropertiesOf(name string) []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := []string{name}
	p, ok := store.properties[name]
	if !ok {
		return out
	}
	seen := map[*Property]struct{}{p: {}}
	queue := []*Property{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range sortedProperties(cur.sub) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s.name)
			queue = append(queue, s)
		}
	}
	return out
}

// InversesOf returns the properties declared inverse of name, sorted.
func (store *Store) InversesOf(name string) []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	p, ok := store.properties[name]
	if !ok {
		return nil
	}
	var out []string
	for _, inv := range sortedProperties(p.inverse) {
		out = append(out, inv.name)
	}
	return out
}

// IsSymmetric reports whether the named property is symmetric.
func (store *Store) IsSymmetric(name string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	p, ok := store.properties[name]
	return ok && p.symmetric
}

func sortedClasses(set map[*Class]struct{}) []*Class {
	out := make([]*Class, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func sortedProperties(set map[*Property]struct{}) []*Property {
	out := make([]*Property, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
