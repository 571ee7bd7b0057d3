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

// Package memstore is an in-memory fact store.
//
// Facts are kept in an append-only log with a per relation index of log
// positions. A snapshot remembers the log length at the time it was taken,
// so it keeps reading the same facts while the store grows.
package memstore

import (
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

const QuadStoreType = "memstore"

func init() {
	factstore.Register(QuadStoreType, factstore.Registration{
		NewFunc: func(string, factstore.Options) (factstore.Store, error) {
			return New(), nil
		},
		InitFunc:     nil,
		IsPersistent: false,
	})
}

type indexKey struct {
	kind      factstore.Kind
	predicate string
}

var _ factstore.Store = (*QuadStore)(nil)

// QuadStore is an in-memory factstore.Store. It is safe for concurrent use.
type QuadStore struct {
	mu    sync.RWMutex
	log   []factstore.Fact
	index map[indexKey][]int
	seen  map[string]struct{}
}

// New creates an empty store.
func New() *QuadStore {
	return &QuadStore{
		log:   make([]factstore.Fact, 0, 200),
		index: make(map[indexKey][]int),
		seen:  make(map[string]struct{}),
	}
}

// NewFromQuads creates a store holding the given quads.
func NewFromQuads(quads []quad.Quad) (*QuadStore, error) {
	qs := New()
	if err := qs.AddQuads(quads); err != nil {
		return nil, err
	}
	return qs, nil
}

// AddQuads adds the quads, ignoring duplicates. No quad is added if any of
// them is invalid.
func (qs *QuadStore) AddQuads(quads []quad.Quad) error {
	facts, err := factstore.ClassifyAll(quads)
	if err != nil {
		return err
	}
	qs.AddFacts(facts)
	return nil
}

// AddFacts adds facts not yet present and returns how many were new.
func (qs *QuadStore) AddFacts(facts []factstore.Fact) int {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	n := 0
	for _, f := range facts {
		k := f.Key()
		if _, ok := qs.seen[k]; ok {
			continue
		}
		qs.seen[k] = struct{}{}
		ik := indexKey{kind: f.Kind, predicate: f.Predicate}
		qs.index[ik] = append(qs.index[ik], len(qs.log))
		qs.log = append(qs.log, f)
		n++
	}
	return n
}

// Has reports whether the fact asserted by q is stored.
func (qs *QuadStore) Has(q quad.Quad) bool {
	f, err := factstore.Classify(q)
	if err != nil {
		return false
	}
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	_, ok := qs.seen[f.Key()]
	return ok
}

// Clone returns an independent copy of the store.
func (qs *QuadStore) Clone() *QuadStore {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	c := &QuadStore{
		log:   append(make([]factstore.Fact, 0, len(qs.log)), qs.log...),
		index: make(map[indexKey][]int, len(qs.index)),
		seen:  make(map[string]struct{}, len(qs.seen)),
	}
	for k, v := range qs.index {
		c.index[k] = append([]int(nil), v...)
	}
	for k := range qs.seen {
		c.seen[k] = struct{}{}
	}
	return c
}

// Snapshot implements factstore.Store.
func (qs *QuadStore) Snapshot() (factstore.Snapshot, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return &Snapshot{qs: qs, n: len(qs.log)}, nil
}

func (qs *QuadStore) view() *Snapshot {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return &Snapshot{qs: qs, n: len(qs.log)}
}

func (qs *QuadStore) IndividualsOf(class string) ([]term.Individual, error) {
	return qs.view().IndividualsOf(class)
}

func (qs *QuadStore) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	return qs.view().ObjectEdges(property)
}

func (qs *QuadStore) DataEdges(property string) ([]factstore.DataEdge, error) {
	return qs.view().DataEdges(property)
}

func (qs *QuadStore) ForEach(fn func(factstore.Fact) error) error {
	qs.mu.RLock()
	log := qs.log[:len(qs.log):len(qs.log)]
	qs.mu.RUnlock()
	for _, f := range log {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (qs *QuadStore) Size() (int64, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return int64(len(qs.log)), nil
}

func (qs *QuadStore) Close() error { return nil }

// Snapshot reads the facts a QuadStore held when the snapshot was taken.
type Snapshot struct {
	qs *QuadStore
	n  int
}

// positions returns the log positions of a relation visible to the snapshot.
// Positions are appended in increasing order, so the visible ones are a
// prefix of the index list.
func (s *Snapshot) positions(kind factstore.Kind, predicate string) ([]int, []factstore.Fact) {
	s.qs.mu.RLock()
	defer s.qs.mu.RUnlock()
	idx := s.qs.index[indexKey{kind: kind, predicate: predicate}]
	end := len(idx)
	for end > 0 && idx[end-1] >= s.n {
		end--
	}
	return idx[:end:end], s.qs.log[:s.n:s.n]
}

func (s *Snapshot) IndividualsOf(class string) ([]term.Individual, error) {
	idx, log := s.positions(factstore.KindClass, class)
	out := make([]term.Individual, 0, len(idx))
	for _, i := range idx {
		out = append(out, log[i].Subject)
	}
	return out, nil
}

func (s *Snapshot) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	idx, log := s.positions(factstore.KindObject, property)
	out := make([]factstore.ObjectEdge, 0, len(idx))
	for _, i := range idx {
		out = append(out, log[i].ObjectEdge())
	}
	return out, nil
}

func (s *Snapshot) DataEdges(property string) ([]factstore.DataEdge, error) {
	idx, log := s.positions(factstore.KindData, property)
	out := make([]factstore.DataEdge, 0, len(idx))
	for _, i := range idx {
		out = append(out, log[i].DataEdge())
	}
	return out, nil
}

func (s *Snapshot) Release() {}
