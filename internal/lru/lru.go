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

// Package lru implements a fixed size least recently used cache.
package lru

import "sync"

type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// Cache implements an LRU cache. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cache   map[K]*entry[K, V]
	root    entry[K, V] // sentinel; root.next is the most recent entry
	maxSize int
}

// New returns a cache holding at most size entries.
func New[K comparable, V any](size int) *Cache[K, V] {
	if size < 1 {
		size = 1
	}
	c := &Cache[K, V]{
		maxSize: size,
		cache:   make(map[K]*entry[K, V], size),
	}
	c.root.next = &c.root
	c.root.prev = &c.root
	return c
}

func (lru *Cache[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
}

func (lru *Cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = &lru.root
	e.next = lru.root.next
	lru.root.next.prev = e
	lru.root.next = e
}

// Put adds a value unless the key is already cached.
func (lru *Cache[K, V]) Put(key K, value V) {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	if e, ok := lru.cache[key]; ok {
		lru.unlink(e)
		lru.pushFront(e)
		return
	}
	if len(lru.cache) == lru.maxSize {
		last := lru.root.prev
		lru.unlink(last)
		delete(lru.cache, last.key)
	}
	e := &entry[K, V]{key: key, value: value}
	lru.pushFront(e)
	lru.cache[key] = e
}

func (lru *Cache[K, V]) Del(key K) {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	e := lru.cache[key]
	if e == nil {
		return
	}
	delete(lru.cache, key)
	lru.unlink(e)
}

func (lru *Cache[K, V]) Get(key K) (V, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	if e, ok := lru.cache[key]; ok {
		lru.unlink(e)
		lru.pushFront(e)
		return e.value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of cached entries.
func (lru *Cache[K, V]) Len() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return len(lru.cache)
}
