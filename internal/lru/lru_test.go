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

package lru

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEviction(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Put("c", 3) // evicts b, the least recently used

	_, ok = c.Get("b")
	require.False(t, ok)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 2, c.Len())
}

func TestPutExistingKeepsValue(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("a", 2)
	v, _ := c.Get("a")
	require.Equal(t, 1, v)
	require.Equal(t, 1, c.Len())
}

func TestDel(t *testing.T) {
	c := New[int, string](3)
	c.Put(1, "x")
	c.Del(1)
	c.Del(2)
	_, ok := c.Get(1)
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestConcurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				k := strconv.Itoa((i * j) % 32)
				c.Put(k, j)
				c.Get(k)
			}
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, c.Len(), 16)
}
