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

package leveldb

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/factstoretest"
)

func makeLevelDB(t testing.TB) (factstore.Store, func()) {
	tmpDir, err := os.MkdirTemp("", "ontokit_test_leveldb")
	require.NoError(t, err)
	err = factstore.Init(QuadStoreType, tmpDir, nil)
	if err != nil {
		os.RemoveAll(tmpDir)
		require.NoError(t, err, "failed to create leveldb test directory")
	}
	qs, err := factstore.Open(QuadStoreType, tmpDir, nil)
	if err != nil {
		os.RemoveAll(tmpDir)
		require.NoError(t, err, "failed to open leveldb")
	}
	return qs, func() {
		qs.Close()
		os.RemoveAll(tmpDir)
	}
}

func TestLevelDBAll(t *testing.T) {
	factstoretest.TestAll(t, makeLevelDB)
}

func TestInitTwice(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, factstore.Init(QuadStoreType, tmpDir, nil))
	err := factstore.Init(QuadStoreType, tmpDir, nil)
	require.Equal(t, factstore.ErrDatabaseExists, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(t.TempDir()+"/missing", nil)
	require.Error(t, err)
}

func TestReopen(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, factstore.Init(QuadStoreType, tmpDir, nil))
	qs, err := Open(tmpDir, factstore.Options{"bloom_size": 1000, "sync": true})
	require.NoError(t, err)
	require.NoError(t, qs.AddQuads(factstoretest.MakeQuadSet()))
	require.NoError(t, qs.Close())
	require.NoError(t, qs.Close())
	require.True(t, errors.Is(qs.AddQuads(factstoretest.MakeQuadSet()), factstore.ErrClosed))

	qs, err = Open(tmpDir, nil)
	require.NoError(t, err)
	defer qs.Close()
	size, err := qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(len(factstoretest.MakeQuadSet())), size)

	// Everything is known to the rebuilt bloom filter.
	require.NoError(t, qs.AddQuads(factstoretest.MakeQuadSet()))
	size, err = qs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(len(factstoretest.MakeQuadSet())), size)

	stats, err := qs.Stats()
	require.NoError(t, err)
	require.NotEmpty(t, stats)
}
