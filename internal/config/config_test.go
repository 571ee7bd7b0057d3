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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	_ "github.com/ontokit/ontokit/factstore/memstore"
)

func TestDefaults(t *testing.T) {
	v := New()
	require.NoError(t, ReadFile(v, ""))
	c, err := FromViper(v)
	require.NoError(t, err)
	require.Equal(t, "memstore", c.Backend)
	require.Equal(t, 10000, c.LoadBatch)
	require.Equal(t, 4, c.Workers)
	require.Equal(t, 32, c.MaxIterations)
	require.Equal(t, 30*time.Second, c.Timeout)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontokit.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: leveldb
  path: /var/lib/ontokit
  options:
    cache_size_mb: 8
infer:
  workers: 2
  calibrate: true
http:
  timeout: 5
`), 0o644))
	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := FromViper(v)
	require.NoError(t, err)
	require.Equal(t, "leveldb", c.Backend)
	require.Equal(t, "/var/lib/ontokit", c.Path)
	size, err := c.Options.IntKey("cache_size_mb", 2)
	require.NoError(t, err)
	require.Equal(t, 8, size)
	require.Equal(t, 2, c.Workers)
	require.True(t, c.Calibrate)
	require.Equal(t, 5*time.Second, c.Timeout)

	require.Error(t, ReadFile(New(), filepath.Join(t.TempDir(), "missing.yml")))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ONTOKIT_INFER_MAX_ITERATIONS", "7")
	c, err := FromViper(New())
	require.NoError(t, err)
	require.Equal(t, 7, c.MaxIterations)
}

func TestParseDuration(t *testing.T) {
	for _, c := range []struct {
		in   interface{}
		want time.Duration
	}{
		{nil, 0},
		{"", 0},
		{"1m", time.Minute},
		{"2", 2 * time.Second},
		{"0.5", 500 * time.Millisecond},
		{3, 3 * time.Second},
		{1.5, 1500 * time.Millisecond},
		{time.Hour, time.Hour},
	} {
		got, err := parseDuration(c.in)
		require.NoError(t, err, "%v", c.in)
		require.Equal(t, c.want, got, "%v", c.in)
	}
	_, err := parseDuration("soon")
	require.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	c, err := FromViper(New())
	require.NoError(t, err)
	s, err := c.OpenStore()
	require.NoError(t, err)
	defer s.Close()
	require.ErrorIs(t, c.InitStore(), factstore.ErrOperationNotSupported)
}
