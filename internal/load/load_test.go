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

package load

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/term"
)

const ex = "http://example.org/"

const family = `<http://example.org/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Person> .
<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .
<http://example.org/alice> <http://example.org/age> "34"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/bob> <http://example.org/name> "Bob"@en <http://example.org/people> .
`

func gzipped(t testing.TB, s string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	var tests = []struct {
		message string
		input   io.Reader
		expect  string
		err     error
		readErr error
	}{
		{message: "text input", input: strings.NewReader("ontology data\n"), expect: "ontology data\n"},
		{message: "short input", input: strings.NewReader("ab"), expect: "ab"},
		{message: "gzip input", input: bytes.NewReader(gzipped(t, "ontology data\n")), expect: "ontology data\n"},
		{message: "empty input", input: strings.NewReader(""), err: io.EOF},
		{message: "bad gzip input", input: strings.NewReader("\x1f\x8bontology data\n"), err: gzip.ErrHeader},
		{message: "bad bzip2 input", input: strings.NewReader("BZhontology data\n"), readErr: bzip2.StructuralError("invalid compression level")},
	}
	for _, test := range tests {
		t.Run(test.message, func(t *testing.T) {
			r, err := Decompress(test.input)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			if test.readErr != nil {
				require.Equal(t, test.readErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expect, string(data))
		})
	}
}

func TestFormat(t *testing.T) {
	for _, c := range []struct {
		typ, path, want string
	}{
		{"", "data.nq", "nquads"},
		{"", "data.nq.gz", "nquads"},
		{"quad", "", "nquads"},
		{"jsonld", "data.nq", "jsonld"},
		{"", "data.jsonld", "jsonld"},
	} {
		f, err := Format(c.typ, c.path)
		require.NoError(t, err, "%q %q", c.typ, c.path)
		require.Equal(t, c.want, f.Name)
	}
	_, err := Format("turtle-ish", "")
	require.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Format("", "data.xyz")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileAndDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.nq.gz")
	require.NoError(t, os.WriteFile(path, gzipped(t, family), 0o644))

	qs := memstore.New()
	n, err := File(context.Background(), qs, 2, path, "")
	require.NoError(t, err)
	require.Equal(t, 4, n)

	persons, err := qs.IndividualsOf(ex + "Person")
	require.NoError(t, err)
	require.Equal(t, []term.Individual{term.NewIndividual(ex + "alice")}, persons)
	ages, err := qs.DataEdges(ex + "age")
	require.NoError(t, err)
	require.Len(t, ages, 1)
	require.Equal(t, term.NewInt(34), ages[0].Object)

	var buf bytes.Buffer
	n, err = Dump(&buf, qs, "nquads")
	require.NoError(t, err)
	require.Equal(t, 4, n)

	again := memstore.New()
	n, err = Reader(again, 0, &buf, mustFormat(t, "nquads"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	size, err := again.Size()
	require.NoError(t, err)
	require.Equal(t, int64(4), size)
}

func TestDumpFile(t *testing.T) {
	qs := memstore.New()
	_, err := Reader(qs, 0, strings.NewReader(family), mustFormat(t, "nquads"))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.nq.gz")
	n, err := DumpFile(qs, out, "")
	require.NoError(t, err)
	require.Equal(t, 4, n)

	again := memstore.New()
	n, err = File(context.Background(), again, 0, "file://"+out, "")
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestFileMissing(t *testing.T) {
	_, err := File(context.Background(), memstore.New(), 0, filepath.Join(t.TempDir(), "none.nq"), "")
	require.ErrorIs(t, err, os.ErrNotExist)

	n, err := File(context.Background(), memstore.New(), 0, "", "")
	require.NoError(t, err)
	require.Zero(t, n)
}

func mustFormat(t testing.TB, name string) *quad.Format {
	f, err := Format(name, "")
	require.NoError(t, err)
	return f
}
