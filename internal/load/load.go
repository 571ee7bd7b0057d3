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

// Package load reads quad files into fact stores and writes stores back
// out.
package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	_ "github.com/cayleygraph/quad/jsonld"
	_ "github.com/cayleygraph/quad/nquads"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
)

// DefaultBatch is the number of quads written per AddQuads call.
const DefaultBatch = 10000

// ErrUnknownFormat is returned for format names and extensions no quad
// codec is registered for.
var ErrUnknownFormat = errors.New("load: unknown quad format")

// Format finds the codec named typ, or the one matching the extension of
// path when typ is empty. A trailing .gz or .bz2 is ignored.
func Format(typ, path string) (*quad.Format, error) {
	switch typ {
	case "":
	case "quad", "nquad", "nquads":
		typ = "nquads"
	}
	if typ != "" {
		if f := quad.FormatByName(typ); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, typ)
	}
	ext := filepath.Ext(path)
	if ext == ".gz" || ext == ".bz2" {
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
	}
	if f := quad.FormatByExt(ext); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// Open opens a local file or fetches a URL.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "file" || u.Scheme == "" {
		if err == nil && u.Scheme != "" {
			// file://path/to/file
			path = filepath.Join(u.Host, u.Path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open file %q: %w", path, err)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get resource <%s>: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("could not get resource <%s>: %s", u, resp.Status)
	}
	return resp.Body, nil
}

// File loads the quads at path into w and returns how many were read.
func File(ctx context.Context, w factstore.Writer, batch int, path, typ string) (int, error) {
	if path == "" {
		return 0, nil
	}
	format, err := Format(typ, path)
	if err != nil {
		return 0, err
	}
	rc, err := Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return Reader(w, batch, rc, format)
}

// Reader decompresses r if needed and loads its quads into w.
func Reader(w factstore.Writer, batch int, r io.Reader, format *quad.Format) (int, error) {
	if format.Reader == nil {
		return 0, fmt.Errorf("decoding of %q is not supported", format.Name)
	}
	r, err := Decompress(r)
	if err == io.EOF {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	if batch <= 0 {
		batch = DefaultBatch
	}
	qr := format.Reader(r)
	defer qr.Close()
	n, err := quad.CopyBatch(&batchLogger{w: w}, qr, batch)
	if err != nil {
		return n, fmt.Errorf("failed to load data: %w", err)
	}
	return n, nil
}

// batchLogger adapts a fact store writer to quad.BatchWriter.
type batchLogger struct {
	cnt int
	w   factstore.Writer
}

func (b *batchLogger) WriteQuads(quads []quad.Quad) (int, error) {
	if err := b.w.AddQuads(quads); err != nil {
		return 0, err
	}
	b.cnt += len(quads)
	if clog.V(2) {
		clog.Infof("Wrote %d quads.", b.cnt)
	}
	return len(quads), nil
}
