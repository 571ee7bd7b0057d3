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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ontokit/ontokit/factstore"
)

// Dump writes every fact of s to w in the named format.
func Dump(w io.Writer, s factstore.Store, typ string) (int, error) {
	format, err := Format(typ, "")
	if err != nil {
		return 0, err
	} else if format.Writer == nil {
		return 0, fmt.Errorf("encoding in %s format is not supported", format.Name)
	}
	qw := format.Writer(w)
	n := 0
	err = s.ForEach(func(f factstore.Fact) error {
		if err := qw.WriteQuad(f.Quad()); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		qw.Close()
		return n, err
	}
	return n, qw.Close()
}

// DumpFile writes s to outFile, or to stdout when outFile is "-". A .gz
// extension compresses the output. An empty typ picks the format from the
// extension.
func DumpFile(s factstore.Store, outFile, typ string) (int, error) {
	var w io.Writer = os.Stdout
	if outFile != "-" {
		f, err := os.Create(outFile)
		if err != nil {
			return 0, fmt.Errorf("could not open file %q: %w", outFile, err)
		}
		defer f.Close()
		w = f
	}
	if filepath.Ext(outFile) == ".gz" {
		gz := gzip.NewWriter(w)
		defer gz.Close()
		w = gz
	}
	if typ == "" {
		format, err := Format("", outFile)
		if err != nil {
			return 0, err
		}
		typ = format.Name
	}
	return Dump(w, s, typ)
}
