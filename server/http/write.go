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

package ontokithttp

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/internal/load"
)

// writeResponse is the body of a successful write.
type writeResponse struct {
	Result string `json:"result"`
	Count  int    `json:"count"`
}

func newWriteResponse(count int) writeResponse {
	return writeResponse{
		Result: fmt.Sprintf("Successfully wrote %d quads.", count),
		Count:  count,
	}
}

// requestFormat picks the quad format of the body from Content-Type.
func requestFormat(r *http.Request) *quad.Format {
	if types := mediaTypes(r.Header, hdrContentType); len(types) != 0 {
		return quad.FormatByMime(types[0])
	}
	return quad.FormatByName(defaultFormat)
}

func readerFrom(r *http.Request) (io.ReadCloser, error) {
	if r.Header.Get(hdrContentEncoding) == "gzip" {
		return gzip.NewReader(r.Body)
	}
	return r.Body, nil
}

// ServeWrite adds the quads of the request body to the store.
func (api *API) ServeWrite(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	format := requestFormat(r)
	if format == nil || format.Reader == nil {
		jsonResponse(w, http.StatusBadRequest, "format is not supported for reading data")
		return
	}
	rd, err := readerFrom(r)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	defer rd.Close()
	n, err := load.Reader(api.store, api.cfg.Batch, rd, format)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(newWriteResponse(n))
}
