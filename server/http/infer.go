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
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/reasoner"
	"github.com/ontokit/ontokit/swrl"
	"github.com/ontokit/ontokit/swrl/rulefile"
)

const maxRulesSize = 1024 * 1024

func readLimit(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxRulesSize).(*io.LimitedReader)
	data, err := io.ReadAll(lr)
	if err == nil && lr.N <= 0 {
		err = errors.New("request is too large")
	}
	return data, err
}

func boolParam(r *http.Request, name string) (bool, error) {
	s := r.FormValue(name)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

type inferenceJSON struct {
	Fact string `json:"fact"`
	Rule string `json:"rule"`
}

type inferResponse struct {
	Result     []inferenceJSON `json:"result"`
	Count      int             `json:"count"`
	Iterations int             `json:"iterations,omitempty"`
	Committed  bool            `json:"committed,omitempty"`
}

// ServeInfer applies the rules of a YAML rule file in the request body to
// the store. With materialize=true the rules run to a fixpoint; with
// commit=true the derived facts are written back to the store.
func (api *API) ServeInfer(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx, cancel := api.requestContext(r)
	defer cancel()
	materialize, err := boolParam(r, "materialize")
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	commit, err := boolParam(r, "commit")
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	} else if commit && api.cfg.ReadOnly {
		jsonResponse(w, http.StatusForbidden, errReadOnly)
		return
	}
	data, err := readLimit(r.Body)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	rules, err := rulefile.Parse(data)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	if clog.V(1) {
		clog.Infof("infer: %d rules, materialize=%v", len(rules), materialize)
	}
	var (
		infs       []swrl.Inference
		iterations int
	)
	if materialize {
		infs, iterations, err = api.materialize(ctx, rules)
	} else {
		infs, err = reasoner.Apply(ctx, api.store, rules, api.options())
	}
	if err != nil {
		jsonResponse(w, errorCode(err), err)
		return
	}
	if commit {
		if err := api.store.AddQuads(swrl.Quads(infs)); err != nil {
			jsonResponse(w, http.StatusInternalServerError, err)
			return
		}
	}
	for _, typ := range mediaTypes(r.Header, hdrAccept) {
		if typ == contentTypeJSON {
			writeJSON(w, infs, iterations, commit)
			return
		}
	}
	writeQuads(w, infs)
}

func (api *API) materialize(ctx context.Context, rules []*swrl.Rule) ([]swrl.Inference, int, error) {
	base, ok := api.store.(*memstore.QuadStore)
	if !ok {
		var err error
		if base, err = reasoner.Copy(api.store); err != nil {
			return nil, 0, err
		}
	}
	res, err := reasoner.Materialize(ctx, base, rules, api.options())
	if err != nil {
		return nil, 0, err
	}
	return res.Inferred, res.Iterations, nil
}

func (api *API) options() reasoner.Options {
	return reasoner.Options{
		MaxIterations: api.cfg.MaxIterations,
		Workers:       api.cfg.Workers,
		Calibrate:     api.cfg.Calibrate,
	}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, reasoner.ErrMaxIterations):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, infs []swrl.Inference, iterations int, committed bool) {
	out := inferResponse{
		Result:     make([]inferenceJSON, 0, len(infs)),
		Count:      len(infs),
		Iterations: iterations,
		Committed:  committed,
	}
	for _, inf := range infs {
		out.Result = append(out.Result, inferenceJSON{Fact: inf.Fact.String(), Rule: inf.Rule})
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(out)
}

func writeQuads(w http.ResponseWriter, infs []swrl.Inference) {
	format := quad.FormatByName(defaultFormat)
	if len(format.Mime) != 0 {
		w.Header().Set(hdrContentType, format.Mime[0])
	}
	qw := format.Writer(w)
	defer qw.Close()
	for _, q := range swrl.Quads(infs) {
		if err := qw.WriteQuad(q); err != nil {
			// headers are already sent
			clog.Errorf("write inferences: %v", err)
			return
		}
	}
}

// ServeBuiltIns lists the names of the registered built-ins.
func ServeBuiltIns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result": swrl.BuiltIns(),
	})
}
