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

// Package reasoner materializes the closure of a rule set over a fact
// store.
package reasoner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/swrl"
	"github.com/ontokit/ontokit/taxonomy"
)

// ErrMaxIterations is returned when rules still derive new facts after
// the iteration limit.
var ErrMaxIterations = errors.New("reasoner: no fixpoint within the iteration limit")

const DefaultMaxIterations = 32

type Options struct {
	// MaxIterations bounds the number of rounds. Zero means
	// DefaultMaxIterations.
	MaxIterations int
	// Workers bounds concurrent rule applications in a round.
	Workers int
	// Calibrate makes rules read class and property hierarchies declared
	// in the facts, including those derived in earlier rounds.
	Calibrate bool
	// Label is set on every derived quad.
	Label quad.Value
}

// Result is the outcome of a materialization.
type Result struct {
	// Store holds the original facts followed by the derived ones.
	Store *memstore.QuadStore
	// Inferred lists each derived fact once, in derivation order.
	Inferred []swrl.Inference
	// Iterations is the number of rounds run, including the last one
	// that derived nothing new.
	Iterations int
}

// Materialize applies the rules to a copy of base in rounds, adding the
// new facts of each round, until a round derives nothing new. base is not
// modified. On ErrMaxIterations the partial result is returned as well.
func Materialize(ctx context.Context, base *memstore.QuadStore, rules []*swrl.Rule, opts Options) (*Result, error) {
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}
	res := &Result{Store: base.Clone()}
	var tax *taxonomy.Store
	if opts.Calibrate {
		var err error
		if tax, err = taxonomyOf(res.Store); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	for res.Iterations < limit {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Iterations++
		added, err := round(ctx, res, rules, tax, opts)
		if err != nil {
			return res, err
		}
		if clog.V(1) {
			clog.Infof("reasoner: round %d derived %d new facts", res.Iterations, added)
		}
		if added == 0 {
			mIterations.Observe(float64(res.Iterations))
			clog.Infof("reasoner: fixpoint after %d rounds, %d facts derived in %v", res.Iterations, len(res.Inferred), time.Since(start))
			return res, nil
		}
	}
	mIterations.Observe(float64(res.Iterations))
	return res, fmt.Errorf("%w: %d rounds", ErrMaxIterations, limit)
}

// Apply runs the rules once against a snapshot of s and returns the
// derived facts without duplicates. s is not modified.
func Apply(ctx context.Context, s factstore.Store, rules []*swrl.Rule, opts Options) ([]swrl.Inference, error) {
	var tax *taxonomy.Store
	if opts.Calibrate {
		var err error
		if tax, err = taxonomyOf(s); err != nil {
			return nil, err
		}
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Release()
	var r factstore.Reader = snap
	if tax != nil {
		r = factstore.Calibrate(snap, tax)
	}
	infs, err := swrl.ApplyRules(ctx, rules, r, opts.Workers)
	if err != nil {
		return nil, err
	}
	return swrl.Dedup(infs), nil
}

func taxonomyOf(s factstore.Store) (*taxonomy.Store, error) {
	tax := taxonomy.NewStore()
	err := s.ForEach(func(f factstore.Fact) error {
		tax.ProcessQuad(f.Quad())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tax, nil
}

func round(ctx context.Context, res *Result, rules []*swrl.Rule, tax *taxonomy.Store, opts Options) (int, error) {
	snap, err := res.Store.Snapshot()
	if err != nil {
		return 0, err
	}
	defer snap.Release()
	var r factstore.Reader = snap
	if tax != nil {
		r = factstore.Calibrate(snap, tax)
	}
	infs, err := swrl.ApplyRules(ctx, rules, r, opts.Workers)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, inf := range swrl.Dedup(infs) {
		q := inf.Quad()
		q.Label = opts.Label
		f, err := factstore.Classify(q)
		if err != nil {
			clog.Warningf("reasoner: rule %q derived an invalid fact %v: %v", inf.Rule, inf.Fact, err)
			continue
		}
		if res.Store.AddFacts([]factstore.Fact{f}) == 0 {
			continue
		}
		if tax != nil {
			tax.ProcessQuad(q)
		}
		res.Inferred = append(res.Inferred, inf)
		added++
	}
	mInferred.Add(float64(added))
	return added, nil
}

// Copy reads every fact of s into a new memory store.
func Copy(s factstore.Store) (*memstore.QuadStore, error) {
	qs := memstore.New()
	var batch []factstore.Fact
	err := s.ForEach(func(f factstore.Fact) error {
		batch = append(batch, f)
		if len(batch) >= 10000 {
			qs.AddFacts(batch)
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	qs.AddFacts(batch)
	return qs, nil
}
