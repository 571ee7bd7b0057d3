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

package swrl

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ontokit/ontokit/factstore"
)

// Job is one rule application.
type Job struct {
	Rule  *Rule
	Store factstore.Reader
}

// ApplyAll applies the jobs on at most workers goroutines (unbounded if
// workers < 1). Results keep the order of jobs. The context is checked
// between jobs only; a running application is not interrupted.
func ApplyAll(ctx context.Context, jobs []Job, workers int) ([][]Inference, error) {
	out := make([][]Inference, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			infs, err := job.Rule.Apply(job.Store)
			if err != nil {
				return err
			}
			out[i] = infs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyRules applies every rule to fs and concatenates the inferences in
// rule order.
func ApplyRules(ctx context.Context, rules []*Rule, fs factstore.Reader, workers int) ([]Inference, error) {
	jobs := make([]Job, len(rules))
	for i, r := range rules {
		jobs[i] = Job{Rule: r, Store: fs}
	}
	res, err := ApplyAll(ctx, jobs, workers)
	if err != nil {
		return nil, err
	}
	var out []Inference
	for _, infs := range res {
		out = append(out, infs...)
	}
	return out, nil
}
