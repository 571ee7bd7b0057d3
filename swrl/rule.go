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
	"fmt"
	"strings"
	"time"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
)

// Rule derives the facts of its consequent for every consistent binding
// of its antecedent. A rule holds no evaluation state and may be applied
// concurrently.
type Rule struct {
	Name        string
	Description string
	Antecedent  *Antecedent
	Consequent  *Consequent
}

// NewRule returns the rule antecedent -> consequent. Every variable of the
// consequent must be bound by the antecedent.
func NewRule(name string, antecedent *Antecedent, consequent *Consequent) (*Rule, error) {
	const fn = "NewRule"
	if antecedent == nil {
		return nil, argError(fn, "antecedent", ErrNilArgument)
	}
	if consequent == nil {
		return nil, argError(fn, "consequent", ErrNilArgument)
	}
	bound := make(map[Variable]bool)
	for _, v := range antecedent.Variables() {
		bound[v] = true
	}
	for _, v := range consequent.Variables() {
		if !bound[v] {
			return nil, argError(fn, "consequent", fmt.Errorf("%w: %v", ErrUnboundVariable, v))
		}
	}
	return &Rule{Name: name, Antecedent: antecedent, Consequent: consequent}, nil
}

// Apply evaluates the rule over fs and returns its inferences, row-major
// in the order of the binding table. It does not modify fs. The only
// errors returned are those of the fact store.
func (r *Rule) Apply(fs factstore.Reader) ([]Inference, error) {
	start := time.Now()
	mApplications.Inc()
	defer func() { mApplySeconds.Observe(time.Since(start).Seconds()) }()

	t, err := r.Antecedent.Evaluate(fs)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	if t.Len() == 0 {
		if clog.V(1) {
			clog.Infof("swrl: rule %q: no bindings", r.Name)
		}
		return nil, nil
	}
	infs := r.Consequent.materialize(t, r.Name)
	mInferences.Add(float64(len(infs)))
	if clog.V(1) {
		clog.Infof("swrl: rule %q: %d bindings, %d inferences in %v", r.Name, t.Len(), len(infs), time.Since(start))
	}
	return infs, nil
}

// String renders the rule as "a1 ^ a2 ^ b1 -> c1 ^ c2".
func (r *Rule) String() string {
	var sb strings.Builder
	if s := r.Antecedent.String(); s != "" {
		sb.WriteString(s)
		sb.WriteByte(' ')
	}
	sb.WriteString("-> ")
	sb.WriteString(r.Consequent.String())
	return sb.String()
}
