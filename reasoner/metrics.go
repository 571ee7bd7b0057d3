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

package reasoner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ontokit_reasoner_iterations",
		Help:    "Number of rounds needed to reach a fixpoint.",
		Buckets: prometheus.LinearBuckets(1, 2, 16),
	})
	mInferred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_reasoner_inferred_facts_total",
		Help: "Number of new facts added by materialization.",
	})
)
