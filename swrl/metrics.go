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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mApplications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_swrl_rule_applications_total",
		Help: "Number of rule applications.",
	})
	mApplySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "ontokit_swrl_apply_seconds",
		Help: "Time to apply a rule to a fact store.",
	})
	mJoinedRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ontokit_swrl_joined_rows",
		Help:    "Number of rows in a binding table after all atom joins.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	mBuiltInDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ontokit_swrl_builtin_dropped_rows_total",
		Help: "Number of rows dropped by a built-in because of an evaluation error.",
	}, []string{"builtin"})
	mTypeMismatch = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_swrl_type_mismatches_total",
		Help: "Number of values used as a kind or datatype they do not have.",
	})

	mInferences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_swrl_inferences_total",
		Help: "Number of inferences produced.",
	})
	mDroppedInferences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_swrl_dropped_inferences_total",
		Help: "Number of consequent instantiations dropped because a value did not fit its slot.",
	})
)
