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

package leveldb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mWriteBatch = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "ontokit_leveldb_write_batch",
		Help: "Number of new facts in a leveldb write batch.",
	})
	mWriteSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "ontokit_leveldb_write_seconds",
		Help: "Time to write a batch of facts to leveldb.",
	})

	mBloomHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_leveldb_bloom_hits",
		Help: "Number of times the fact bloom filter returned a negative result.",
	})
	mBloomMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontokit_leveldb_bloom_miss",
		Help: "Number of times the fact bloom filter returned a positive result.",
	})
)
