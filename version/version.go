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

// Package version holds the build information of the ontokit binary.
package version

import "fmt"

var (
	Version = "0.1.0-dev"

	// GitHash and BuildDate are filled by:
	// 	go build -ldflags="-X github.com/ontokit/ontokit/version.GitHash=xxxx"
	GitHash   = "dev snapshot"
	BuildDate string
)

// String is the one line build description.
func String() string {
	s := fmt.Sprintf("ontokit %s (%s)", Version, GitHash)
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
