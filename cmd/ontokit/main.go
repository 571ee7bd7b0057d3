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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ontokit/ontokit/clog"
	_ "github.com/ontokit/ontokit/clog/glog"
	"github.com/ontokit/ontokit/cmd/ontokit/command"
	"github.com/ontokit/ontokit/internal/config"

	// Load all supported backends.
	_ "github.com/ontokit/ontokit/factstore/leveldb"
	_ "github.com/ontokit/ontokit/factstore/memstore"
	_ "github.com/ontokit/ontokit/factstore/sql/mysql"
	_ "github.com/ontokit/ontokit/factstore/sql/postgres"
	_ "github.com/ontokit/ontokit/factstore/sql/sqlite"
)

func main() {
	// glog writes to files unless told otherwise.
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)

	root := command.NewRootCmd(config.New())
	if err := root.Execute(); err != nil {
		clog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
