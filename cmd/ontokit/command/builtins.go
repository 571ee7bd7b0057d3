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

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ontokit/ontokit/swrl"
)

func NewBuiltInsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the built-ins available to rules.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range swrl.BuiltIns() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
