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

// Package command implements the ontokit command line.
package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/internal/config"
	"github.com/ontokit/ontokit/version"
)

// NewRootCmd builds the ontokit command tree. Settings are read into v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "ontokit",
		Short: "Forward-chaining rules over RDF facts.",
		Long: "ontokit loads RDF facts into a fact store and applies SWRL-style\n" +
			"rules to them, from the command line or over HTTP.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if n, _ := cmd.Flags().GetInt("verbose"); n > 0 {
				clog.SetV(n)
			}
			file, _ := cmd.Flags().GetString("config")
			if err := config.ReadFile(v, file); err != nil {
				return err
			}
			if file := v.ConfigFileUsed(); file != "" {
				clog.Infof("using config file %q", file)
			}
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to an explicit configuration file")
	pf.IntP("verbose", "v", 0, "log verbosity level")
	pf.StringP("backend", "d", "memstore", "fact store backend")
	pf.StringP("path", "a", "", "path or address of the fact store")
	pf.String("cpuprofile", "", "path to output CPU profile")
	pf.String("memprofile", "", "path to output memory profile")
	v.BindPFlag(config.KeyBackend, pf.Lookup("backend"))
	v.BindPFlag(config.KeyPath, pf.Lookup("path"))

	root.AddCommand(
		NewInitDatabaseCmd(v),
		NewLoadDatabaseCmd(v),
		NewDumpDatabaseCmd(v),
		NewInferCmd(v),
		NewHttpCmd(v),
		NewHealthCmd(),
		NewBuiltInsCmd(),
		NewVersionCmd(),
	)
	return root
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
