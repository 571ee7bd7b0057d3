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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/internal/config"
	"github.com/ontokit/ontokit/internal/load"
	"github.com/ontokit/ontokit/reasoner"
	"github.com/ontokit/ontokit/swrl"
	"github.com/ontokit/ontokit/swrl/rulefile"
)

const formatText = "text"

func NewInferCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer <rules.yml>",
		Short: "Apply the rules of a rule file to the database.",
		Long: "Apply the rules of a rule file to the database and print the derived\n" +
			"facts. With --materialize the rules run until no new fact is derived.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			rules, err := rulefile.ReadFile(args[0])
			if err != nil {
				return err
			}
			printBackendInfo(cfg)
			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if file, _ := cmd.Flags().GetString(flagLoad); file != "" {
				typ, _ := cmd.Flags().GetString(flagLoadFormat)
				if err := loadFile(ctx, s, cfg, file, typ); err != nil {
					return err
				}
			}

			materialize, _ := cmd.Flags().GetBool("materialize")
			start := time.Now()
			infs, err := infer(ctx, s, rules, cfg, materialize)
			if err != nil {
				return err
			}
			clog.Infof("%d rules derived %d facts in %v", len(rules), len(infs), time.Since(start))

			if commit, _ := cmd.Flags().GetBool("commit"); commit {
				if err := s.AddQuads(swrl.Quads(infs)); err != nil {
					return err
				}
			}
			out, _ := cmd.Flags().GetString(flagDump)
			typ, _ := cmd.Flags().GetString(flagDumpFormat)
			return writeInferences(cmd.OutOrStdout(), infs, out, typ)
		},
	}
	cmd.Flags().Bool(flagInit, false, "initialize the database before using it")
	cmd.Flags().Bool("materialize", false, "apply the rules repeatedly until no new fact is derived")
	cmd.Flags().Bool("commit", false, "write the derived facts to the database")
	cmd.Flags().Int("workers", 0, "number of rules applied concurrently")
	cmd.Flags().Int("max_iterations", 0, "bound on materialization rounds")
	cmd.Flags().Bool("calibrate", false, "follow subclass and subproperty declarations in the facts")
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	cmd.Flags().Lookup(flagDumpFormat).Usage += `, or "` + formatText + `"`
	v.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	v.BindPFlag(config.KeyMaxIterations, cmd.Flags().Lookup("max_iterations"))
	v.BindPFlag(config.KeyCalibrate, cmd.Flags().Lookup("calibrate"))
	return cmd
}

func infer(ctx context.Context, s factstore.Store, rules []*swrl.Rule, cfg *config.Config, materialize bool) ([]swrl.Inference, error) {
	opts := reasoner.Options{
		MaxIterations: cfg.MaxIterations,
		Workers:       cfg.Workers,
		Calibrate:     cfg.Calibrate,
	}
	if !materialize {
		return reasoner.Apply(ctx, s, rules, opts)
	}
	base, ok := s.(*memstore.QuadStore)
	if !ok {
		var err error
		if base, err = reasoner.Copy(s); err != nil {
			return nil, err
		}
	}
	res, err := reasoner.Materialize(ctx, base, rules, opts)
	if errors.Is(err, reasoner.ErrMaxIterations) {
		clog.Warningf("%v; writing the %d facts derived so far", err, len(res.Inferred))
		return res.Inferred, nil
	} else if err != nil {
		return nil, err
	}
	return res.Inferred, nil
}

// writeInferences writes infs to out, or to w when out is empty or "-".
func writeInferences(w io.Writer, infs []swrl.Inference, out, typ string) error {
	if typ == formatText {
		for _, inf := range infs {
			if _, err := fmt.Fprintln(w, inf.String()); err != nil {
				return err
			}
		}
		return nil
	}
	qs, err := memstore.NewFromQuads(swrl.Quads(infs))
	if err != nil {
		return err
	}
	if out == "" || out == "-" {
		if typ == "" {
			typ = "nquads"
		}
		_, err = load.Dump(w, qs, typ)
		return err
	}
	_, err = load.DumpFile(qs, out, typ)
	return err
}

