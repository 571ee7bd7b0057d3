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
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/internal/config"
	"github.com/ontokit/ontokit/internal/load"
)

const (
	flagLoad       = "load"
	flagLoadFormat = "load_format"
	flagDump       = "dump"
	flagDumpFormat = "dump_format"
	flagInit       = "init"
)

var ErrNotPersistent = errors.New("database type is not persistent")

func formatNames(read bool) string {
	var names []string
	for _, f := range quad.Formats() {
		if (read && f.Reader != nil) || (!read && f.Writer != nil) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return `"` + strings.Join(names, `", "`) + `"`
}

func registerLoadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagLoad, "i", "", `quad file or URL to load (".gz" and ".bz2" supported)`)
	cmd.Flags().String(flagLoadFormat, "", "quad file format to use for loading instead of auto-detection ("+formatNames(true)+")")
}

func registerDumpFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagDump, "o", "", `quad file to write to (".gz" supported, "-" for stdout)`)
	cmd.Flags().String(flagDumpFormat, "", "quad file format to use instead of auto-detection ("+formatNames(false)+")")
}

func NewInitDatabaseCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			printBackendInfo(cfg)
			if factstore.IsRegistered(cfg.Backend) && !factstore.IsPersistent(cfg.Backend) {
				return ErrNotPersistent
			}
			return cfg.InitStore()
		},
	}
}

func NewLoadDatabaseCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Bulk-load a quad file into the database.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)
			file, _ := cmd.Flags().GetString(flagLoad)
			if file == "" && len(args) == 1 {
				file = args[0]
			}
			if file == "" {
				return errors.New("one quads file must be specified")
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			printBackendInfo(cfg)
			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			typ, _ := cmd.Flags().GetString(flagLoadFormat)
			if err := loadFile(cmd.Context(), s, cfg, file, typ); err != nil {
				return err
			}
			if dump, _ := cmd.Flags().GetString(flagDump); dump != "" {
				typ, _ := cmd.Flags().GetString(flagDumpFormat)
				_, err = load.DumpFile(s, dump, typ)
			}
			return err
		},
	}
	cmd.Flags().Bool(flagInit, false, "initialize the database before using it")
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	return cmd
}

func NewDumpDatabaseCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Bulk-dump the database into a quad file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, _ := cmd.Flags().GetString(flagDump)
			if dump == "" && len(args) == 1 {
				dump = args[0]
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			printBackendInfo(cfg)
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()
			typ, _ := cmd.Flags().GetString(flagDumpFormat)
			var n int
			if dump == "" || dump == "-" {
				if typ == "" {
					typ = "nquads"
				}
				n, err = load.Dump(cmd.OutOrStdout(), s, typ)
			} else {
				n, err = load.DumpFile(s, dump, typ)
			}
			if err != nil {
				return err
			}
			clog.Infof("dumped %d quads", n)
			return nil
		},
	}
	registerDumpFlags(cmd)
	return cmd
}

func printBackendInfo(cfg *config.Config) {
	path := cfg.Path
	if path != "" {
		path = " (" + path + ")"
	}
	clog.Infof("using backend %q%s", cfg.Backend, path)
}

// openStore opens the configured store, initializing it first when the
// command has a true --init flag.
func openStore(cmd *cobra.Command, cfg *config.Config) (factstore.Store, error) {
	if f := cmd.Flags().Lookup(flagInit); f != nil && f.Value.String() == "true" {
		err := cfg.InitStore()
		switch {
		case errors.Is(err, factstore.ErrDatabaseExists):
			clog.Infof("database already initialized, skipping init")
		case errors.Is(err, factstore.ErrOperationNotSupported):
		case err != nil:
			return nil, err
		}
	}
	return cfg.OpenStore()
}

func loadFile(ctx context.Context, s factstore.Store, cfg *config.Config, file, typ string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	n, err := load.File(ctx, s, cfg.LoadBatch, file, typ)
	if err != nil {
		return err
	}
	clog.Infof("loaded %d quads from %q in %v", n, file, time.Since(start))
	return nil
}

type profileData struct {
	cpuProfile *os.File
	memPath    string
}

func mustSetupProfile(cmd *cobra.Command) profileData {
	p := profileData{}
	if mpp := cmd.Flag("memprofile"); mpp != nil {
		p.memPath = mpp.Value.String()
	}
	cpp := cmd.Flag("cpuprofile")
	if cpp == nil {
		return p
	}
	if v := cpp.Value.String(); v != "" {
		f, err := os.Create(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open CPU profile file %s\n", v)
			os.Exit(1)
		}
		p.cpuProfile = f
		pprof.StartCPUProfile(f)
	}
	return p
}

func mustFinishProfile(p profileData) {
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
	}
	if p.memPath != "" {
		f, err := os.Create(p.memPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open memory profile file %s\n", p.memPath)
			os.Exit(1)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write memory profile file %s\n", p.memPath)
		}
		f.Close()
	}
}
